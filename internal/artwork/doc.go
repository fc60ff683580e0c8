// Package artwork prepares album cover images for the library.
//
// A JPEG already within the size limit is used byte for byte. Anything else
// (larger images, PNG, WebP, BMP, GIF) is decoded, scaled down with Catmull-Rom
// when needed and re-encoded as JPEG.
package artwork
