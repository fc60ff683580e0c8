package artwork

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoder registration
	"image/jpeg"
	_ "image/png" // decoder registration
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp" // decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder registration

	"platter/internal/fileutil"
	"platter/internal/services"
)

// FileName is the cover file written next to the tracks.
const FileName = "cover.jpg"

// MIMEJPEG is the MIME type of every prepared cover.
const MIMEJPEG = "image/jpeg"

const jpegQuality = 90

// Cover is a prepared JPEG cover.
type Cover struct {
	Data   []byte
	Width  int
	Height int
	// Reencoded is true when the source was resized or converted.
	Reencoded bool
	// SourceMIME is the sniffed type of the original image.
	SourceMIME string
}

// MIME returns the MIME type of Data.
func (c Cover) MIME() string { return MIMEJPEG }

// Load reads path and prepares it with Prepare.
func Load(path string, maxSize int) (Cover, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Cover{}, services.Wrap(services.ErrNotFound, "artwork", "read cover", path, err)
		}
		return Cover{}, fmt.Errorf("read cover %s: %w", path, err)
	}
	cover, err := Prepare(data, maxSize)
	if err != nil {
		return Cover{}, fmt.Errorf("%s: %w", path, err)
	}
	return cover, nil
}

// Prepare returns data as a JPEG whose longest edge is at most maxSize.
// maxSize <= 0 disables scaling.
func Prepare(data []byte, maxSize int) (Cover, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return Cover{}, services.Wrap(services.ErrValidation, "artwork", "sniff", "cover is not a recognised image", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Cover{}, services.Wrap(services.ErrValidation, "artwork", "decode",
			fmt.Sprintf("unsupported image type %s", kind.MIME.Value), err)
	}

	width, height := fit(cfg.Width, cfg.Height, maxSize)
	if kind.MIME.Value == MIMEJPEG && width == cfg.Width && height == cfg.Height {
		return Cover{Data: data, Width: width, Height: height, SourceMIME: kind.MIME.Value}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Cover{}, services.Wrap(services.ErrValidation, "artwork", "decode", kind.MIME.Value, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Cover{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Cover{
		Data:       buf.Bytes(),
		Width:      width,
		Height:     height,
		Reencoded:  true,
		SourceMIME: kind.MIME.Value,
	}, nil
}

// Write stores the cover as dir/cover.jpg, replacing any previous file
// atomically. It returns the written path.
func Write(dir string, c Cover) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := fileutil.WriteFileAtomic(path, c.Data, 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return path, nil
}

// fit scales width x height down so the longest edge is at most maxSize,
// keeping the aspect ratio. Edges never drop below one pixel.
func fit(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		h := height * maxSize / width
		return maxSize, max(h, 1)
	}
	w := width * maxSize / height
	return max(w, 1), maxSize
}
