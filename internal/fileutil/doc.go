// Package fileutil holds small filesystem helpers shared by the album
// document writer, the cover writer and the library builder.
package fileutil
