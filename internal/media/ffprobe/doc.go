// Package ffprobe wraps the ffprobe CLI to inspect audio captures.
//
// Inspect runs ffprobe with JSON output and returns a Result whose helpers
// report the primary audio stream and its duration in whole milliseconds.
package ffprobe
