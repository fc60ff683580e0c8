package audio

import "context"

// Transcoder converts a whole capture into another file at a bitrate.
type Transcoder interface {
	Transcode(ctx context.Context, in, out string, bitrateKbps int) error
}

// Slicer extracts the half-open millisecond range [startMs, endMs) of in into out.
type Slicer interface {
	Slice(ctx context.Context, in string, startMs, endMs int64, out string) error
}

// Prober reports the duration of an audio file in whole milliseconds.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (int64, error)
}
