// Package audio defines the transcode, slice and probe operations the
// library builder depends on, and implements them with ffmpeg and ffprobe.
//
// Commands come from per-format profiles: shell-style templates with
// <file>, <start>, <end>, <bitrate> and <output> placeholders. Offsets are
// passed to ffmpeg as exact decimal seconds derived from integral
// milliseconds, so adjacent tracks share their boundary sample.
package audio
