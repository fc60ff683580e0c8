package audio

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Profile is an ffmpeg command template for one output format. Templates
// are split like a shell command line and these placeholders are replaced
// by whole arguments: <file>, <start>, <end>, <bitrate>, <output>.
type Profile struct {
	Format    string
	Extension string
	MIME      string
	Lossless  bool
	// Slice extracts a range of <file>.
	Slice string
	// Transcode converts all of <file>.
	Transcode string
}

var profiles = map[string]Profile{
	"flac": {
		Format: "flac", Extension: ".flac", MIME: "audio/flac", Lossless: true,
		Slice:     `ffmpeg -v error -nostdin -y -i <file> -ss <start> -to <end> -map 0:a:0 -map_metadata -1 -c:a flac -compression_level 8 -f flac <output>`,
		Transcode: `ffmpeg -v error -nostdin -y -i <file> -map 0:a:0 -map_metadata -1 -c:a flac -compression_level 8 -f flac <output>`,
	},
	"mp3": {
		Format: "mp3", Extension: ".mp3", MIME: "audio/mpeg",
		Slice:     `ffmpeg -v error -nostdin -y -i <file> -ss <start> -to <end> -map 0:a:0 -map_metadata -1 -vn -c:a libmp3lame -b:a <bitrate> -id3v2_version 3 -f mp3 <output>`,
		Transcode: `ffmpeg -v error -nostdin -y -i <file> -map 0:a:0 -map_metadata -1 -vn -c:a libmp3lame -b:a <bitrate> -id3v2_version 3 -f mp3 <output>`,
	},
	"opus": {
		Format: "opus", Extension: ".opus", MIME: "audio/ogg",
		Slice:     `ffmpeg -v error -nostdin -y -i <file> -ss <start> -to <end> -map 0:a:0 -map_metadata -1 -vn -c:a libopus -b:a <bitrate> -vbr on -f opus <output>`,
		Transcode: `ffmpeg -v error -nostdin -y -i <file> -map 0:a:0 -map_metadata -1 -vn -c:a libopus -b:a <bitrate> -vbr on -f opus <output>`,
	},
	"ogg": {
		Format: "ogg", Extension: ".ogg", MIME: "audio/ogg",
		Slice:     `ffmpeg -v error -nostdin -y -i <file> -ss <start> -to <end> -map 0:a:0 -map_metadata -1 -vn -c:a libvorbis -b:a <bitrate> -f ogg <output>`,
		Transcode: `ffmpeg -v error -nostdin -y -i <file> -map 0:a:0 -map_metadata -1 -vn -c:a libvorbis -b:a <bitrate> -f ogg <output>`,
	},
}

// LookupProfile returns the built-in profile for format.
func LookupProfile(format string) (Profile, bool) {
	p, ok := profiles[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))]
	return p, ok
}

// ProfileForPath returns the built-in profile matching the extension of path.
func ProfileForPath(path string) (Profile, bool) {
	return LookupProfile(filepath.Ext(path))
}

type templateArgs struct {
	file    string
	output  string
	startMs int64
	endMs   int64
	bitrate int
}

// expand splits template and substitutes placeholders. The first word names
// the program; "ffmpeg" is replaced by ffmpegBinary.
func expand(template, ffmpegBinary string, args templateArgs) (string, []string, error) {
	parts, err := shlex.Split(template)
	if err != nil {
		return "", nil, fmt.Errorf("split command: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, ErrNoProfileParts
	}
	program := parts[0]
	if program == "ffmpeg" && strings.TrimSpace(ffmpegBinary) != "" {
		program = ffmpegBinary
	}
	name, err := exec.LookPath(program)
	if err != nil {
		return "", nil, fmt.Errorf("find %s: %w", program, err)
	}

	out := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		switch p {
		case "<file>":
			out = append(out, args.file)
		case "<output>":
			out = append(out, args.output)
		case "<start>":
			out = append(out, FormatSeconds(args.startMs))
		case "<end>":
			out = append(out, FormatSeconds(args.endMs))
		case "<bitrate>":
			out = append(out, fmt.Sprintf("%dk", args.bitrate))
		default:
			out = append(out, p)
		}
	}
	return name, out, nil
}

// FormatSeconds renders milliseconds as an exact ffmpeg time value, e.g. 180000 -> "180.000".
func FormatSeconds(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%d.%03d", sign, ms/1000, ms%1000)
}
