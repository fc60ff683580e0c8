package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"platter/internal/logging"
	"platter/internal/media/ffprobe"
	"platter/internal/services"
)

// ErrNoProfileParts reports an empty command template.
var ErrNoProfileParts = errors.New("not enough profile parts")

// Options configures FFmpeg.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	// Format selects the slice profile output format.
	Format      string
	BitrateKbps int
	// SliceCommand replaces the built-in slice template when set.
	SliceCommand string
	Logger       *slog.Logger
}

// FFmpeg implements Transcoder, Slicer and Prober with the ffmpeg and ffprobe CLIs.
type FFmpeg struct {
	ffmpeg      string
	ffprobe     string
	profile     Profile
	bitrateKbps int
	logger      *slog.Logger
}

var (
	_ Transcoder = (*FFmpeg)(nil)
	_ Slicer     = (*FFmpeg)(nil)
	_ Prober     = (*FFmpeg)(nil)
)

// NewFFmpeg validates options and returns an FFmpeg runner.
func NewFFmpeg(opts Options) (*FFmpeg, error) {
	profile, ok := LookupProfile(opts.Format)
	if !ok {
		return nil, fmt.Errorf("unsupported audio format %q", opts.Format)
	}
	if custom := strings.TrimSpace(opts.SliceCommand); custom != "" {
		parts, err := shlex.Split(custom)
		if err != nil {
			return nil, fmt.Errorf("audio.slice_command: %w", err)
		}
		if !containsAll(parts, "<file>", "<output>") {
			return nil, errors.New("audio.slice_command must contain <file> and <output>")
		}
		profile.Slice = custom
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	bitrate := opts.BitrateKbps
	if bitrate <= 0 {
		bitrate = 320
	}
	return &FFmpeg{
		ffmpeg:      defaultString(opts.FFmpegBinary, "ffmpeg"),
		ffprobe:     defaultString(opts.FFprobeBinary, "ffprobe"),
		profile:     profile,
		bitrateKbps: bitrate,
		logger:      logging.NewComponentLogger(logger, "ffmpeg"),
	}, nil
}

// Profile returns the active output profile.
func (f *FFmpeg) Profile() Profile {
	return f.profile
}

// Extension returns the library file extension, including the dot.
func (f *FFmpeg) Extension() string {
	return f.profile.Extension
}

// Slice implements Slicer using the active profile.
func (f *FFmpeg) Slice(ctx context.Context, in string, startMs, endMs int64, out string) error {
	if endMs <= startMs {
		return services.Wrap(services.ErrValidation, "audio", "slice", fmt.Sprintf("empty range [%d,%d)", startMs, endMs), nil)
	}
	return f.run(ctx, "slice", f.profile.Slice, templateArgs{
		file:    in,
		output:  out,
		startMs: startMs,
		endMs:   endMs,
		bitrate: f.bitrateKbps,
	})
}

// Transcode implements Transcoder. The output format follows the extension
// of out.
func (f *FFmpeg) Transcode(ctx context.Context, in, out string, bitrateKbps int) error {
	profile, ok := ProfileForPath(out)
	if !ok {
		return services.Wrap(services.ErrValidation, "audio", "transcode", fmt.Sprintf("unsupported output extension %q", out), nil)
	}
	if bitrateKbps <= 0 {
		bitrateKbps = f.bitrateKbps
	}
	return f.run(ctx, "transcode", profile.Transcode, templateArgs{file: in, output: out, bitrate: bitrateKbps})
}

// ProbeDuration implements Prober with ffprobe.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (int64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, services.Wrap(services.ErrNotFound, "audio", "probe", path, err)
	}
	result, err := ffprobe.Inspect(ctx, f.ffprobe, path)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "audio", "probe", path, err)
	}
	ms, err := result.DurationMs()
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "audio", "probe", path, err)
	}
	return ms, nil
}

func (f *FFmpeg) run(ctx context.Context, operation, template string, args templateArgs) error {
	name, argv, err := expand(template, f.ffmpeg, args)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", operation, "prepare command", err)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, name, argv...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 512 {
			detail = detail[len(detail)-512:]
		}
		return services.Wrap(services.ErrExternalTool, "audio", operation, detail, err)
	}
	info, err := os.Stat(args.output)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", operation, "ffmpeg produced no output", err)
	}
	f.logger.Debug("ffmpeg finished",
		logging.String("operation", operation),
		logging.String("input", args.file),
		logging.String("output", args.output),
		logging.Int64("bytes", info.Size()),
		logging.Duration("elapsed", time.Since(start)),
		logging.String(logging.FieldEventType, "ffmpeg_"+operation),
	)
	return nil
}

func containsAll(parts []string, want ...string) bool {
	for _, w := range want {
		found := false
		for _, p := range parts {
			if p == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
