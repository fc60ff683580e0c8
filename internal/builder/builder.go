package builder

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"platter/internal/album"
	"platter/internal/artwork"
	"platter/internal/audio"
	"platter/internal/fileutil"
	"platter/internal/logging"
	"platter/internal/services"
	"platter/internal/tagging"
)

// Options configures a Builder.
type Options struct {
	// Extension of the output files including the dot, for example ".flac".
	Extension string
	// Workers bounds the tracks processed concurrently within one side.
	Workers int
	// KeepGoing continues with later sides after a side fails.
	KeepGoing bool
	// EmbedCover embeds the prepared cover into every track.
	EmbedCover bool
	// CoverMaxSize bounds the longest cover edge in pixels. Zero keeps the size.
	CoverMaxSize int
	// DefaultTags are stamped on every track below album and track tags.
	DefaultTags map[string]string
	Logger      *slog.Logger
}

// Builder turns album documents into library folders.
type Builder struct {
	slicer audio.Slicer
	prober audio.Prober
	tagger tagging.Tagger
	opts   Options
	logger *slog.Logger
}

// New returns a Builder that slices with slicer, probes with prober and tags
// with tagger.
func New(slicer audio.Slicer, prober audio.Prober, tagger tagging.Tagger, opts Options) (*Builder, error) {
	if slicer == nil || prober == nil || tagger == nil {
		return nil, errors.New("builder requires a slicer, a prober and a tagger")
	}
	opts.Extension = strings.TrimSpace(opts.Extension)
	if opts.Extension == "" {
		return nil, errors.New("builder requires an output extension")
	}
	if !strings.HasPrefix(opts.Extension, ".") {
		opts.Extension = "." + opts.Extension
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Builder{
		slicer: slicer,
		prober: prober,
		tagger: tagger,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "builder"),
	}, nil
}

// Build writes every track of a into outputRoot/{AlbumTitle}. Probed side
// durations are stored back into a.Sides so the caller can save them. The
// manifest is returned even when the build fails.
func (b *Builder) Build(ctx context.Context, a *album.Album, outputRoot string) (Manifest, error) {
	if err := album.ValidateForBuild(a); err != nil {
		return Manifest{}, err
	}
	ctx = services.WithStage(ctx, "build")
	logger := logging.WithContext(ctx, b.logger)

	manifest := Manifest{AlbumDir: AlbumDir(outputRoot, a)}
	highest := highestNumber(a)
	total := a.TrackCount()
	for _, side := range a.Sides {
		for _, t := range side.Tracks {
			manifest.Entries = append(manifest.Entries, Entry{
				Side:   side.Index,
				Number: t.Number,
				Title:  t.Title,
				Artist: a.TrackArtist(t),
				Path:   filepath.Join(manifest.AlbumDir, TrackFileName(t.Number, highest, t.Title, b.opts.Extension)),
				Tags:   trackTags(a, t, total, b.opts.DefaultTags),
				Status: StatusSkipped,
			})
		}
	}

	if err := os.MkdirAll(manifest.AlbumDir, 0o755); err != nil {
		return manifest, &BuildError{Reason: ReasonOutputDir, Path: manifest.AlbumDir, Err: err}
	}

	logger.Info("build started",
		logging.String(logging.FieldEventType, "build_start"),
		logging.String("album", a.Title),
		logging.String("album_dir", manifest.AlbumDir),
		logging.Int("sides", len(a.Sides)),
		logging.Int("tracks", total),
		logging.Int("workers", b.opts.Workers),
	)

	cover, err := b.writeCover(logger, a, &manifest)
	if err != nil {
		return manifest, err
	}
	if cover != nil && b.opts.EmbedCover {
		for i := range manifest.Entries {
			manifest.Entries[i].Tags.Cover = cover
		}
	}

	var sideErrs []error
	offset := 0
	for si := range a.Sides {
		side := &a.Sides[si]
		entries := manifest.Entries[offset : offset+len(side.Tracks)]
		offset += len(side.Tracks)

		if len(sideErrs) > 0 && !b.opts.KeepGoing {
			continue
		}
		if err := ctx.Err(); err != nil {
			sideErrs = append(sideErrs, err)
			continue
		}
		if err := b.buildSide(ctx, a, side, entries); err != nil {
			sideErrs = append(sideErrs, err)
		}
	}
	if len(sideErrs) > 0 {
		b.logFinished(logger, manifest, false)
		return manifest, errors.Join(sideErrs...)
	}

	if err := verify(manifest.Entries); err != nil {
		b.logFinished(logger, manifest, false)
		return manifest, err
	}
	b.logFinished(logger, manifest, true)
	return manifest, nil
}

func (b *Builder) writeCover(logger *slog.Logger, a *album.Album, manifest *Manifest) (*tagging.Picture, error) {
	if strings.TrimSpace(a.Cover) == "" {
		return nil, nil
	}
	source := a.ResolvePath(a.Cover)
	cover, err := artwork.Load(source, b.opts.CoverMaxSize)
	if err != nil {
		return nil, &BuildError{Reason: ReasonCover, Path: source, Err: err}
	}
	path, err := artwork.Write(manifest.AlbumDir, cover)
	if err != nil {
		return nil, &BuildError{Reason: ReasonCover, Path: manifest.AlbumDir, Err: err}
	}
	manifest.CoverPath = path
	logger.Info("cover written",
		logging.String(logging.FieldEventType, "cover_written"),
		logging.String("path", path),
		logging.Int("width", cover.Width),
		logging.Int("height", cover.Height),
		logging.Bool("reencoded", cover.Reencoded),
	)
	return &tagging.Picture{Data: cover.Data, MIME: cover.MIME()}, nil
}

// verify checks that every written track is present and non-empty. The
// first missing output (lowest track number) is reported.
func verify(entries []Entry) error {
	var first *BuildError
	for i := range entries {
		e := &entries[i]
		if e.Status != StatusWritten {
			continue
		}
		size, err := fileutil.NonEmpty(e.Path)
		if err != nil {
			e.Status = StatusFailed
			e.Err = err
			if first == nil || e.Number < first.Track {
				first = &BuildError{Side: e.Side, Track: e.Number, Title: e.Title, Path: e.Path, Reason: ReasonIncomplete, Err: err}
			}
			continue
		}
		e.Size = size
	}
	if first != nil {
		return first
	}
	return nil
}

func (b *Builder) logFinished(logger *slog.Logger, m Manifest, ok bool) {
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "build_complete"),
		logging.Int("written", m.Count(StatusWritten)),
		logging.Int("failed", m.Count(StatusFailed)),
		logging.Int("skipped", m.Count(StatusSkipped)),
		logging.Int64("bytes", m.TotalBytes()),
	}
	if ok {
		logger.Info("build completed", logging.Args(attrs...)...)
		return
	}
	logging.ErrorWithContext(logger, "build failed", "build_failed",
		append(attrs, logging.String(logging.FieldErrorHint, "fix the reported track and re-run; written tracks are kept"))...)
}
