package builder

import (
	"context"
	"errors"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"platter/internal/album"
	"platter/internal/fileutil"
	"platter/internal/logging"
	"platter/internal/segment"
	"platter/internal/services"
)

// buildSide probes, segments and writes one side. entries are the manifest
// entries of the side's tracks, in track order.
func (b *Builder) buildSide(ctx context.Context, a *album.Album, side *album.Side, entries []Entry) error {
	ctx = services.WithSide(ctx, side.Index)
	logger := logging.WithContext(ctx, b.logger)
	source := a.ResolvePath(side.Source)

	durationMs, err := b.prober.ProbeDuration(ctx, source)
	if err != nil {
		return &BuildError{Side: side.Index, Reason: ReasonProbe, Path: source, Err: err}
	}
	side.Duration = album.Offset(durationMs)

	plan, err := planSide(side, durationMs)
	if err != nil {
		return &BuildError{Side: side.Index, Reason: ReasonSegmentation, Path: source, Err: err}
	}
	if plan.CoercedFirst {
		logging.WarnWithContext(logger, "first track start moved to the beginning of the side", "segment_coerced",
			logging.Int64("original_start_ms", plan.OriginalFirstMs),
			logging.String(logging.FieldImpact, "audio before the first start is included in the first track"),
			logging.String(logging.FieldErrorHint, "set the first track start to 0:00.000 in the album document"),
		)
	}
	for i := range entries {
		entries[i].StartMs = plan.Ranges[i].StartMs
		entries[i].EndMs = plan.Ranges[i].EndMs
	}

	logger.Info("side started",
		logging.String(logging.FieldEventType, "side_start"),
		logging.String("source", source),
		logging.Int64("duration_ms", durationMs),
		logging.Int64("planned_ms", plan.DurationMs),
		logging.Int("tracks", len(entries)),
	)

	var (
		failed atomic.Bool
		g      errgroup.Group
	)
	g.SetLimit(b.opts.Workers)
	for i := range entries {
		entry := &entries[i]
		g.Go(func() error {
			if failed.Load() || ctx.Err() != nil {
				return nil
			}
			if err := b.buildTrack(ctx, source, entry); err != nil {
				failed.Store(true)
				entry.Status = StatusFailed
				entry.Err = err
				return err
			}
			entry.Status = StatusWritten
			return nil
		})
	}
	_ = g.Wait()

	if first := firstFailure(entries); first != nil {
		return &BuildError{
			Side:   first.Side,
			Track:  first.Number,
			Title:  first.Title,
			Path:   first.Path,
			Reason: ReasonTrack,
			Err:    first.Err,
		}
	}
	if err := ctx.Err(); err != nil {
		return &BuildError{Side: side.Index, Reason: ReasonTrack, Err: err}
	}
	logger.Info("side completed",
		logging.String(logging.FieldEventType, "side_complete"),
		logging.Int("tracks", len(entries)),
	)
	return nil
}

// planSide segments a side. An explicit end on the last track shortens the
// side; it may not reach past the probed duration.
func planSide(side *album.Side, durationMs int64) (segment.Plan, error) {
	starts := make([]int64, len(side.Tracks))
	for i, t := range side.Tracks {
		starts[i] = t.Start.Milliseconds()
	}
	end := durationMs
	if n := len(side.Tracks); n > 0 && side.Tracks[n-1].End != nil {
		explicit := side.Tracks[n-1].End.Milliseconds()
		if explicit > durationMs {
			return segment.Plan{}, &segment.Error{
				Reason:     segment.ReasonBeyondDuration,
				Index:      -1,
				DurationMs: durationMs,
				Starts:     starts,
			}
		}
		end = explicit
	}
	return segment.Segment(end, starts)
}

// buildTrack slices one range into a partial file, tags it and renames it
// onto the final path. The partial file is removed on failure.
func (b *Builder) buildTrack(ctx context.Context, source string, entry *Entry) (err error) {
	ctx = services.WithTrack(ctx, entry.Number)
	logger := logging.WithContext(ctx, b.logger)
	partial := fileutil.PartialPath(entry.Path)

	if rmErr := os.Remove(partial); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return rmErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(partial)
			logging.ErrorWithContext(logger, "track failed", "track_failed", logging.Error(err))
		}
	}()

	if err := b.slicer.Slice(ctx, source, entry.StartMs, entry.EndMs, partial); err != nil {
		return err
	}
	if err := b.tagger.Tag(ctx, partial, entry.Tags); err != nil {
		return err
	}
	if err := os.Rename(partial, entry.Path); err != nil {
		return err
	}
	logger.Debug("track written",
		logging.String(logging.FieldEventType, "track_written"),
		logging.String("path", entry.Path),
		logging.Int64("start_ms", entry.StartMs),
		logging.Int64("end_ms", entry.EndMs),
	)
	return nil
}

func firstFailure(entries []Entry) *Entry {
	var first *Entry
	for i := range entries {
		e := &entries[i]
		if e.Status == StatusFailed && (first == nil || e.Number < first.Number) {
			first = e
		}
	}
	return first
}
