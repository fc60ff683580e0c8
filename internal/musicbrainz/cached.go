package musicbrainz

import (
	"context"
	"log/slog"

	"platter/internal/album"
	"platter/internal/logging"
	"platter/internal/services"
)

// Cache stores releases between runs.
type Cache interface {
	Get(ctx context.Context, id string) (album.Release, bool, error)
	Put(ctx context.Context, release album.Release) error
}

// CachedFetcher serves releases from a cache and falls back to another
// Fetcher on a miss. Cache failures are logged and never fail a fetch.
type CachedFetcher struct {
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
	// BypassCache ignores cached entries and replaces them with fresh data.
	BypassCache bool
}

var _ Fetcher = (*CachedFetcher)(nil)

// NewCachedFetcher wraps fetcher with cache. A nil cache disables caching.
func NewCachedFetcher(fetcher Fetcher, cache Cache, logger *slog.Logger) *CachedFetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CachedFetcher{
		fetcher: fetcher,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "musicbrainz"),
	}
}

// Fetch implements Fetcher.
func (f *CachedFetcher) Fetch(ctx context.Context, releaseID string) (album.Release, error) {
	ctx = services.WithStage(ctx, "fetch")
	logger := logging.WithContext(ctx, f.logger)
	id := releaseID
	if normalized, err := NormalizeReleaseID(releaseID); err == nil {
		id = normalized
	}

	if f.cache != nil && !f.BypassCache {
		release, ok, err := f.cache.Get(ctx, id)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "release cache read failed", "release_cache_read_failed",
				logging.String("release_id", id),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run 'platter cache clear' if the cache is corrupt"),
				logging.String(logging.FieldImpact, "release fetched from the network instead"),
			)
		case ok:
			logger.Debug("release cache hit",
				logging.String("release_id", id),
				logging.String(logging.FieldEventType, "release_cache_hit"),
			)
			return release, nil
		}
	}

	release, err := f.fetcher.Fetch(ctx, id)
	if err != nil {
		return album.Release{}, err
	}
	logger.Info("release fetched",
		logging.String("release_id", release.ID),
		logging.String("title", release.Title),
		logging.Int("tracks", len(release.Tracks)),
		logging.String(logging.FieldEventType, "release_fetched"),
	)

	if f.cache != nil {
		if err := f.cache.Put(ctx, release); err != nil {
			logging.WarnWithContext(logger, "release cache write failed", "release_cache_write_failed",
				logging.String("release_id", release.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on paths.cache_dir"),
				logging.String(logging.FieldImpact, "next merge of this release will fetch again"),
			)
		}
	}
	return release, nil
}
