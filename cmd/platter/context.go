package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"platter/internal/audio"
	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/musicbrainz"
	"platter/internal/releasecache"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	runID      string

	cache *releasecache.Store
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor returns the run logger with the fields carried by the command
// context (run id, stage). The first call also prunes expired log files.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
		logging.PruneLogs(logging.WithContext(cmd.Context(), logger), cfg.Paths.LogDir, cfg.Logging.RetentionDays, time.Now())
	})
	return logging.WithContext(cmd.Context(), logging.NewComponentLogger(c.logger, "cli")).
		With(logging.String("command", cmd.CommandPath()))
}

// runLogger is the run logger without context fields, for packages that add
// them from the context they are handed.
func (c *commandContext) runLogger(cmd *cobra.Command) *slog.Logger {
	c.loggerFor(cmd)
	return c.logger
}

func (c *commandContext) newFFmpeg(logger *slog.Logger) (*audio.FFmpeg, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return audio.NewFFmpeg(audio.Options{
		FFmpegBinary:  cfg.Audio.FFmpegBinary,
		FFprobeBinary: cfg.Audio.FFprobeBinary,
		Format:        cfg.Audio.Format,
		BitrateKbps:   cfg.Audio.BitrateKbps,
		SliceCommand:  cfg.Audio.SliceCommand,
		Logger:        logger,
	})
}

// releaseCache opens the sqlite release cache, or returns nil when caching
// is disabled.
func (c *commandContext) releaseCache() (*releasecache.Store, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.ReleaseCachePath()
	if path == "" {
		return nil, nil
	}
	store, err := releasecache.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open release cache: %w", err)
	}
	c.cache = store
	return store, nil
}

// newFetcher builds the MusicBrainz client wrapped with the release cache.
// With noCache set, cached entries are ignored and overwritten.
func (c *commandContext) newFetcher(cmd *cobra.Command, noCache bool) (musicbrainz.Fetcher, error) {
	logger := c.loggerFor(cmd)
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent,
		musicbrainz.WithTimeout(time.Duration(cfg.MusicBrainz.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}
	store, err := c.releaseCache()
	if err != nil {
		logging.WarnWithContext(logger, "release cache unavailable", "release_cache_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "releases are fetched without caching"),
			logging.String(logging.FieldErrorHint, "run 'platter cache clear' or check cache_dir permissions"),
		)
		store = nil
	}
	var cache musicbrainz.Cache
	if store != nil {
		cache = store
	}
	fetcher := musicbrainz.NewCachedFetcher(client, cache, c.runLogger(cmd))
	fetcher.BypassCache = noCache
	return fetcher, nil
}

func (c *commandContext) close() {
	if c.cache != nil {
		_ = c.cache.Close()
		c.cache = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
