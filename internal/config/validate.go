package config

import (
	"errors"
	"fmt"
	"net/url"
)

// SupportedFormats lists the library output formats platter can slice and tag.
var SupportedFormats = []string{"flac", "mp3", "opus", "ogg"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateArtwork(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMusicBrainz() error {
	parsed, err := url.Parse(c.MusicBrainz.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("musicbrainz.base_url must be an absolute URL, got %q", c.MusicBrainz.BaseURL)
	}
	if c.MusicBrainz.TimeoutSeconds > maxMusicBrainzTimeoutSeconds {
		return fmt.Errorf("musicbrainz.timeout_seconds must be at most %d", maxMusicBrainzTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if !isSupportedFormat(c.Audio.Format) {
		return fmt.Errorf("audio.format must be one of %v, got %q", SupportedFormats, c.Audio.Format)
	}
	if c.Audio.Workers > maxAudioWorkers {
		return fmt.Errorf("audio.workers must be at most %d", maxAudioWorkers)
	}
	return nil
}

func (c *Config) validateArtwork() error {
	if c.Artwork.MaxSize != 0 && c.Artwork.MaxSize < minArtworkSize {
		return fmt.Errorf("artwork.max_size must be 0 (no resize) or at least %d", minArtworkSize)
	}
	if c.Artwork.MaxSize < 0 {
		return errors.New("artwork.max_size must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}

func isSupportedFormat(format string) bool {
	for _, candidate := range SupportedFormats {
		if candidate == format {
			return true
		}
	}
	return false
}
