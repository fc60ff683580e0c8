package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"platter/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	t.Setenv("PLATTER_MUSICBRAINZ_USER_AGENT", "")
	t.Setenv("PLATTER_MUSICBRAINZ_URL", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLibrary := filepath.Join(tempHome, "Music", "platter")
	if cfg.Paths.LibraryDir != wantLibrary {
		t.Fatalf("unexpected library dir: got %q want %q", cfg.Paths.LibraryDir, wantLibrary)
	}
	wantCache := filepath.Join(tempHome, ".cache", "platter")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.MusicBrainz.BaseURL != "https://musicbrainz.org/ws/2" {
		t.Fatalf("unexpected musicbrainz base url: %q", cfg.MusicBrainz.BaseURL)
	}
	if cfg.Audio.Format != "flac" {
		t.Fatalf("expected flac default format, got %q", cfg.Audio.Format)
	}
	if cfg.Audio.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Audio.Workers)
	}
	if cfg.Artwork.MaxSize != 1024 || !cfg.Artwork.Embed {
		t.Fatalf("unexpected artwork defaults: %+v", cfg.Artwork)
	}
	if cfg.Tags["media"] != "Vinyl" || cfg.Tags["source"] != "Vinyl (Lossless)" {
		t.Fatalf("unexpected default tags: %v", cfg.Tags)
	}
	if got := cfg.ReleaseCachePath(); got != filepath.Join(wantCache, "releases.db") {
		t.Fatalf("unexpected release cache path: %q", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("PLATTER_MUSICBRAINZ_USER_AGENT", "")
	t.Setenv("PLATTER_MUSICBRAINZ_URL", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "platter.toml")

	type payload struct {
		MusicBrainz struct {
			BaseURL      string `toml:"base_url"`
			CacheEnabled bool   `toml:"cache_enabled"`
		} `toml:"musicbrainz"`
		Audio struct {
			Format  string `toml:"format"`
			Workers int    `toml:"workers"`
		} `toml:"audio"`
		Paths struct {
			LibraryDir string `toml:"library_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.MusicBrainz.BaseURL = "https://mb.example.com/ws/2/"
	custom.Audio.Format = "MP3"
	custom.Audio.Workers = 2
	custom.Paths.LibraryDir = filepath.Join(tempDir, "lib")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.MusicBrainz.BaseURL != "https://mb.example.com/ws/2" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.MusicBrainz.BaseURL)
	}
	if cfg.Audio.Format != "mp3" {
		t.Fatalf("expected lowercased format, got %q", cfg.Audio.Format)
	}
	if cfg.Audio.Workers != 2 {
		t.Fatalf("expected 2 workers, got %d", cfg.Audio.Workers)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempDir, "lib") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.ReleaseCachePath() != "" {
		t.Fatalf("expected cache disabled, got %q", cfg.ReleaseCachePath())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "platter.toml")
	if err := os.WriteFile(configPath, []byte("[audio]\nformatt = \"flac\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvVarOverridesUserAgent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "platter.toml")
	content := "[musicbrainz]\nuser_agent = \"from-file\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLATTER_MUSICBRAINZ_USER_AGENT", "from-env/1.0 ( me@example.com )")
	t.Setenv("PLATTER_MUSICBRAINZ_URL", "")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MusicBrainz.UserAgent != "from-env/1.0 ( me@example.com )" {
		t.Fatalf("expected env user agent, got %q", cfg.MusicBrainz.UserAgent)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[musicbrainz]") {
		t.Fatalf("sample config missing musicbrainz section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.LibraryDir, "platter") {
		t.Fatalf("expected library dir to contain platter, got %q", cfg.Paths.LibraryDir)
	}
	if cfg.Tags["releasetype"] != "album" {
		t.Fatalf("expected sample tags, got %v", cfg.Tags)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unsupported format", func(c *config.Config) { c.Audio.Format = "wav" }},
		{"too many workers", func(c *config.Config) { c.Audio.Workers = 1000 }},
		{"relative base url", func(c *config.Config) { c.MusicBrainz.BaseURL = "musicbrainz.org" }},
		{"tiny artwork", func(c *config.Config) { c.Artwork.MaxSize = 10 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "chatty" }},
		{"timeout", func(c *config.Config) { c.MusicBrainz.TimeoutSeconds = 10000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "lib")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LibraryDir, cfg.Paths.WorkDir, cfg.Paths.LogDir, cfg.Paths.CacheDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
