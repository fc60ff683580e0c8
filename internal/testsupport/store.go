package testsupport

import (
	"path/filepath"
	"testing"

	"platter/internal/config"
	"platter/internal/releasecache"
)

// MustOpenReleaseCache opens the release cache configured in cfg and
// registers cleanup.
func MustOpenReleaseCache(t testing.TB, cfg *config.Config) *releasecache.Store {
	t.Helper()

	path := cfg.ReleaseCachePath()
	if path == "" {
		path = filepath.Join(cfg.Paths.CacheDir, "releases.db")
	}
	store, err := releasecache.Open(path)
	if err != nil {
		t.Fatalf("releasecache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
