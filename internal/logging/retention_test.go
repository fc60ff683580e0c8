package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"platter/internal/logging"
)

func TestPruneLogsRemovesOnlyExpiredDayFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	old := filepath.Join(dir, "platter-2026-01-01.log")
	recent := filepath.Join(dir, "platter-2026-03-09.log")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, recent, unrelated} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := now.AddDate(0, 0, -60)
	for _, path := range []string{old, unrelated} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	fresh := now.Add(-time.Hour)
	if err := os.Chtimes(recent, fresh, fresh); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed := logging.PruneLogs(logging.NewNop(), dir, 30, now)
	if len(removed) != 1 || removed[0] != old {
		t.Fatalf("unexpected removals: %v", removed)
	}
	if _, err := os.Stat(recent); err != nil {
		t.Fatalf("recent log should remain: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("non-log file should remain: %v", err)
	}
}

func TestPruneLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platter-2000-01-01.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if removed := logging.PruneLogs(nil, dir, 0, time.Now()); len(removed) != 0 {
		t.Fatalf("expected no removals, got %v", removed)
	}
}
