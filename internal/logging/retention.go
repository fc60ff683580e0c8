package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const logFilePattern = "platter-*.log"

// PruneLogs removes day log files in dir whose modification time is older
// than retentionDays. The file for today is always kept. A retentionDays
// value of 0 disables pruning. It returns the paths removed.
func PruneLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) []string {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	cutoff := now.AddDate(0, 0, -retentionDays)
	current := filepath.Join(dir, LogFileName(now))
	var removed []string
	for _, path := range matches {
		if path == current {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log prune failed; file remains", "log_prune_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on paths.log_dir"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed = append(removed, path)
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
