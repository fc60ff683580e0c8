// Package logging assembles structured slog loggers and formatting helpers used
// across platter commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so builder code can tag log lines
// with side indexes, track numbers, and the per-invocation correlation id. The
// package also provides a no-op logger for tests and wiring code that cannot fail.
package logging
