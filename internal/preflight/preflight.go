package preflight

import (
	"context"

	"platter/internal/config"
)

// Group says which part of the setup a check covers.
type Group string

const (
	GroupTools       Group = "tools"
	GroupDirectories Group = "directories"
	GroupNetwork     Group = "network"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Group  Group
	Passed bool
	Detail string
}

// Options selects the optional checks.
type Options struct {
	// Online also checks that the MusicBrainz service answers.
	Online bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		r := Result{Name: status.Name, Group: GroupTools, Passed: status.Available || status.Optional, Detail: status.Detail}
		if status.Available {
			r.Detail = status.Path
			if status.Version != "" {
				r.Detail = status.Version
			}
		}
		results = append(results, r)
	}

	dirs := []Result{
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
	}
	if cfg.MusicBrainz.CacheEnabled {
		dirs = append(dirs, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}
	if cfg.Paths.LogDir != "" {
		dirs = append(dirs, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	for _, r := range dirs {
		r.Group = GroupDirectories
		results = append(results, r)
	}

	if opts.Online {
		r := CheckMusicBrainz(ctx, cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent)
		r.Group = GroupNetwork
		results = append(results, r)
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
