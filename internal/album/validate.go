package album

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"platter/internal/textutil"
)

// Validate checks the structural invariants of a: at least one side, side
// indexes 1..n in order, unique sources, strictly increasing global track
// numbers, strictly increasing starts within a side and explicit ends that
// agree with the following track. It returns a *ConfigError naming the
// offending side and track.
func Validate(a *Album) error {
	if a == nil {
		return &ConfigError{Reason: "no album"}
	}
	if len(a.Sides) == 0 {
		return &ConfigError{Reason: "album has no sides"}
	}

	sources := make(map[string]int, len(a.Sides))
	lastNumber := 0
	for si, side := range a.Sides {
		if side.Index != si+1 {
			return configErr(side.Index, 0, "side index %d out of sequence, expected %d", side.Index, si+1)
		}
		source := strings.TrimSpace(side.Source)
		if source == "" {
			return configErr(side.Index, 0, "side has no source audio")
		}
		key := a.sourceKey(source)
		if prev, ok := sources[key]; ok {
			return configErr(side.Index, 0, "source %q already used by side %d", source, prev)
		}
		sources[key] = side.Index
		if side.Duration < 0 {
			return configErr(side.Index, 0, "negative duration %s", side.Duration)
		}
		if len(side.Tracks) == 0 {
			return configErr(side.Index, 0, "side has no tracks")
		}

		for ti, track := range side.Tracks {
			if track.Number <= 0 {
				return configErr(side.Index, track.Number, "track number must be positive")
			}
			if track.Number == lastNumber {
				return configErr(side.Index, track.Number, "duplicate track number %d", track.Number)
			}
			if track.Number < lastNumber {
				return configErr(side.Index, track.Number, "track number %d does not follow %d", track.Number, lastNumber)
			}
			lastNumber = track.Number

			if !track.State.Valid() {
				return configErr(side.Index, track.Number, "unknown state %q", track.State)
			}
			if track.Start < 0 {
				return configErr(side.Index, track.Number, "negative start %s", track.Start)
			}
			if ti > 0 && track.Start <= side.Tracks[ti-1].Start {
				return configErr(side.Index, track.Number, "start %s is not after previous start %s", track.Start, side.Tracks[ti-1].Start)
			}
			if track.End != nil {
				if *track.End <= track.Start {
					return configErr(side.Index, track.Number, "end %s is not after start %s", *track.End, track.Start)
				}
				if ti+1 < len(side.Tracks) && *track.End != side.Tracks[ti+1].Start {
					return configErr(side.Index, track.Number, "end %s disagrees with next start %s", *track.End, side.Tracks[ti+1].Start)
				}
				if ti+1 == len(side.Tracks) && side.Duration > 0 && *track.End > side.Duration {
					return configErr(side.Index, track.Number, "end %s is past side duration %s", *track.End, side.Duration)
				}
			}
		}
	}
	return nil
}

// ValidateForBuild applies Validate plus the checks needed to name output
// files: an album title and a title on every track, each of which must
// still name something once unsafe filename characters are removed.
func ValidateForBuild(a *Album) error {
	if err := Validate(a); err != nil {
		return err
	}
	if strings.TrimSpace(a.Title) == "" {
		return &ConfigError{Reason: "album has no title; run merge or set title"}
	}
	if textutil.SanitizeFileName(a.Title) == "" {
		return &ConfigError{Reason: fmt.Sprintf("album title %q leaves no usable directory name", a.Title)}
	}
	for _, ref := range a.Tracks() {
		if strings.TrimSpace(ref.Track.Title) == "" {
			return configErr(ref.Side, ref.Track.Number, "track has no title")
		}
		if textutil.SanitizeFileName(ref.Track.Title) == "" {
			return configErr(ref.Side, ref.Track.Number, "title %q leaves no usable file name", ref.Track.Title)
		}
	}
	return nil
}

func (a *Album) sourceKey(source string) string {
	resolved := a.ResolvePath(source)
	if resolved == "" {
		return filepath.Clean(source)
	}
	return resolved
}

// withPath stamps the document path onto a ConfigError.
func withPath(err error, path string) error {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Path == "" {
		cfgErr.Path = path
	}
	return err
}
