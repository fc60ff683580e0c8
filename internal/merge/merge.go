package merge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"platter/internal/album"
	"platter/internal/services"
	"platter/internal/textutil"
)

// suspectSimilarity is the title similarity below which a kept track is
// flagged as a possibly misaligned pairing.
const suspectSimilarity = 0.2

// Options controls a merge.
type Options struct {
	// Refresh re-applies release data to tracks already in the merged state.
	Refresh bool
}

// MismatchError reports fetched metadata that cannot be paired with the album.
type MismatchError struct {
	ReleaseID string
	// Expected is the number of tracks the album declares.
	Expected int
	// Actual is the number of tracks in the release.
	Actual int
	Reason string
	Err    error
}

func (e *MismatchError) Error() string {
	if e == nil {
		return ""
	}
	release := e.ReleaseID
	if release == "" {
		release = "(unknown)"
	}
	if e.Reason != "" {
		msg := fmt.Sprintf("metadata mismatch: release %s: %s", release, e.Reason)
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		return msg
	}
	return fmt.Sprintf("metadata mismatch: release %s lists %d tracks but the album declares %d", release, e.Actual, e.Expected)
}

// Unwrap exposes the cause and the validation marker for errors.Is checks.
func (e *MismatchError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err != nil {
		return []error{e.Err, services.ErrValidation}
	}
	return []error{services.ErrValidation}
}

// Outcome describes what a merge did to one track.
type Outcome string

const (
	OutcomeFilled     Outcome = "filled"
	OutcomeRefreshed  Outcome = "refreshed"
	OutcomeKeptManual Outcome = "kept-manual"
	OutcomeKeptMerged Outcome = "kept-merged"
)

// TrackResult is the per-track entry of a Report.
type TrackResult struct {
	Side         int
	Number       int
	Title        string
	ReleaseTitle string
	Outcome      Outcome
	// Suspect is set when a kept title shares almost nothing with the
	// release title at the same position.
	Suspect bool
}

// Report summarizes a merge.
type Report struct {
	ReleaseID string
	Tracks    []TrackResult
	// AlbumFields lists album-level fields and tags that were filled.
	AlbumFields []string
}

// Count returns the number of tracks with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, t := range r.Tracks {
		if t.Outcome == o {
			n++
		}
	}
	return n
}

// Changed reports whether the merge altered the album.
func (r Report) Changed() bool {
	return len(r.AlbumFields) > 0 || r.Count(OutcomeFilled) > 0 || r.Count(OutcomeRefreshed) > 0
}

// Merge pairs the album tracks, in global number order, positionally with
// the release tracks and returns a new album. Placeholder tracks take the
// release title, artist and number and become merged. Merged tracks are
// re-applied only with Options.Refresh. Manual tracks are never changed.
// Empty album-level fields and missing credit tags are filled. Sides and
// offsets are never altered. The input album is never modified, so on error
// the caller still holds it exactly as it was.
func Merge(a *album.Album, release album.Release, opts Options) (*album.Album, Report, error) {
	report := Report{ReleaseID: release.ID}
	if a == nil {
		return nil, report, errors.New("merge: nil album")
	}

	out := a.Clone()
	refs := out.Tracks()
	if len(refs) != len(release.Tracks) {
		return nil, report, &MismatchError{ReleaseID: release.ID, Expected: len(refs), Actual: len(release.Tracks)}
	}

	report.AlbumFields = fillAlbum(out, release)

	for i, ref := range refs {
		rt := release.Tracks[i]
		track := ref.Track
		result := TrackResult{Side: ref.Side, ReleaseTitle: rt.Title}

		switch state := track.EffectiveState(); {
		case state == album.StatePlaceholder:
			apply(out, track, rt)
			result.Outcome = OutcomeFilled
		case state == album.StateMerged && opts.Refresh:
			apply(out, track, rt)
			result.Outcome = OutcomeRefreshed
		case state == album.StateMerged:
			result.Outcome = OutcomeKeptMerged
			result.Suspect = suspect(track.Title, rt.Title)
		default:
			result.Outcome = OutcomeKeptManual
			result.Suspect = suspect(track.Title, rt.Title)
		}
		result.Number = track.Number
		result.Title = track.Title
		report.Tracks = append(report.Tracks, result)
	}

	if err := album.Validate(out); err != nil {
		return nil, Report{ReleaseID: release.ID}, &MismatchError{
			ReleaseID: release.ID,
			Expected:  len(refs),
			Actual:    len(release.Tracks),
			Reason:    "merged track numbering is inconsistent with the album",
			Err:       err,
		}
	}
	return out, report, nil
}

func apply(a *album.Album, track *album.Track, rt album.ReleaseTrack) {
	track.Title = rt.Title
	if rt.Artist != "" && rt.Artist != a.Artist {
		track.Artist = rt.Artist
	} else {
		track.Artist = ""
	}
	if rt.Number > 0 {
		track.Number = rt.Number
	}
	track.State = album.StateMerged
}

func fillAlbum(a *album.Album, release album.Release) []string {
	var filled []string
	fill := func(name string, dst *string, value string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(value) != "" {
			*dst = value
			filled = append(filled, name)
		}
	}
	fill("title", &a.Title, release.Title)
	fill("artist", &a.Artist, release.Artist)
	fill("release_id", &a.ReleaseID, release.ID)
	fill("date", &a.Date, release.Date)

	credits := release.Credits.Tags()
	keys := make([]string, 0, len(credits))
	for key := range credits {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := a.Tags[key]; ok {
			continue
		}
		if a.Tags == nil {
			a.Tags = map[string]string{}
		}
		a.Tags[key] = credits[key]
		filled = append(filled, "tags."+key)
	}
	return filled
}

func suspect(kept, fetched string) bool {
	if strings.TrimSpace(kept) == "" || strings.TrimSpace(fetched) == "" {
		return false
	}
	return textutil.Similarity(kept, fetched) < suspectSimilarity
}
