package album

import (
	"os"
	"path/filepath"
	"strings"
)

// TrackState records where a track's identity metadata came from.
type TrackState string

const (
	// StatePlaceholder marks a scaffolded track awaiting fetched metadata.
	StatePlaceholder TrackState = "placeholder"
	// StateManual marks a track edited by hand. Merges never touch it.
	StateManual TrackState = "manual"
	// StateMerged marks a track filled from fetched release metadata.
	StateMerged TrackState = "merged"
)

// Valid reports whether s is a known state. The empty state is valid and
// reads as manual.
func (s TrackState) Valid() bool {
	switch s {
	case "", StatePlaceholder, StateManual, StateMerged:
		return true
	}
	return false
}

// Album is one album document: the metadata plus the ordered vinyl sides.
type Album struct {
	Title     string `yaml:"title"`
	Artist    string `yaml:"artist"`
	ReleaseID string `yaml:"release_id,omitempty"`
	Date      string `yaml:"date,omitempty"`
	// Cover is an image path, relative to the document directory when not absolute.
	Cover string `yaml:"cover,omitempty"`
	// Tags are album-level tags stamped on every track. They take precedence
	// over the configured defaults.
	Tags  map[string]string `yaml:"tags,omitempty"`
	Sides []Side            `yaml:"sides"`

	// Dir is the directory of the loaded document. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// Side is one physical vinyl side captured as a single audio file.
type Side struct {
	Index  int    `yaml:"index"`
	Source string `yaml:"source"`
	// Duration is the probed length of Source, zero until a build has probed it.
	Duration Offset  `yaml:"duration,omitempty"`
	Tracks   []Track `yaml:"tracks"`
}

// Track is one piece within a side.
type Track struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Artist string `yaml:"artist,omitempty"`
	Start  Offset `yaml:"start"`
	// End overrides the inferred end (next track start, or side end for the last track).
	End   *Offset           `yaml:"end,omitempty"`
	State TrackState        `yaml:"state,omitempty"`
	Tags  map[string]string `yaml:"tags,omitempty"`
}

// EffectiveState returns the track state, treating a missing state as manual.
func (t Track) EffectiveState() TrackState {
	if t.State == "" {
		return StateManual
	}
	return t.State
}

// TrackRef locates a track within an album.
type TrackRef struct {
	Side  int
	Index int
	Track *Track
}

// Tracks returns every track in document order, which is global track number
// order for a valid album. The references point into a.
func (a *Album) Tracks() []TrackRef {
	var refs []TrackRef
	for si := range a.Sides {
		side := &a.Sides[si]
		for ti := range side.Tracks {
			refs = append(refs, TrackRef{Side: side.Index, Index: ti, Track: &side.Tracks[ti]})
		}
	}
	return refs
}

// TrackCount returns the number of tracks across all sides.
func (a *Album) TrackCount() int {
	n := 0
	for _, side := range a.Sides {
		n += len(side.Tracks)
	}
	return n
}

// TrackArtist returns the track artist, falling back to the album artist.
func (a *Album) TrackArtist(t Track) string {
	if strings.TrimSpace(t.Artist) != "" {
		return t.Artist
	}
	return a.Artist
}

// ResolvePath expands ~ and makes p absolute relative to the document directory.
func (a *Album) ResolvePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) && a.Dir != "" {
		p = filepath.Join(a.Dir, p)
	}
	return filepath.Clean(p)
}

// Clone returns a deep copy of a.
func (a *Album) Clone() *Album {
	if a == nil {
		return nil
	}
	out := *a
	out.Tags = cloneMap(a.Tags)
	out.Sides = make([]Side, len(a.Sides))
	for i, side := range a.Sides {
		if side.Tracks != nil {
			side.Tracks = append(make([]Track, 0, len(side.Tracks)), side.Tracks...)
		}
		for j := range side.Tracks {
			t := &side.Tracks[j]
			if t.End != nil {
				end := *t.End
				t.End = &end
			}
			t.Tags = cloneMap(t.Tags)
		}
		out.Sides[i] = side
	}
	if a.Sides == nil {
		out.Sides = nil
	}
	return &out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
