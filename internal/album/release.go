package album

import "strings"

// Release is canonical release metadata fetched from a metadata service. It
// is consumed by a merge and never persisted.
type Release struct {
	ID     string
	Title  string
	Artist string
	Date   string
	// Tracks are in canonical release order with global numbering.
	Tracks  []ReleaseTrack
	Credits Credits
}

// ReleaseTrack is one entry of a release track list.
type ReleaseTrack struct {
	Number int
	Title  string
	Artist string
	// Medium is the 1-based medium position of the track.
	Medium   int
	LengthMs int64
}

// Credits holds performer and creator roles that map onto album tags.
type Credits struct {
	Composers  []string
	Conductors []string
	Orchestras []string
	Choirs     []string
}

// Tags renders non-empty credit roles as album tag values.
func (c Credits) Tags() map[string]string {
	tags := map[string]string{}
	add := func(key string, names []string) {
		if len(names) > 0 {
			tags[key] = strings.Join(names, "; ")
		}
	}
	add("composer", c.Composers)
	add("conductor", c.Conductors)
	add("orchestra", c.Orchestras)
	add("choir", c.Choirs)
	return tags
}
