package tagging

import (
	"fmt"

	"go.senan.xyz/taglib"
)

func writeTaglib(path string, t Tags) error {
	props := map[string][]string{}
	for _, f := range t.Fields() {
		props[f.Key] = []string{f.Value}
	}
	// TagLib expects "n/total" in the track and disc properties for MP4 atoms.
	if v := position(t.TrackNumber, t.TrackTotal); v != "" {
		props[taglib.TrackNumber] = []string{v}
	}
	if v := position(t.DiscNumber, t.DiscTotal); v != "" {
		props[taglib.DiscNumber] = []string{v}
	}
	if err := taglib.WriteTags(path, props, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
