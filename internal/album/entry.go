package album

import (
	"strconv"
	"strings"

	"platter/internal/textutil"
)

// AddDefaultEntry returns a copy of a with a new side for sourcePath holding
// a single placeholder track that starts at zero and is numbered after the
// last existing track. The title is derived from the file name until a merge
// or a manual edit replaces it. Registering a source twice is a ConfigError.
func AddDefaultEntry(a *Album, sourcePath string) (*Album, error) {
	source := strings.TrimSpace(sourcePath)
	if source == "" {
		return nil, &ConfigError{Reason: "empty source path"}
	}
	out := a.Clone()
	if out == nil {
		out = &Album{}
	}

	key := out.sourceKey(source)
	for _, side := range out.Sides {
		if out.sourceKey(side.Source) == key {
			return nil, configErr(side.Index, 0, "source %q is already registered", source)
		}
	}

	next := 1
	for _, ref := range out.Tracks() {
		if ref.Track.Number >= next {
			next = ref.Track.Number + 1
		}
	}
	index := len(out.Sides) + 1
	title := textutil.TitleFromFileName(source)
	if title == "" {
		title = "Side " + strconv.Itoa(index)
	}
	out.Sides = append(out.Sides, Side{
		Index:  index,
		Source: source,
		Tracks: []Track{{
			Number: next,
			Title:  title,
			Start:  0,
			State:  StatePlaceholder,
		}},
	})
	return out, nil
}
