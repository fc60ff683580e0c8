package builder

import (
	"strconv"
	"strings"

	"platter/internal/album"
	"platter/internal/tagging"
)

// Extra tag keys that feed the disc fields instead of being written verbatim.
const (
	tagDiscNumber = "discnumber"
	tagDiscTotal  = "disctotal"
)

// trackTags resolves the tag set for one track. Extra tags layer the
// configured defaults, then album tags, then track tags; later layers win.
func trackTags(a *album.Album, t album.Track, total int, defaults map[string]string) tagging.Tags {
	extra := map[string]string{}
	for _, layer := range []map[string]string{defaults, a.Tags, t.Tags} {
		for key, value := range layer {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if strings.TrimSpace(value) == "" {
				delete(extra, key)
				continue
			}
			extra[key] = value
		}
	}

	disc, discTotal := 1, 1
	if n, err := strconv.Atoi(strings.TrimSpace(extra[tagDiscNumber])); err == nil && n > 0 {
		disc = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(extra[tagDiscTotal])); err == nil && n > 0 {
		discTotal = n
	}
	delete(extra, tagDiscNumber)
	delete(extra, tagDiscTotal)
	if len(extra) == 0 {
		extra = nil
	}

	return tagging.Tags{
		Title:       t.Title,
		Artist:      a.TrackArtist(t),
		Album:       a.Title,
		AlbumArtist: a.Artist,
		TrackNumber: t.Number,
		TrackTotal:  total,
		DiscNumber:  disc,
		DiscTotal:   max(discTotal, disc),
		Date:        a.Date,
		Extra:       extra,
	}
}
