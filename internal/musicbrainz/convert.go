package musicbrainz

import (
	"sort"
	"strings"

	"platter/internal/album"
)

// ToRelease converts a lookup payload into release metadata. Tracks are
// numbered globally in medium then track order.
func ToRelease(payload *ReleaseResponse) album.Release {
	if payload == nil {
		return album.Release{}
	}
	release := album.Release{
		ID:      payload.ID,
		Title:   payload.Title,
		Artist:  CreditString(payload.ArtistCredit),
		Date:    payload.Date,
		Credits: ExtractCredits(payload.ArtistCredit),
	}

	media := append([]Medium(nil), payload.Media...)
	sort.SliceStable(media, func(i, j int) bool { return media[i].Position < media[j].Position })

	number := 0
	for mi, medium := range media {
		tracks := append([]Track(nil), medium.Tracks...)
		sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Position < tracks[j].Position })
		position := medium.Position
		if position <= 0 {
			position = mi + 1
		}
		for _, track := range tracks {
			number++
			title := track.Title
			if title == "" {
				title = track.Recording.Title
			}
			length := track.Length
			if length == 0 {
				length = track.Recording.Length
			}
			release.Tracks = append(release.Tracks, album.ReleaseTrack{
				Number:   number,
				Title:    title,
				Artist:   trackArtist(track, release.Artist),
				Medium:   position,
				LengthMs: length,
			})
		}
	}
	return release
}

func trackArtist(track Track, fallback string) string {
	if artist := CreditString(track.ArtistCredit); artist != "" {
		return artist
	}
	if artist := CreditString(track.Recording.ArtistCredit); artist != "" {
		return artist
	}
	return fallback
}

// CreditString joins credited names with their join phrases.
func CreditString(credits []ArtistCredit) string {
	var b strings.Builder
	for _, credit := range credits {
		name := credit.Name
		if name == "" {
			name = credit.Artist.Name
		}
		b.WriteString(name)
		b.WriteString(credit.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}

// ExtractCredits sorts release artists into roles: persons disambiguated as
// composers or conductors, orchestras and choirs.
func ExtractCredits(credits []ArtistCredit) album.Credits {
	var out album.Credits
	for _, credit := range credits {
		artist := credit.Artist
		name := artist.Name
		if name == "" {
			name = credit.Name
		}
		disambiguation := strings.ToLower(artist.Disambiguation)
		switch strings.ToLower(artist.Type) {
		case "person":
			if strings.Contains(disambiguation, "composer") {
				out.Composers = append(out.Composers, name)
			}
			if strings.Contains(disambiguation, "conductor") {
				out.Conductors = append(out.Conductors, name)
			}
		case "orchestra":
			out.Orchestras = append(out.Orchestras, name)
		case "choir":
			out.Choirs = append(out.Choirs, name)
		}
	}
	return out
}
