package musicbrainz

// ArtistCredit is one entry of a MusicBrainz artist credit list.
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     Artist `json:"artist"`
}

// Artist is the artist referenced by a credit.
type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Type           string `json:"type"`
	Disambiguation string `json:"disambiguation"`
}

// Recording is the recording behind a track.
type Recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int64          `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}

// Track is one track of a medium.
type Track struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	Position     int            `json:"position"`
	Title        string         `json:"title"`
	Length       int64          `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Recording    Recording      `json:"recording"`
}

// Medium is one disc, side pair or other physical carrier of a release.
type Medium struct {
	Position   int     `json:"position"`
	Format     string  `json:"format"`
	Title      string  `json:"title"`
	TrackCount int     `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

// ReleaseResponse models the release lookup payload.
type ReleaseResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Media        []Medium       `json:"media"`
}
