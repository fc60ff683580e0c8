// Package musicbrainz fetches canonical release metadata from the
// MusicBrainz web service.
//
// Client performs the release lookup and converts the payload into an
// album.Release: tracks numbered globally across media, artists joined from
// their credits, and credit roles (composer, conductor, orchestra, choir)
// sorted out of the release artist credit. CachedFetcher layers a release
// cache over any Fetcher.
package musicbrainz
