package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"platter/internal/album"
	"platter/internal/services"
)

var (
	// ErrNotFound marks an unknown release.
	ErrNotFound = services.ErrNotFound
	// ErrNetwork marks transport failures and server errors.
	ErrNetwork = services.ErrNetwork
)

// Fetcher resolves a release identifier to canonical release metadata.
type Fetcher interface {
	Fetch(ctx context.Context, releaseID string) (album.Release, error)
}

// Client talks to the MusicBrainz web service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a MusicBrainz client. MusicBrainz rejects anonymous clients, so
// a user agent is required.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NormalizeReleaseID accepts a bare release MBID or a MusicBrainz release URL
// and returns the canonical lowercase MBID.
func NormalizeReleaseID(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("release id must not be empty")
	}
	if strings.Contains(value, "/") {
		if parsed, err := url.Parse(value); err == nil {
			segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			for i := 0; i+1 < len(segments); i++ {
				if segments[i] == "release" {
					value = segments[i+1]
					break
				}
			}
		}
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("release id %q is not a MusicBrainz id: %w", value, err)
	}
	return id.String(), nil
}

// Fetch looks up a release with its recordings and artist credits.
func (c *Client) Fetch(ctx context.Context, releaseID string) (album.Release, error) {
	id, err := NormalizeReleaseID(releaseID)
	if err != nil {
		return album.Release{}, services.Wrap(services.ErrValidation, "musicbrainz", "fetch release", "", err)
	}
	payload, err := c.lookupRelease(ctx, id)
	if err != nil {
		return album.Release{}, err
	}
	return ToRelease(payload), nil
}

func (c *Client) lookupRelease(ctx context.Context, id string) (*ReleaseResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/release/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params := url.Values{}
	params.Set("inc", "recordings+artist-credits")
	params.Set("fmt", "json")
	// MusicBrainz expects the literal '+' separator in inc.
	endpoint.RawQuery = strings.ReplaceAll(params.Encode(), "%2B", "+")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(ErrNetwork, "musicbrainz", "fetch release", fmt.Sprintf("latency=%v", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(ErrNotFound, "musicbrainz", "fetch release", fmt.Sprintf("release %s not found", id), nil)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, services.Wrap(ErrNotFound, "musicbrainz", "fetch release", fmt.Sprintf("release %s rejected as invalid", id), nil)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(ErrNetwork, "musicbrainz", "fetch release", fmt.Sprintf("status %d (latency=%v)", resp.StatusCode, latency), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("musicbrainz release lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload ReleaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(ErrNetwork, "musicbrainz", "decode release", "", err)
	}
	return &payload, nil
}
