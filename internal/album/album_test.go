package album_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"platter/internal/album"
	"platter/internal/services"
)

const sampleDocument = `title: Mass in B Minor
artist: The Sixteen
release_id: 5e2a6f3c-0000-4000-8000-000000000001
tags:
  media: Vinyl
sides:
  - index: 1
    source: side1.flac
    duration: "9:00.000"
    tracks:
      - number: 1
        title: Kyrie
        start: "0:00.000"
        state: merged
      - number: 2
        title: Christe
        artist: Catherine Dubosc
        start: 180000
      - number: 3
        title: Gloria
        start: "6:00.000"
        end: "9:00.000"
  - index: 2
    source: side2.flac
    tracks:
      - number: 4
        title: Credo
        start: 0
        state: placeholder
`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "album.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestLoadParsesDocument(t *testing.T) {
	path := writeDocument(t, sampleDocument)
	a, err := album.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if a.Title != "Mass in B Minor" || a.Artist != "The Sixteen" {
		t.Fatalf("unexpected album identity: %q / %q", a.Title, a.Artist)
	}
	if len(a.Sides) != 2 || a.TrackCount() != 4 {
		t.Fatalf("expected 2 sides and 4 tracks, got %d sides %d tracks", len(a.Sides), a.TrackCount())
	}
	side1 := a.Sides[0]
	if side1.Duration != 540000 {
		t.Fatalf("expected side duration 540000ms, got %d", side1.Duration)
	}
	if side1.Tracks[1].Start != 180000 {
		t.Fatalf("expected bare integer start in ms, got %d", side1.Tracks[1].Start)
	}
	if side1.Tracks[2].End == nil || *side1.Tracks[2].End != 540000 {
		t.Fatalf("expected explicit end 540000, got %v", side1.Tracks[2].End)
	}
	if got := side1.Tracks[1].EffectiveState(); got != album.StateManual {
		t.Fatalf("missing state should read as manual, got %q", got)
	}
	if got := a.TrackArtist(side1.Tracks[0]); got != "The Sixteen" {
		t.Fatalf("expected album artist fallback, got %q", got)
	}
	if got := a.TrackArtist(side1.Tracks[1]); got != "Catherine Dubosc" {
		t.Fatalf("expected artist override, got %q", got)
	}
	if a.Dir != filepath.Dir(path) {
		t.Fatalf("expected document dir %q, got %q", filepath.Dir(path), a.Dir)
	}
	if got := a.ResolvePath(side1.Source); got != filepath.Join(a.Dir, "side1.flac") {
		t.Fatalf("unexpected resolved source: %q", got)
	}
}

func TestSaveLoadSaveIsByteIdentical(t *testing.T) {
	path := writeDocument(t, sampleDocument)
	a, err := album.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := album.Save(a, path); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read first save: %v", err)
	}

	reloaded, err := album.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(a, reloaded) {
		t.Fatalf("load(save(a)) differs:\n got %+v\nwant %+v", reloaded, a)
	}
	if err := album.Save(reloaded, path); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read second save: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("saves differ:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(string(first), `start: "3:00.000"`) {
		t.Fatalf("expected clock-form offsets in saved document:\n%s", first)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestLoadRejectsInconsistentDocuments(t *testing.T) {
	tests := []struct {
		name     string
		document string
		side     int
		track    int
		contains string
	}{
		{
			name:     "no sides",
			document: "title: X\nartist: Y\nsides: []\n",
			contains: "no sides",
		},
		{
			name: "duplicate track number",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 0}
      - {number: 1, title: B, start: 1000}
`,
			side:     1,
			track:    1,
			contains: "duplicate track number",
		},
		{
			name: "non-increasing offsets",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 5000}
      - {number: 2, title: B, start: 5000}
`,
			side:     1,
			track:    2,
			contains: "not after previous start",
		},
		{
			name: "side out of sequence",
			document: `title: X
artist: Y
sides:
  - index: 2
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 0}
`,
			side:     2,
			contains: "out of sequence",
		},
		{
			name: "end disagrees with next start",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 0, end: "1:00.000"}
      - {number: 2, title: B, start: "1:30.000"}
`,
			side:     1,
			track:    1,
			contains: "disagrees",
		},
		{
			name: "duplicate source",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 0}
  - index: 2
    source: ./a.flac
    tracks:
      - {number: 2, title: B, start: 0}
`,
			side:     2,
			contains: "already used",
		},
		{
			name:     "malformed yaml",
			document: "title: [unclosed\n",
			contains: "malformed",
		},
		{
			name:     "unknown field",
			document: "title: X\nartist: Y\ncolour: red\nsides: []\n",
			contains: "malformed",
		},
		{
			name: "bad offset",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: "1:75.000"}
`,
			contains: "below 60",
		},
		{
			name: "unknown state",
			document: `title: X
artist: Y
sides:
  - index: 1
    source: a.flac
    tracks:
      - {number: 1, title: A, start: 0, state: fetched}
`,
			side:     1,
			track:    1,
			contains: "unknown state",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDocument(t, tt.document)
			_, err := album.Load(path)
			var cfgErr *album.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Path != path {
				t.Fatalf("expected error to name %q, got %q", path, cfgErr.Path)
			}
			if cfgErr.Side != tt.side || cfgErr.Track != tt.track {
				t.Fatalf("expected side %d track %d, got side %d track %d", tt.side, tt.track, cfgErr.Side, cfgErr.Track)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("expected %q in %q", tt.contains, err.Error())
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatal("expected ConfigError to carry the validation marker")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := album.Load(filepath.Join(t.TempDir(), "missing.yml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestAddDefaultEntry(t *testing.T) {
	start := album.New(filepath.Join(t.TempDir(), "album.yml"))

	first, err := album.AddDefaultEntry(start, "captures/side_a.flac")
	if err != nil {
		t.Fatalf("AddDefaultEntry: %v", err)
	}
	if len(start.Sides) != 0 {
		t.Fatal("input album must not be modified")
	}
	second, err := album.AddDefaultEntry(first, "captures/side_b.flac")
	if err != nil {
		t.Fatalf("AddDefaultEntry: %v", err)
	}
	if len(second.Sides) != 2 {
		t.Fatalf("expected 2 sides, got %d", len(second.Sides))
	}
	track := second.Sides[1].Tracks[0]
	if second.Sides[1].Index != 2 || track.Number != 2 || track.Start != 0 {
		t.Fatalf("unexpected new side: %+v", second.Sides[1])
	}
	if track.State != album.StatePlaceholder {
		t.Fatalf("expected placeholder state, got %q", track.State)
	}
	if track.Title != "Side B" {
		t.Fatalf("expected title from file name, got %q", track.Title)
	}
	if err := album.Validate(second); err != nil {
		t.Fatalf("scaffolded album should validate: %v", err)
	}

	_, err = album.AddDefaultEntry(second, "captures/side_a.flac")
	var cfgErr *album.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for duplicate source, got %v", err)
	}
	if cfgErr.Side != 1 {
		t.Fatalf("expected duplicate to name side 1, got %d", cfgErr.Side)
	}
}

func TestAddDefaultEntryNumbersAfterLastTrack(t *testing.T) {
	a, err := album.Load(writeDocument(t, sampleDocument))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := album.AddDefaultEntry(a, "side3.flac")
	if err != nil {
		t.Fatalf("AddDefaultEntry: %v", err)
	}
	if got := out.Sides[2].Tracks[0].Number; got != 5 {
		t.Fatalf("expected track number 5, got %d", got)
	}
}

func TestValidateForBuildRequiresTitles(t *testing.T) {
	a, err := album.AddDefaultEntry(album.New("album.yml"), "side1.flac")
	if err != nil {
		t.Fatalf("AddDefaultEntry: %v", err)
	}
	if err := album.ValidateForBuild(a); err == nil {
		t.Fatal("expected error for missing album title")
	}
	a.Title = "???"
	if err := album.ValidateForBuild(a); err == nil {
		t.Fatal("expected error for a title with no usable directory name")
	}
	a.Title = "Album"
	if err := album.ValidateForBuild(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	a, err := album.Load(writeDocument(t, sampleDocument))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := a.Clone()
	c.Sides[0].Tracks[0].Title = "changed"
	*c.Sides[0].Tracks[2].End = 1
	c.Tags["media"] = "CD"
	if a.Sides[0].Tracks[0].Title != "Kyrie" || *a.Sides[0].Tracks[2].End != 540000 || a.Tags["media"] != "Vinyl" {
		t.Fatal("Clone shares state with the original")
	}
}
