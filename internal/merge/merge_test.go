package merge_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"platter/internal/album"
	"platter/internal/merge"
)

func fourTrackAlbum() *album.Album {
	return &album.Album{
		Sides: []album.Side{
			{
				Index:  1,
				Source: "side1.flac",
				Tracks: []album.Track{
					{Number: 1, Title: "Side 1", Start: 0, State: album.StatePlaceholder},
					{Number: 2, Title: "My Own Title", Start: 180000},
					{Number: 3, Title: "Side 1 Part 3", Start: 360000, State: album.StatePlaceholder},
				},
			},
			{
				Index:  2,
				Source: "side2.flac",
				Tracks: []album.Track{
					{Number: 4, Title: "Side 2", Start: 0, State: album.StatePlaceholder},
				},
			},
		},
	}
}

func release(n int) album.Release {
	titles := []string{"Kyrie eleison", "Christe eleison", "Kyrie eleison II", "Gloria in excelsis"}
	r := album.Release{
		ID:     "rel-1",
		Title:  "Mass in B Minor",
		Artist: "Johann Sebastian Bach",
		Date:   "1994-04-01",
		Credits: album.Credits{
			Conductors: []string{"Harry Christophers"},
			Choirs:     []string{"The Sixteen"},
		},
	}
	for i := 0; i < n; i++ {
		r.Tracks = append(r.Tracks, album.ReleaseTrack{Number: i + 1, Title: titles[i], Artist: "Johann Sebastian Bach"})
	}
	r.Tracks[n-1].Artist = "Catherine Dubosc"
	return r
}

func TestMergeFillsPlaceholdersAndKeepsManual(t *testing.T) {
	in := fourTrackAlbum()
	out, report, err := merge.Merge(in, release(4), merge.Options{})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	if out.Title != "Mass in B Minor" || out.Artist != "Johann Sebastian Bach" || out.ReleaseID != "rel-1" || out.Date != "1994-04-01" {
		t.Fatalf("album-level gaps not filled: %+v", out)
	}
	if out.Tags["conductor"] != "Harry Christophers" || out.Tags["choir"] != "The Sixteen" {
		t.Fatalf("credit tags not filled: %v", out.Tags)
	}

	tracks := out.Tracks()
	if got := tracks[0].Track; got.Title != "Kyrie eleison" || got.State != album.StateMerged || got.Artist != "" {
		t.Fatalf("placeholder not filled: %+v", got)
	}
	if got := tracks[1].Track; got.Title != "My Own Title" || got.State != "" {
		t.Fatalf("manual track changed: %+v", got)
	}
	if got := tracks[3].Track; got.Artist != "Catherine Dubosc" {
		t.Fatalf("expected artist override for differing artist, got %q", got.Artist)
	}
	for i, ref := range tracks {
		if ref.Track.Start != fourTrackAlbum().Tracks()[i].Track.Start {
			t.Fatalf("offsets must not change")
		}
	}

	if report.Count(merge.OutcomeFilled) != 3 || report.Count(merge.OutcomeKeptManual) != 1 {
		t.Fatalf("unexpected report: %+v", report.Tracks)
	}
	if !report.Tracks[1].Suspect {
		t.Fatal("expected unrelated manual title to be flagged")
	}
	if !report.Changed() {
		t.Fatal("expected report to mark the album changed")
	}

	if in.Title != "" || in.Sides[0].Tracks[0].State != album.StatePlaceholder {
		t.Fatal("input album must not be modified")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	r := release(4)
	first, _, err := merge.Merge(fourTrackAlbum(), r, merge.Options{})
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, report, err := merge.Merge(first, r, merge.Options{})
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second merge changed the album:\n%+v\n%+v", first, second)
	}
	if report.Changed() {
		t.Fatalf("second merge should report no changes: %+v", report)
	}

	refreshed, report, err := merge.Merge(second, r, merge.Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh merge: %v", err)
	}
	if !reflect.DeepEqual(second, refreshed) {
		t.Fatal("refreshing with the same release should not change the album")
	}
	if report.Count(merge.OutcomeRefreshed) != 3 {
		t.Fatalf("expected 3 refreshed tracks, got %+v", report.Tracks)
	}
}

func TestMergeNeverDowngradesManualTracks(t *testing.T) {
	a := fourTrackAlbum()
	for i := range a.Sides {
		for j := range a.Sides[i].Tracks {
			a.Sides[i].Tracks[j].State = album.StateManual
		}
	}
	out, report, err := merge.Merge(a, release(4), merge.Options{Refresh: true})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, ref := range out.Tracks() {
		if ref.Track.State != album.StateManual {
			t.Fatalf("track %d state changed to %q", ref.Track.Number, ref.Track.State)
		}
	}
	if report.Count(merge.OutcomeKeptManual) != 4 {
		t.Fatalf("expected all tracks kept manual: %+v", report.Tracks)
	}
}

func TestMergeRefreshReappliesMergedTracks(t *testing.T) {
	first, _, err := merge.Merge(fourTrackAlbum(), release(4), merge.Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	updated := release(4)
	updated.Tracks[0].Title = "Kyrie eleison (corrected)"

	kept, _, err := merge.Merge(first, updated, merge.Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if kept.Sides[0].Tracks[0].Title != "Kyrie eleison" {
		t.Fatal("merged track should be kept without refresh")
	}
	refreshed, _, err := merge.Merge(first, updated, merge.Options{Refresh: true})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if refreshed.Sides[0].Tracks[0].Title != "Kyrie eleison (corrected)" {
		t.Fatal("refresh should re-apply release data")
	}
}

func TestMergeCountMismatchLeavesAlbumUntouched(t *testing.T) {
	a := fourTrackAlbum()
	before, err := album.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, _, err := merge.Merge(a, release(3), merge.Options{})
	if out != nil {
		t.Fatal("expected no album on mismatch")
	}
	var mismatch *merge.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Expected != 4 || mismatch.Actual != 3 {
		t.Fatalf("unexpected counts: %+v", mismatch)
	}
	msg := err.Error()
	if !strings.Contains(msg, "3") || !strings.Contains(msg, "4") {
		t.Fatalf("message should mention both counts: %q", msg)
	}

	after, err := album.Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("album changed after failed merge")
	}
}

func TestMergeRejectsInconsistentNumbering(t *testing.T) {
	a := fourTrackAlbum()
	r := release(4)
	// Release numbering would put the first placeholder after the manual track 2.
	r.Tracks[0].Number = 7

	_, _, err := merge.Merge(a, r, merge.Options{})
	var mismatch *merge.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	var cfgErr *album.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected wrapped ConfigError, got %v", err)
	}
}

func TestMergeKeepsPresentAlbumFields(t *testing.T) {
	a := fourTrackAlbum()
	a.Title = "My Title"
	a.Tags = map[string]string{"conductor": "Someone Else"}
	out, report, err := merge.Merge(a, release(4), merge.Options{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out.Title != "My Title" || out.Tags["conductor"] != "Someone Else" {
		t.Fatalf("present album values should be kept: %+v", out)
	}
	for _, field := range report.AlbumFields {
		if field == "title" || field == "tags.conductor" {
			t.Fatalf("kept field %q reported as filled", field)
		}
	}
}
