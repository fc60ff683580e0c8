package releasecache_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"platter/internal/album"
	"platter/internal/releasecache"
)

func openStore(t *testing.T) *releasecache.Store {
	t.Helper()
	store, err := releasecache.Open(filepath.Join(t.TempDir(), "cache", "releases.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRelease(id string) album.Release {
	return album.Release{
		ID:     id,
		Title:  "Requiem",
		Artist: "Berlioz; London Symphony Orchestra",
		Date:   "1985-12-03",
		Tracks: []album.ReleaseTrack{
			{Number: 1, Title: "Requiem", Artist: "Berlioz", Medium: 1, LengthMs: 600000},
			{Number: 2, Title: "Dies irae", Artist: "Berlioz", Medium: 1, LengthMs: 720000},
		},
		Credits: album.Credits{Composers: []string{"Hector Berlioz"}, Orchestras: []string{"London Symphony Orchestra"}},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := sampleRelease("77441f5e-fb98-42e6-b73d-ed7e8507f855")
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, want.ID)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cached release differs:\n got %+v\nwant %+v", got, want)
	}

	want.Title = "Requiem (remaster)"
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Requiem (remaster)" || entries[0].TrackCount != 2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].FetchedAt.IsZero() {
		t.Fatal("expected fetched time")
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Put(ctx, sampleRelease(id)); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}
	removed, err := store.Remove(ctx, "b")
	if err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	removed, err = store.Remove(ctx, "b")
	if err != nil || removed {
		t.Fatalf("second Remove should report nothing removed: removed=%v err=%v", removed, err)
	}
	n, err := store.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear: n=%d err=%v", n, err)
	}
	entries, err := store.List(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty cache, got %v err=%v", entries, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "releases.db")
	store, err := releasecache.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Put(ctx, sampleRelease("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = store.Close()

	reopened, err := releasecache.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Get(ctx, "x"); err != nil || !ok {
		t.Fatalf("expected cached release after reopen: ok=%v err=%v", ok, err)
	}
}

func TestPutRequiresID(t *testing.T) {
	if err := openStore(t).Put(context.Background(), album.Release{}); err == nil {
		t.Fatal("expected error for empty release id")
	}
}
