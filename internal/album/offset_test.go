package album_test

import (
	"strings"
	"testing"

	"platter/internal/album"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in   string
		want album.Offset
	}{
		{"0", 0},
		{"180000", 180000},
		{"3:00.000", 180000},
		{"3:00", 180000},
		{"1:02.5", 62500},
		{"1:02.05", 62050},
		{"12.345", 12345},
		{"1:00:00.001", 3600001},
	}
	for _, tt := range tests {
		got, err := album.ParseOffset(tt.in)
		if err != nil {
			t.Fatalf("ParseOffset(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseOffset(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1:2:3:4", "1:60.000", "1:00.1234", "1:.5", "1:00."} {
		if _, err := album.ParseOffset(bad); err == nil {
			t.Fatalf("ParseOffset(%q) should fail", bad)
		}
	}
}

func TestOffsetString(t *testing.T) {
	tests := []struct {
		in   album.Offset
		want string
	}{
		{0, "0:00.000"},
		{62500, "1:02.500"},
		{540000, "9:00.000"},
		{3600001, "1:00:00.001"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("Offset(%d).String() = %q, want %q", int64(tt.in), got, tt.want)
		}
		back, err := album.ParseOffset(tt.want)
		if err != nil || back != tt.in {
			t.Fatalf("round trip of %q gave %d, %v", tt.want, back, err)
		}
	}
}

func TestDecodeAcceptsPlainSecondOffsets(t *testing.T) {
	doc := `title: Kind of Blue
artist: Miles Davis
sides:
  - index: 1
    source: side1.flac
    tracks:
      - number: 1
        title: So What
        start: 0
      - number: 2
        title: Freddie Freeloader
        start: 62.5
`
	a, err := album.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := a.Sides[0].Tracks[1].Start; got != 62500 {
		t.Fatalf("start = %d, want 62500", got)
	}

	bad := strings.Replace(doc, "start: 62.5", "start: 6.25e1", 1)
	if _, err := album.Decode([]byte(bad)); err == nil {
		t.Fatal("expected exponent notation to be rejected")
	}
}
