package segment_test

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"platter/internal/segment"
)

func TestSegmentEvenThirds(t *testing.T) {
	plan, err := segment.Segment(540000, []int64{0, 180000, 360000})
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	want := []segment.Range{
		{StartMs: 0, EndMs: 180000},
		{StartMs: 180000, EndMs: 360000},
		{StartMs: 360000, EndMs: 540000},
	}
	if len(plan.Ranges) != len(want) {
		t.Fatalf("expected %d ranges, got %d", len(want), len(plan.Ranges))
	}
	for i, r := range plan.Ranges {
		if r != want[i] {
			t.Fatalf("range %d: got %+v want %+v", i, r, want[i])
		}
		if r.DurationMs() != 180000 {
			t.Fatalf("range %d: expected 180000ms, got %d", i, r.DurationMs())
		}
	}
	if plan.CoercedFirst {
		t.Fatal("did not expect first boundary coercion")
	}
}

func TestSegmentSingleTrackSpansSide(t *testing.T) {
	plan, err := segment.Segment(300000, []int64{0})
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	if len(plan.Ranges) != 1 || plan.Ranges[0] != (segment.Range{StartMs: 0, EndMs: 300000}) {
		t.Fatalf("unexpected ranges: %+v", plan.Ranges)
	}
}

func TestSegmentCoercesFirstBoundary(t *testing.T) {
	plan, err := segment.Segment(100000, []int64{1500, 50000})
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	if !plan.CoercedFirst || plan.OriginalFirstMs != 1500 {
		t.Fatalf("expected coercion flag with original 1500, got %+v", plan)
	}
	if plan.Ranges[0].StartMs != 0 {
		t.Fatalf("expected first range at 0, got %d", plan.Ranges[0].StartMs)
	}
}

func TestSegmentErrors(t *testing.T) {
	tests := []struct {
		name     string
		duration int64
		starts   []int64
		reason   string
	}{
		{"equal boundaries", 100, []int64{0, 50, 50}, segment.ReasonNonMonotonic},
		{"decreasing", 100, []int64{0, 60, 40}, segment.ReasonNonMonotonic},
		{"start at duration", 100, []int64{0, 100}, segment.ReasonBeyondDuration},
		{"start past duration", 100, []int64{0, 150}, segment.ReasonBeyondDuration},
		{"negative", 100, []int64{-5, 50}, segment.ReasonNegative},
		{"empty", 100, nil, segment.ReasonNoBoundaries},
		{"zero duration", 0, []int64{0}, segment.ReasonNonPositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := segment.Segment(tt.duration, tt.starts)
			var segErr *segment.Error
			if !errors.As(err, &segErr) {
				t.Fatalf("expected *segment.Error, got %v", err)
			}
			if segErr.Reason != tt.reason {
				t.Fatalf("reason: got %q want %q", segErr.Reason, tt.reason)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Fatalf("message %q should contain %q", err.Error(), tt.reason)
			}
		})
	}
}

func TestSegmentTilesSide(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		duration := int64(rng.Intn(3_600_000) + 1)
		count := rng.Intn(20) + 1
		if int64(count) > duration {
			count = int(duration)
		}
		seen := map[int64]struct{}{0: {}}
		starts := []int64{0}
		for len(starts) < count {
			v := rng.Int63n(duration)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			starts = append(starts, v)
		}
		sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

		plan, err := segment.Segment(duration, starts)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", iter, err)
		}
		if len(plan.Ranges) != len(starts) {
			t.Fatalf("iteration %d: expected %d ranges, got %d", iter, len(starts), len(plan.Ranges))
		}
		if plan.Ranges[0].StartMs != 0 {
			t.Fatalf("iteration %d: first range starts at %d", iter, plan.Ranges[0].StartMs)
		}
		if last := plan.Ranges[len(plan.Ranges)-1]; last.EndMs != duration {
			t.Fatalf("iteration %d: last range ends at %d, want %d", iter, last.EndMs, duration)
		}
		var total int64
		for i, r := range plan.Ranges {
			if r.EndMs <= r.StartMs {
				t.Fatalf("iteration %d: empty range %d: %+v", iter, i, r)
			}
			if i > 0 && plan.Ranges[i-1].EndMs != r.StartMs {
				t.Fatalf("iteration %d: gap or overlap between %d and %d", iter, i-1, i)
			}
			total += r.DurationMs()
		}
		if total != duration {
			t.Fatalf("iteration %d: ranges cover %d, want %d", iter, total, duration)
		}
	}
}
