package segment

import (
	"fmt"
	"strings"
)

// Reasons reported by Error.
const (
	ReasonNoBoundaries   = "no boundaries"
	ReasonNonPositive    = "non-positive duration"
	ReasonNegative       = "negative boundary"
	ReasonNonMonotonic   = "non-monotonic boundaries"
	ReasonBeyondDuration = "boundary beyond duration"
)

// Error reports invalid boundary data for a side.
type Error struct {
	Reason string
	// Index is the offending boundary position, or -1 when the whole input is at fault.
	Index      int
	DurationMs int64
	Starts     []int64
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("segmentation: ")
	b.WriteString(e.Reason)
	if e.Index >= 0 && e.Index < len(e.Starts) {
		fmt.Fprintf(&b, " at boundary %d (%dms)", e.Index+1, e.Starts[e.Index])
	}
	if e.DurationMs > 0 {
		fmt.Fprintf(&b, "; side duration %dms", e.DurationMs)
	}
	return b.String()
}

// Range is a half-open [StartMs, EndMs) slice of a side.
type Range struct {
	StartMs int64
	EndMs   int64
}

// DurationMs returns the range length.
func (r Range) DurationMs() int64 {
	return r.EndMs - r.StartMs
}

// Plan is the segmentation of one side.
type Plan struct {
	DurationMs int64
	Ranges     []Range
	// CoercedFirst is set when the first boundary was moved to 0.
	CoercedFirst bool
	// OriginalFirstMs holds the first boundary as supplied.
	OriginalFirstMs int64
}

// Segment splits a side of durationMs into one range per start offset. The
// ranges tile [0, durationMs) with no gap or overlap: range i ends where
// range i+1 begins, and the last range ends at durationMs. A first start
// greater than zero is moved to zero and reported through Plan.CoercedFirst.
func Segment(durationMs int64, startsMs []int64) (Plan, error) {
	starts := append([]int64(nil), startsMs...)
	fail := func(reason string, index int) (Plan, error) {
		return Plan{}, &Error{Reason: reason, Index: index, DurationMs: durationMs, Starts: starts}
	}

	if durationMs <= 0 {
		return fail(ReasonNonPositive, -1)
	}
	if len(starts) == 0 {
		return fail(ReasonNoBoundaries, -1)
	}
	for i, start := range starts {
		if start < 0 {
			return fail(ReasonNegative, i)
		}
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return fail(ReasonNonMonotonic, i)
		}
	}
	for i, start := range starts {
		if start >= durationMs {
			return fail(ReasonBeyondDuration, i)
		}
	}

	plan := Plan{
		DurationMs:      durationMs,
		Ranges:          make([]Range, len(starts)),
		OriginalFirstMs: starts[0],
	}
	if starts[0] != 0 {
		plan.CoercedFirst = true
	}
	for i := range starts {
		begin := starts[i]
		if i == 0 {
			begin = 0
		}
		end := durationMs
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		plan.Ranges[i] = Range{StartMs: begin, EndMs: end}
	}
	return plan, nil
}
