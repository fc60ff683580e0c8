package builder

import (
	"fmt"
	"strings"
)

// Build failure reasons.
const (
	ReasonOutputDir    = "cannot create album directory"
	ReasonCover        = "cover failed"
	ReasonProbe        = "probe failed"
	ReasonSegmentation = "segmentation failed"
	ReasonTrack        = "track failed"
	ReasonIncomplete   = "incomplete output"
)

// BuildError reports a failed build. Side and Track are zero when the failure
// is not tied to one.
type BuildError struct {
	Side   int
	Track  int
	Title  string
	Path   string
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("build")
	if e.Side > 0 {
		fmt.Fprintf(&b, ": side %d", e.Side)
	}
	if e.Track > 0 {
		fmt.Fprintf(&b, ": track %d", e.Track)
		if e.Title != "" {
			fmt.Fprintf(&b, " %q", e.Title)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *BuildError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
