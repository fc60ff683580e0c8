package builder

import "platter/internal/tagging"

// Status is the outcome of one track.
type Status string

const (
	StatusWritten Status = "written"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Entry describes one planned output track.
type Entry struct {
	Side   int
	Number int
	Title  string
	Artist string
	Path   string
	// StartMs and EndMs are the half-open range taken from the side capture.
	// Both are zero when the side never reached segmentation.
	StartMs int64
	EndMs   int64
	Tags    tagging.Tags
	Status  Status
	Size    int64
	Err     error
}

// Manifest is the in-memory record of a build. It is never persisted.
type Manifest struct {
	AlbumDir  string
	CoverPath string
	Entries   []Entry
}

// Count returns the number of entries with the given status.
func (m Manifest) Count(status Status) int {
	n := 0
	for _, e := range m.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// TotalBytes sums the sizes of the written tracks.
func (m Manifest) TotalBytes() int64 {
	var total int64
	for _, e := range m.Entries {
		if e.Status == StatusWritten {
			total += e.Size
		}
	}
	return total
}
