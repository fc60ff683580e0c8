package builder

import (
	"fmt"
	"path/filepath"
	"strconv"

	"platter/internal/album"
	"platter/internal/textutil"
)

// AlbumDir returns outputRoot/{AlbumTitle} with the title made filesystem safe.
func AlbumDir(outputRoot string, a *album.Album) string {
	return filepath.Join(outputRoot, textutil.SanitizeFileName(a.Title))
}

// TrackFileName renders "{NN} - {Title}{ext}". NN is zero padded to the
// wider of two digits and the digits of the highest track number.
func TrackFileName(number, highest int, title, ext string) string {
	width := max(2, len(strconv.Itoa(highest)))
	return fmt.Sprintf("%0*d - %s%s", width, number, textutil.SanitizeFileName(title), ext)
}

func highestNumber(a *album.Album) int {
	highest := 0
	for _, ref := range a.Tracks() {
		highest = max(highest, ref.Track.Number)
	}
	return highest
}
