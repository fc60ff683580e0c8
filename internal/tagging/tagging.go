package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"platter/internal/logging"
	"platter/internal/services"
)

// Picture is an embedded image.
type Picture struct {
	Data []byte
	MIME string
}

// Tags is the resolved tag set for one output track.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
	Date        string
	// Extra holds additional vorbis-style tags (media, source, composer, ...).
	// Keys are case-insensitive and never override the fields above.
	Extra map[string]string
	Cover *Picture
}

// Tagger writes tags into an audio file in place.
type Tagger interface {
	Tag(ctx context.Context, path string, tags Tags) error
}

// Vorbis field names shared by the FLAC and TagLib writers.
const (
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldAlbum       = "ALBUM"
	FieldAlbumArtist = "ALBUMARTIST"
	FieldTrackNumber = "TRACKNUMBER"
	FieldTrackTotal  = "TRACKTOTAL"
	FieldDiscNumber  = "DISCNUMBER"
	FieldDiscTotal   = "DISCTOTAL"
	FieldDate        = "DATE"
)

var coreFields = map[string]struct{}{
	FieldTitle: {}, FieldArtist: {}, FieldAlbum: {}, FieldAlbumArtist: {},
	FieldTrackNumber: {}, FieldTrackTotal: {}, FieldDiscNumber: {}, FieldDiscTotal: {},
	FieldDate: {},
}

// Field is one vorbis-style key/value pair.
type Field struct {
	Key   string
	Value string
}

// Fields flattens the tag set into upper-case vorbis-style fields. Core fields
// come first in a fixed order, then extra tags sorted by key. Empty values and
// zero numbers are omitted.
func (t Tags) Fields() []Field {
	var fields []Field
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fields = append(fields, Field{Key: key, Value: value})
		}
	}
	num := func(key string, n int) {
		if n > 0 {
			add(key, strconv.Itoa(n))
		}
	}
	add(FieldTitle, t.Title)
	add(FieldArtist, t.Artist)
	add(FieldAlbum, t.Album)
	add(FieldAlbumArtist, t.AlbumArtist)
	num(FieldTrackNumber, t.TrackNumber)
	num(FieldTrackTotal, t.TrackTotal)
	num(FieldDiscNumber, t.DiscNumber)
	num(FieldDiscTotal, t.DiscTotal)
	add(FieldDate, t.Date)

	extra := t.extraFields()
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		add(key, extra[key])
	}
	return fields
}

// FieldMap returns Fields keyed by name.
func (t Tags) FieldMap() map[string]string {
	out := map[string]string{}
	for _, f := range t.Fields() {
		out[f.Key] = f.Value
	}
	return out
}

func (t Tags) extraFields() map[string]string {
	out := make(map[string]string, len(t.Extra))
	for key, value := range t.Extra {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, core := coreFields[key]; core {
			continue
		}
		out[key] = value
	}
	return out
}

// Dispatcher picks a writer by file extension.
type Dispatcher struct {
	logger *slog.Logger
}

// New returns a Dispatcher. A nil logger discards output.
func New(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{logger: logging.NewComponentLogger(logger, "tagging")}
}

// Supported reports whether path has an extension the Dispatcher can tag.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac", ".ogg", ".oga", ".opus", ".m4a":
		return true
	}
	return false
}

// Tag writes tags into path, replacing any tags already present.
func (d *Dispatcher) Tag(ctx context.Context, path string, tags Tags) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var err error
	switch ext {
	case ".mp3":
		err = writeID3(path, tags)
	case ".flac":
		err = writeFLAC(path, tags)
	case ".ogg", ".oga", ".opus", ".m4a":
		if tags.Cover != nil {
			d.logger.Debug("cover embedding not supported for format; skipping",
				logging.String("path", path), logging.String("format", ext))
		}
		err = writeTaglib(path, tags)
	default:
		return services.Wrap(services.ErrValidation, "tagging", "dispatch",
			fmt.Sprintf("unsupported audio format %q", ext), nil)
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tagging", "write "+strings.TrimPrefix(ext, "."),
			filepath.Base(path), err)
	}
	d.logger.Debug("tags written",
		logging.String("path", path),
		logging.Int("track", tags.TrackNumber),
		logging.Bool("cover", tags.Cover != nil))
	return nil
}
