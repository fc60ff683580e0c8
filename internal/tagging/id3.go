package tagging

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// id3TextFrames maps extra vorbis keys onto dedicated ID3v2.4 text frames.
// Everything else becomes a TXXX frame.
var id3TextFrames = map[string]string{
	"COMPOSER":  "TCOM",
	"CONDUCTOR": "TPE3",
	"GENRE":     "TCON",
	"MEDIA":     "TMED",
	"LABEL":     "TPUB",
	"COPYRIGHT": "TCOP",
	"ISRC":      "TSRC",
}

func writeID3(path string, t Tags) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3: %w", err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.Title != "" {
		tag.SetTitle(t.Title)
	}
	if t.Artist != "" {
		tag.SetArtist(t.Artist)
	}
	if t.Album != "" {
		tag.SetAlbum(t.Album)
	}
	text := func(id, value string) {
		if value = strings.TrimSpace(value); value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
		}
	}
	text("TPE2", t.AlbumArtist)
	text("TRCK", position(t.TrackNumber, t.TrackTotal))
	text("TPOS", position(t.DiscNumber, t.DiscTotal))
	text("TDRC", t.Date)

	for _, f := range t.Fields() {
		if _, core := coreFields[f.Key]; core {
			continue
		}
		if id, ok := id3TextFrames[f.Key]; ok {
			text(id, f.Value)
			continue
		}
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: strings.ToLower(f.Key),
			Value:       f.Value,
		})
	}

	if t.Cover != nil && len(t.Cover.Data) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    t.Cover.MIME,
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     t.Cover.Data,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3: %w", err)
	}
	return nil
}

// position renders "n" or "n/total"; zero n renders nothing.
func position(n, total int) string {
	switch {
	case n <= 0:
		return ""
	case total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	default:
		return fmt.Sprintf("%d", n)
	}
}
