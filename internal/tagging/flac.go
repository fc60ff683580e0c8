package tagging

import (
	"fmt"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

func writeFLAC(path string, t Tags) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	kept := make([]*flac.MetaDataBlock, 0, len(f.Meta)+2)
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture || block.Type == flac.Padding {
			continue
		}
		kept = append(kept, block)
	}

	comment := flacvorbis.New()
	for _, field := range t.Fields() {
		if err := comment.Add(field.Key, field.Value); err != nil {
			return fmt.Errorf("add %s: %w", field.Key, err)
		}
	}
	commentBlock := comment.Marshal()
	kept = append(kept, &commentBlock)

	if t.Cover != nil && len(t.Cover.Data) > 0 {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front Cover", t.Cover.Data, t.Cover.MIME)
		if err != nil {
			return fmt.Errorf("build picture block: %w", err)
		}
		picBlock := pic.Marshal()
		kept = append(kept, &picBlock)
	}

	f.Meta = kept
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}
