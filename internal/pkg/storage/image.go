package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// Sanitized is an image re-encoded without its embedded metadata.
type Sanitized struct {
	Data        *bytes.Buffer
	Extension   string
	ContentType string
}

// SanitizeImage decodes and re-encodes an image so EXIF blocks (GPS
// position, device serials) never reach storage. The orientation tag is
// applied to the pixels before it is dropped. JPEGs stay JPEG, every other
// format is written as PNG.
func SanitizeImage(r io.Reader, filename string) (*Sanitized, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	out := &Sanitized{Data: &bytes.Buffer{}, Extension: ".png", ContentType: "image/png"}
	format := imaging.PNG
	if f, err := imaging.FormatFromFilename(filename); err == nil && f == imaging.JPEG {
		format = imaging.JPEG
		out.Extension = ".jpg"
		out.ContentType = "image/jpeg"
	}

	if err := imaging.Encode(out.Data, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out, nil
}
