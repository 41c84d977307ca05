package media

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// HasEXIF reports whether the image carries parseable EXIF metadata. Camera
// originals usually do; generated images usually do not. Formats without EXIF
// support simply report false.
func HasEXIF(data []byte) bool {
	_, err := exif.Decode(bytes.NewReader(data))
	return err == nil
}
