package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasEXIF(t *testing.T) {
	assert.False(t, HasEXIF(nil))
	assert.False(t, HasEXIF([]byte("not an image")))
	// A bare JPEG SOI marker carries no EXIF segment.
	assert.False(t, HasEXIF([]byte{0xFF, 0xD8, 0xFF, 0xD9}))
}
