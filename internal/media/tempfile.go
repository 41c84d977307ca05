// Package media handles on-disk media plumbing: request-scoped temp files,
// audio decoding for the local heuristic, video frame sampling through
// ffmpeg, and EXIF inspection.
package media

import (
	"fmt"
	"log"
	"os"
)

// writeTemp spills media bytes to a request-scoped temporary file and returns
// its path plus a cleanup function. Callers must defer cleanup so the file is
// removed on every exit path.
func writeTemp(data []byte, pattern string) (string, func(), error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	path := tmp.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[Media] failed to remove temp file %s: %v", path, err)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, cleanup, nil
}
