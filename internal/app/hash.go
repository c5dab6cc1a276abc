package app

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashableFile represents a watched path and the bytes that identify its state.
type HashableFile struct {
	// Path is the absolute path of the file or directory.
	Path string
	// Content is the file content, or the newline-joined entry names of a directory.
	Content []byte
}

// HashWatchState calculates a BLAKE3 digest over path/content pairs.
// The input must already be sorted by path for deterministic results.
// Null byte separators between path and content, and between entries,
// keep different combinations from colliding.
func HashWatchState(files []HashableFile) string {
	if len(files) == 0 {
		return ""
	}

	h := blake3.New()
	for _, file := range files {
		_, _ = h.WriteString(file.Path)
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(file.Content)
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
