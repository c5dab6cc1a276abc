package generator

import (
	"path/filepath"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
)

// ShouldProcessFile reports whether a directory entry of the source directory
// takes part in a batch: it must carry the template extension and match none
// of the ignore patterns.
func ShouldProcessFile(name, extension string, ignorePatterns []string) bool {
	if filepath.Ext(name) != extension {
		return false
	}

	for _, pattern := range ignorePatterns {
		if MatchesPattern(name, pattern) {
			debug.Debug("[generator] Ignoring file: %s (matched pattern: %s)", name, pattern)
			return false
		}
	}

	return true
}

// MatchesPattern checks if a file path matches a glob pattern.
// Patterns without a slash are also tried against the base name.
func MatchesPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
