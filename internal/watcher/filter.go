package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns lists temporary-file patterns that should never
// trigger a run: partial downloads and editor lock files settle into real
// files later, producing their own events.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.partial",
		"*.download",
		"*.crdownload",
		".~*",
	}
}

// FileFilter matches file names against glob ignore patterns.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter, falling back to the default patterns
// when none are given.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore reports whether the path's base name matches any ignore
// pattern. Bare ".ext" patterns also match as a case-insensitive suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.Contains(pattern, "*") &&
			strings.HasSuffix(strings.ToLower(name), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
