package watcher

import (
	"path/filepath"
	"strings"

	"sqlnamer/internal/normalizer"
	"sqlnamer/internal/scanner"
)

// DefaultIgnorePatterns returns the patterns for editor and download temp
// files that are never renamed.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.swp",
		"*~",
		".#*",
		"*.part",
		"*.crdownload", // Chrome partial downloads
	}
}

// FileFilter decides which paths the watcher hands on.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter with the given ignore patterns.
// If patterns is nil, default patterns are used.
func NewFileFilter(patterns []string) *FileFilter {
	if patterns == nil {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{
		patterns: patterns,
	}
}

// ShouldIgnore reports whether the base name of path matches an ignore
// pattern. Malformed patterns never match.
func (f *FileFilter) ShouldIgnore(path string) bool {
	filename := filepath.Base(path)

	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, filename); err == nil && matched {
			return true
		}
		// A bare extension such as ".bak" matches as a suffix.
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") {
			if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(pattern)) {
				return true
			}
		}
	}
	return false
}

// Accept reports whether path is a SQL script that may need renaming.
// Canonical names are dropped here so the watcher's own renames do not
// come back around as new work.
func (f *FileFilter) Accept(path string) bool {
	name := filepath.Base(path)
	if !scanner.IsSQLFile(name) || f.ShouldIgnore(name) {
		return false
	}
	return !normalizer.IsCanonical(name)
}

// GetPatterns returns a copy of the ignore patterns.
func (f *FileFilter) GetPatterns() []string {
	result := make([]string, len(f.patterns))
	copy(result, f.patterns)
	return result
}
