package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs expands glob patterns to regular files. Relative patterns
// resolve against root; absolute patterns are used as-is. Supports both
// single-level wildcards (*) and recursive wildcards (**).
//
// Matches are deduplicated across patterns, made absolute, and sorted. A
// pattern that matches nothing contributes nothing; directories are skipped.
func ExpandGlobs(root string, patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := expandPattern(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// expandPattern expands a single glob pattern to files.
func expandPattern(root, pattern string) ([]string, error) {
	full := pattern
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return nil, err
	}

	if !containsGlob(pattern) {
		// No glob - include the path if it is a regular file.
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{abs}, nil
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue // Skip paths that can't be stat'd
		}
		if info.Mode().IsRegular() {
			files = append(files, match)
		}
	}

	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
