package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands glob patterns to regular files. Supports single-level
// (*) and recursive (**) wildcards. Matches of each pattern are sorted;
// patterns keep their order and duplicates are dropped.
//
// Examples:
//   - "./instances/*.json" → ["/abs/instances/a.json", ...]
//   - "./instances/**/*.json" → every JSON file below ./instances
//   - "./kidney.json" → ["/abs/kidney.json"]
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

// resolvePattern expands a single glob pattern to files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", absPath)
		}

		return []string{absPath}, nil
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	slices.Sort(files)
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// makeAbsolutePattern makes the literal directory prefix of a pattern
// absolute and keeps the glob part as written.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := strings.IndexAny(pattern, "*?[{")
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	dirPart, globPart := ".", "/"+pattern
	if lastSep := strings.LastIndexAny(pattern[:globIdx], "/"+string(filepath.Separator)); lastSep == 0 {
		return pattern, nil
	} else if lastSep > 0 {
		dirPart, globPart = pattern[:lastSep], pattern[lastSep:]
	}

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}

	return absDir + filepath.FromSlash(globPart), nil
}
