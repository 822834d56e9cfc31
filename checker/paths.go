package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveTargets expands file paths and glob patterns to absolute file paths.
// Supports both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "ontology.ttl" → ["/abs/ontology.ttl"], whether or not it exists
//   - "ontologies/*.ttl" → every .ttl file directly in ontologies/
//   - "ontologies/**/*.ttl" → every .ttl file below ontologies/
//
// Literal paths are returned even when missing so the check can report them.
// A pattern that matches no regular file is an error.
func ResolveTargets(patterns []string) ([]string, error) {
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

func resolvePattern(pattern string) ([]string, error) {
	absPattern, err := filepath.Abs(pattern)
	if err != nil {
		return nil, err
	}

	if !containsGlob(pattern) {
		return []string{absPattern}, nil
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

	sort.Strings(files)
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
