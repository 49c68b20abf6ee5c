package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches snapshot files anywhere under the root.
var DefaultInclude = []string{"**/*.snapshot.json", "**/*.fiber.json"}

// DefaultExclude skips dependency and build trees.
var DefaultExclude = []string{"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**"}

// DiscoverOptions selects files by slash-separated globs relative to the
// root. An empty Include means DefaultInclude.
type DiscoverOptions struct {
	Include []string
	Exclude []string
}

// Discover walks root and returns the absolute paths of matching files,
// sorted.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern: %s", p)
		}
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && matchesAny(opts.Exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if matchesAny(include, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Matches reports whether a root-relative, slash-separated path is selected
// by opts.
func (opts DiscoverOptions) Matches(rel string) bool {
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	return matchesAny(include, rel) && !matchesAny(opts.Exclude, rel)
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
