// Package discovery finds plugin manifests on disk.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches manifest files anywhere below the root.
const DefaultPattern = "**/plugin.{yaml,yml}"

// Finder globs for manifest files inside a file system.
type Finder struct {
	fsys     fs.FS
	patterns []string
}

// NewFinder creates a Finder over fsys. Without patterns DefaultPattern is used.
func NewFinder(fsys fs.FS, patterns ...string) (*Finder, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid manifest pattern %q", p)
		}
	}
	return &Finder{fsys: fsys, patterns: patterns}, nil
}

// NewDirFinder creates a Finder rooted at dir.
func NewDirFinder(dir string, patterns ...string) (*Finder, error) {
	return NewFinder(os.DirFS(dir), patterns...)
}

// Find returns the slash-separated paths of every matching file, sorted and
// without duplicates.
func (f *Finder) Find() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range f.patterns {
		matches, err := doublestar.Glob(f.fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadAll finds every manifest and returns its contents keyed by path.
func (f *Finder) ReadAll() (map[string][]byte, error) {
	paths, err := f.Find()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", p, err)
		}
		out[p] = data
	}
	return out, nil
}
