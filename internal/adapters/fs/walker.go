// Package fs provides file system adapters for walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// SkipDirs lists directory names that are never walked.
var SkipDirs = []string{".git", ".jj", "node_modules"}

// Walker enumerates a directory tree, skipping SkipDirs and ignored names.
type Walker struct {
	ignores []string
}

// NewWalker creates a new Walker. Ignores are filepath.Match patterns tested
// against base names.
func NewWalker(ignores ...string) *Walker {
	return &Walker{ignores: ignores}
}

// WalkFiles yields the regular files under root. Yielded paths include root.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return w.walk(root, false)
}

// WalkDirs yields root and every directory beneath it that is not skipped.
func (w *Walker) WalkDirs(root string) iter.Seq[string] {
	return w.walk(root, true)
}

func (w *Walker) walk(root string, dirs bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped.
				return nil //nolint:nilerr // keep walking past problematic entries
			}

			if path != root && w.Skip(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() != dirs {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Skip reports whether a file or directory with the given base name is excluded.
func (w *Walker) Skip(name string) bool {
	for _, dir := range SkipDirs {
		if name == dir {
			return true
		}
	}
	for _, ignore := range w.ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
