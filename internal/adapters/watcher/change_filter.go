package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"unique"

	"go.trai.ch/mach/internal/core/ports"
)

// ChangeFilter remembers content hashes of files so that events which do not
// change a file's content (touch, editor save of identical text) are dropped.
type ChangeFilter struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
	hasher ports.Hasher
}

// NewChangeFilter creates an empty filter.
func NewChangeFilter(hasher ports.Hasher) *ChangeFilter {
	return &ChangeFilter{
		hashes: make(map[unique.Handle[string]]uint64),
		hasher: hasher,
	}
}

// Seed records the current hashes of paths without reporting changes.
// Unreadable paths are ignored.
func (f *ChangeFilter) Seed(paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, path := range paths {
		path = filepath.Clean(path)
		if hash, err := f.hasher.HashFile(path); err == nil {
			f.hashes[unique.Make(path)] = hash
		}
	}
}

// Changed returns the subset of paths whose fingerprint differs from the last
// recorded state and records the new state. Removed files count as changed
// once. Directories count as changed whenever they are reported.
func (f *ChangeFilter) Changed(paths []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var changed []string
	for _, path := range paths {
		path = filepath.Clean(path)
		key := unique.Make(path)
		old, known := f.hashes[key]

		info, err := os.Stat(path)
		switch {
		case err != nil:
			if known {
				delete(f.hashes, key)
				changed = append(changed, path)
			}
		case info.IsDir():
			changed = append(changed, path)
		default:
			hash, err := f.hasher.HashFile(path)
			if err != nil {
				changed = append(changed, path)
				continue
			}
			if !known || hash != old {
				f.hashes[key] = hash
				changed = append(changed, path)
			}
		}
	}
	return changed
}
