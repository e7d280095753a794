// snapshot/cache.go
package snapshot

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// CachedLoader memoizes Load for the process lifetime. The memo is dropped
// whenever the directory's CSV file count or newest modification time
// changes, so a refreshed snapshot directory is picked up on the next query.
// Safe for concurrent use; the memoized SnapshotSet is never mutated.
type CachedLoader struct {
	loader *Loader

	mu  sync.Mutex
	sig dirSignature
	set *SnapshotSet
}

type dirSignature struct {
	files  int
	maxMod time.Time
}

func NewCachedLoader(dir string) *CachedLoader {
	return &CachedLoader{loader: NewLoader(dir)}
}

// Dir returns the snapshot directory this loader reads from.
func (c *CachedLoader) Dir() string {
	return c.loader.Dir
}

// Load returns the memoized snapshot set, re-reading the directory only when
// its signature has changed since the last scan.
func (c *CachedLoader) Load() (*SnapshotSet, error) {
	sig, err := c.signature()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set != nil && sig == c.sig {
		return c.set, nil
	}

	set, err := c.loader.Load()
	if err != nil {
		return nil, err
	}
	c.set = set
	c.sig = sig
	return set, nil
}

func (c *CachedLoader) signature() (dirSignature, error) {
	var sig dirSignature
	err := filepath.WalkDir(c.loader.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		sig.files++
		if info.ModTime().After(sig.maxMod) {
			sig.maxMod = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return sig, fmt.Errorf("snapshot directory %s is not readable: %w", c.loader.Dir, err)
	}
	return sig, nil
}
