// Package newscache holds the snapshot the API serves and the flag that
// keeps a single update run in flight.
package newscache

import (
	"sync"
	"sync/atomic"

	"github.com/lysyi3m/newsdesk/app/news"
)

type Cache struct {
	mu       sync.RWMutex
	snapshot *news.Snapshot
	updating atomic.Bool
}

func New() *Cache {
	return &Cache{}
}

// Snapshot returns the current snapshot. It is never nil; callers must not
// modify it.
func (c *Cache) Snapshot() *news.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return &news.Snapshot{All: []news.APIItem{}, Top: []news.APIItem{}, Categories: []string{}}
	}
	return c.snapshot
}

// Replace swaps in a new snapshot. Readers holding the previous one keep a
// consistent view.
func (c *Cache) Replace(snapshot *news.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
}

// BeginUpdate marks an update as in flight. It returns false when one
// already is.
func (c *Cache) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

func (c *Cache) EndUpdate() {
	c.updating.Store(false)
}

func (c *Cache) IsUpdating() bool {
	return c.updating.Load()
}
