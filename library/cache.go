package library

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes canonical forms for one generation session: it maps the
// key of a structurally sorted term to its canonical representative. It only
// grows; entries are never evicted.
//
// The cache is a pure memoization layer: results computed without it are the
// same, only slower. Lookups and fills are safe for concurrent use;
// concurrent misses on the same structural key are collapsed into a single
// computation so that one winner is registered per key.
//
// A nil *Cache is valid and disables memoization.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*LibraryTerm
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*LibraryTerm)}
}

// Len is the number of registered keys.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns the lookup hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}

	return c.hits.Load(), c.misses.Load()
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]*LibraryTerm)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Cache) lookup(key string) (*LibraryTerm, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	canon, ok := c.entries[key]

	return canon, ok
}

// register maps every key to canon.
func (c *Cache) register(keys []string, canon *LibraryTerm) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.entries[k] = canon
	}
}

// resolve returns the entry for key, computing and registering it once when
// absent. compute is responsible for calling register.
func (c *Cache) resolve(key string, compute func() *LibraryTerm) *LibraryTerm {
	if c == nil {
		return compute()
	}
	if canon, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return canon
	}
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if canon, ok := c.lookup(key); ok {
			c.hits.Add(1)
			return canon, nil
		}
		c.misses.Add(1)
		return compute(), nil
	})

	return v.(*LibraryTerm)
}
