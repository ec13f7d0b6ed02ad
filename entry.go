package adorable

import "sync"

// EntryCache maps source paths to the atoms last read from them.
//
// Paths remember the order of their first insertion, which makes Atoms
// deterministic. Entries are never removed. EntryCache is safe for
// concurrent use.
type EntryCache struct {
	mu      sync.RWMutex
	entries map[string][]string
	order   []string
}

// NewEntryCache returns an empty cache.
func NewEntryCache() *EntryCache {
	return &EntryCache{entries: make(map[string][]string)}
}

// Set records the atoms of path, replacing any previous entry in place.
func (c *EntryCache) Set(path string, atoms []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(path, atoms)
}

func (c *EntryCache) setLocked(path string, atoms []string) {
	if _, ok := c.entries[path]; !ok {
		c.order = append(c.order, path)
	}
	c.entries[path] = append([]string{}, atoms...)
}

// Replace discards the cache content and loads entries in order.
func (c *EntryCache) Replace(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]string, len(entries))
	c.order = make([]string, 0, len(entries))
	for _, e := range entries {
		c.setLocked(e.Path, e.Atoms)
	}
}

// Get returns the atoms of path and whether path has been scanned.
func (c *EntryCache) Get(path string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	atoms, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	return append([]string{}, atoms...), true
}

// Len returns the number of scanned paths.
func (c *EntryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Paths returns the scanned paths in insertion order.
func (c *EntryCache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Atoms returns the union of every entry, deduplicated in first-seen order.
func (c *EntryCache) Atoms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var all []string
	for _, path := range c.order {
		all = append(all, c.entries[path]...)
	}
	return Dedupe(all)
}
