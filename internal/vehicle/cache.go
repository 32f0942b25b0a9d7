package vehicle

import (
	"strings"

	"golang.org/x/text/cases"
)

type cacheEntry struct {
	name string
	path string
}

// Cache maps vehicle names to the file declaring them. Names compare under
// Unicode case folding. The first path recorded for a name is kept.
type Cache struct {
	fold    cases.Caser
	entries map[string]cacheEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		fold:    cases.Fold(),
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) key(name string) string {
	return c.fold.String(strings.TrimSpace(name))
}

// Add records path for name unless the name is already known. It reports
// whether the entry was stored.
func (c *Cache) Add(name, path string) bool {
	k := c.key(name)
	if k == "" {
		return false
	}
	if _, ok := c.entries[k]; ok {
		return false
	}
	c.entries[k] = cacheEntry{name: strings.TrimSpace(name), path: path}
	return true
}

// Lookup returns the path recorded for name.
func (c *Cache) Lookup(name string) (string, bool) {
	e, ok := c.entries[c.key(name)]
	return e.path, ok
}

// Remove forgets name.
func (c *Cache) Remove(name string) {
	delete(c.entries, c.key(name))
}

// Len is the number of cached names.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries copies the cache out as name to path, using each name as first
// seen.
func (c *Cache) Entries() map[string]string {
	out := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		out[e.name] = e.path
	}
	return out
}
