// Package deps tracks the schema sources touched by a batch and owns the
// resolution cache that is invalidated once they are recorded.
package deps

import (
	"encoding/hex"
	"sort"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/tacogips/sectionforge/internal/debug"
)

// Fingerprint returns the blake3 hex digest of content.
func Fingerprint(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	fingerprint string
	value       any
}

// Cache maps an absolute schema path to its loaded value. An entry only
// answers for the exact content fingerprint it was stored with.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the value cached for path if it was stored with fingerprint.
func (c *Cache) Get(path, fingerprint string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok || e.fingerprint != fingerprint {
		return nil, false
	}
	return e.value, true
}

// Put stores value for path, replacing any previous entry.
func (c *Cache) Put(path, fingerprint string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{fingerprint: fingerprint, value: value}
}

// Snapshot returns the cached paths in sorted order.
func (c *Cache) Snapshot() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Invalidate evicts paths. Unknown paths are ignored.
func (c *Cache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		if _, ok := c.entries[p]; ok {
			debug.Debug("[deps] evicting %s", p)
			delete(c.entries, p)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
