package model

import (
	"sort"
	"sync"
)

// AssetMap is the output map shared by all file pipelines of a batch.
// Inserts are safe from concurrent goroutines; an inserted asset is never changed.
type AssetMap struct {
	mu     sync.RWMutex
	assets map[string]string
}

// NewAssetMap creates an empty AssetMap.
func NewAssetMap() *AssetMap {
	return &AssetMap{assets: make(map[string]string)}
}

// Insert adds an asset. It returns false if the key was already present,
// in which case the existing content is kept.
func (m *AssetMap) Insert(a OutputAsset) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.assets[a.Key]; exists {
		return false
	}
	m.assets[a.Key] = a.Content
	return true
}

// Get returns the content stored under key.
func (m *AssetMap) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.assets[key]
	return c, ok
}

// Len returns the number of assets.
func (m *AssetMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}

// Keys returns all keys in sorted order.
func (m *AssetMap) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.assets))
	for k := range m.assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Assets returns all assets sorted by key.
func (m *AssetMap) Assets() []OutputAsset {
	keys := m.Keys()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OutputAsset, 0, len(keys))
	for _, k := range keys {
		out = append(out, OutputAsset{Key: k, Content: m.assets[k]})
	}
	return out
}
