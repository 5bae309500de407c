package videos

import (
	"sync"
	"time"
)

// ListCache keeps the most recent non-empty first page so a failed refresh
// can fall back to it. Deeper pages are never stored.
type ListCache struct {
	updatedAt time.Time
	items     []*Video
	mu        sync.RWMutex
}

// NewListCache creates an empty list cache.
func NewListCache() *ListCache {
	return &ListCache{}
}

// Get returns a copy of the cached items and when they were stored.
// ok is false when the cache is empty.
func (c *ListCache) Get() (items []*Video, updatedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.items) == 0 {
		return nil, time.Time{}, false
	}
	out := make([]*Video, len(c.items))
	copy(out, c.items)
	return out, c.updatedAt, true
}

// Set replaces the cached page. Empty pages are ignored.
func (c *ListCache) Set(items []*Video) {
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]*Video, len(items))
	copy(c.items, items)
	c.updatedAt = time.Now()
}

// Clear empties the cache.
func (c *ListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.updatedAt = time.Time{}
}
