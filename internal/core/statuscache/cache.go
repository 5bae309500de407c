// Package statuscache holds a bounded-staleness shadow of per-viewer
// relationship state (liked? subscribed?) so list rendering does not re-query
// the store for every item.
package statuscache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultFreshness is how long an entry is trusted without re-validation.
	DefaultFreshness = 5 * time.Minute

	// DefaultMaxEntries bounds memory for long-lived sessions.
	DefaultMaxEntries = 10000
)

// State tags where an entry sits in an optimistic mutation.
type State int

const (
	// StateTentative is written before the remote call returns.
	StateTentative State = iota + 1
	// StateConfirmed is written after the store agreed (or was read directly).
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateTentative:
		return "tentative"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Entry is one cached relationship status.
type Entry struct {
	WrittenAt time.Time
	State     State
	Value     bool
}

// record pairs an entry with the write sequence number that produced it.
type record struct {
	entry   Entry
	version uint64
}

// Cache is a key -> boolean status map with a fixed freshness window.
// Entries at or beyond the window are treated as absent. Mutation writes are
// last-write-wins; read-through writes go through ConfirmSince and never
// replace a newer entry.
type Cache struct {
	entries   *lru.Cache[string, record]
	now       func() time.Time
	logger    *slog.Logger
	freshness time.Duration
	version   uint64
	// removedAt is the sequence number of the last Invalidate or Clear.
	removedAt uint64
	mu        sync.Mutex
}

// New creates a cache. A non-positive freshness or size falls back to the defaults.
func New(freshness time.Duration, maxEntries int, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	entries, err := lru.New[string, record](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create status cache: %w", err)
	}

	return &Cache{
		entries:   entries,
		freshness: freshness,
		now:       time.Now,
		logger:    logger,
	}, nil
}

// Read returns the entry for key, or false if it is missing or stale.
// Stale entries are dropped on read.
func (c *Cache) Read(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries.Get(key)
	if !ok {
		c.logger.Debug("status cache miss", "key", key)
		return Entry{}, false
	}

	if c.now().Sub(rec.entry.WrittenAt) >= c.freshness {
		c.entries.Remove(key)
		c.logger.Debug("status cache entry expired",
			"key", key,
			"written_at", rec.entry.WrittenAt)
		return Entry{}, false
	}

	return rec.entry, true
}

// Tentative records value as an optimistic, unconfirmed status.
func (c *Cache) Tentative(key string, value bool) {
	c.write(key, value, StateTentative)
}

// Confirm records value as agreed with the store.
func (c *Cache) Confirm(key string, value bool) {
	c.write(key, value, StateConfirmed)
}

// Mark returns the current write sequence number. Take it before a store
// read and pass it to ConfirmSince when the read returns.
func (c *Cache) Mark() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// ConfirmSince records value as confirmed unless key was written or
// invalidated after mark. It reports whether the value was stored.
func (c *Cache) ConfirmSince(key string, value bool, mark uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.entries.Peek(key); ok && rec.version > mark {
		c.logger.Debug("stale read-through discarded",
			"key", key,
			"value", value)
		return false
	}
	if c.removedAt > mark {
		c.logger.Debug("read-through discarded after invalidation", "key", key)
		return false
	}

	c.writeLocked(key, value, StateConfirmed)
	return true
}

// write overwrites unconditionally and stamps the current time.
func (c *Cache) write(key string, value bool, state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLocked(key, value, state)
}

func (c *Cache) writeLocked(key string, value bool, state State) {
	c.version++
	c.entries.Add(key, record{
		entry: Entry{
			Value:     value,
			State:     state,
			WrittenAt: c.now(),
		},
		version: c.version,
	})

	c.logger.Debug("status cached",
		"key", key,
		"value", value,
		"state", state.String())
}

// Invalidate removes key so the next read goes to the store.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.removedAt = c.version
	if c.entries.Remove(key) {
		c.logger.Debug("status cache invalidated", "key", key)
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.removedAt = c.version
	c.entries.Purge()
}

// Len returns the number of entries held, including stale ones not yet read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Freshness returns the configured freshness window.
func (c *Cache) Freshness() time.Duration {
	return c.freshness
}
