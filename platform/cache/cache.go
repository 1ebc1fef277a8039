// Package cache provides an in-process key/value store with per-entry expiry.
// It exists to avoid repeat calls to external services for identical queries.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a thread-safe TTL store. Entries are evicted lazily on the next
// read past their expiry; there is no background sweep.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	clock      clockwork.Clock
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock swaps the time source, letting tests freeze and advance time.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// New creates a cache whose Set uses defaultTTL for expiry.
func New(defaultTTL time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key, or false if the key is absent or
// expired. An expired entry is deleted on the way out.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. A TTL of zero or less
// produces an entry that is already expired on the next read.
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
