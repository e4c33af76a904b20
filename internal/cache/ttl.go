// Package cache provides a small in-memory LRU cache with TTL expiry. Entries
// never outlive the process.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxEntries = 256
	defaultTTL        = time.Minute
)

// TTL is a concurrency-safe LRU cache whose entries expire after a fixed age.
// It wraps expirable.LRU and counts hits and misses.
type TTL[K comparable, V any] struct {
	lru        *expirable.LRU[K, V]
	maxEntries int
	ttl        time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache occupancy and effectiveness.
type Stats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// New returns a cache holding at most maxEntries values for ttl each.
// Non-positive arguments fall back to 256 entries and one minute.
func New[K comparable, V any](maxEntries int, ttl time.Duration) *TTL[K, V] {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TTL[K, V]{
		lru:        expirable.NewLRU[K, V](maxEntries, nil, ttl),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached value for key. Expired entries count as misses.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return v, false
	}
	c.hits.Add(1)
	return v, true
}

// Put stores value under key, evicting the least recently used entry when full.
// Overwriting a key restarts its TTL.
func (c *TTL[K, V]) Put(key K, value V) {
	c.lru.Add(key, value)
}

// Delete removes key if present.
func (c *TTL[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Len returns the number of stored entries. Expired entries may count until
// the background sweep drops them.
func (c *TTL[K, V]) Len() int {
	return c.lru.Len()
}

// Stats returns a point-in-time view of cache counters.
func (c *TTL[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Entries:    c.Len(),
		MaxEntries: c.maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    rate,
	}
}
