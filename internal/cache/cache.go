// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes search service responses in memory. Entries expire
// a fixed TTL after insertion and the cache holds at most MaxEntries,
// evicting the least recently used entry first.
//
// A Cache is safe for concurrent use. Several search boxes may share one
// instance; keys are self-describing (see ResultKey) so sharing is safe.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/buffet-search/pkg/types"
)

// Cache is a bounded TTL cache keyed by string.
type Cache[V any] struct {
	mu    sync.Mutex
	lru   *simplelru.LRU[string, entry[V]]
	ttl   time.Duration
	clock clockwork.Clock

	hits      int64
	misses    int64
	evictions int64
}

type entry[V any] struct {
	insertedAt time.Time
	payload    V
}

// Stats reports cache size and effectiveness counters.
type Stats struct {
	Entries   int   `json:"entries" yaml:"entries"`
	Hits      int64 `json:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" yaml:"misses"`
	Evictions int64 `json:"evictions" yaml:"evictions"`
}

// New creates a cache sized by cfg. A nil clock selects the real clock.
func New[V any](cfg types.CacheConfig, clock clockwork.Clock) (*Cache[V], error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %v", cfg.TTL)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &Cache[V]{ttl: cfg.TTL, clock: clock}
	lru, err := simplelru.NewLRU[string, entry[V]](cfg.MaxEntries, nil)
	if err != nil {
		return nil, fmt.Errorf("creating LRU with %d entries: %w", cfg.MaxEntries, err)
	}
	c.lru = lru
	return c, nil
}

// NewResultCache creates a search result cache with the default sizing
// (60s TTL, 50 entries).
func NewResultCache(clock clockwork.Clock) *Cache[types.ResultBundle] {
	c, err := New[types.ResultBundle](types.DefaultResultCache, clock)
	if err != nil {
		panic(err)
	}
	return c
}

// NewSuggestionCache creates a popular-suggestion cache with the default
// sizing (1h TTL, 20 entries).
func NewSuggestionCache(clock clockwork.Clock) *Cache[types.SuggestionBundle] {
	c, err := New[types.SuggestionBundle](types.DefaultSuggestionCache, clock)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the payload stored under key. An entry older than the TTL is
// deleted and reported as absent. A hit makes the entry the most recently
// used; its age is still measured from insertion.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.lru.Peek(key)
	if !ok {
		c.misses++
		return zero, false
	}
	if c.clock.Since(e.insertedAt) > c.ttl {
		c.lru.Remove(key)
		c.misses++
		return zero, false
	}
	c.lru.Get(key)
	c.hits++
	return e.payload, true
}

// Set stores payload under key as the most recently used entry. If the
// cache is over capacity afterwards, the least recently used entry is evicted.
func (c *Cache[V]) Set(key string, payload V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lru.Add(key, entry[V]{insertedAt: c.clock.Now(), payload: payload}) {
		c.evictions++
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys returns the stored keys from least to most recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Purge removes every entry. Counters are kept.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   c.lru.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
