// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/buffet-search/pkg/types"
)

func newTestCache(t *testing.T, cfg types.CacheConfig) (*Cache[string], *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	c, err := New[string](cfg, clock)
	require.NoError(t, err)
	return c, clock
}

func TestNewRejectsInvalidSizing(t *testing.T) {
	_, err := New[string](types.CacheConfig{TTL: 0, MaxEntries: 10}, nil)
	assert.Error(t, err)

	_, err = New[string](types.CacheConfig{TTL: time.Minute, MaxEntries: 0}, nil)
	assert.Error(t, err)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t, types.DefaultResultCache)

	v, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, v)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(t, types.DefaultResultCache)

	c.Set("k", "v1")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	c.Set("k", "v2")
	v, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, c.Len())
}

func TestCapacityEvictsOldest(t *testing.T) {
	c, _ := newTestCache(t, types.DefaultResultCache)

	for i := 1; i <= 51; i++ {
		c.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("v%d", i))
		assert.LessOrEqual(t, c.Len(), 50, "capacity exceeded after set %d", i)
	}

	_, ok := c.Get("key-1")
	assert.False(t, ok, "first key should be evicted")
	_, ok = c.Get("key-2")
	assert.True(t, ok)
	_, ok = c.Get("key-51")
	assert.True(t, ok, "newest key should be present")
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestHitRefreshesRecency(t *testing.T) {
	c, _ := newTestCache(t, types.CacheConfig{TTL: time.Minute, MaxEntries: 3})

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", "4")

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used and should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok, "a was read before the insert and should survive")
	assert.Equal(t, []string{"c", "d", "a"}, c.Keys())
}

func TestTTLBoundary(t *testing.T) {
	ttl := 60 * time.Second
	c, clock := newTestCache(t, types.CacheConfig{TTL: ttl, MaxEntries: 50})

	c.Set("k", "v")

	clock.Advance(ttl - time.Millisecond)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should be present just before the TTL")

	clock.Advance(2 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should be absent just after the TTL")
	assert.Equal(t, 0, c.Len(), "expired entry should be deleted on read")
}

func TestHitDoesNotExtendTTL(t *testing.T) {
	ttl := time.Hour
	c, clock := newTestCache(t, types.CacheConfig{TTL: ttl, MaxEntries: 20})

	c.Set("k", "v")
	clock.Advance(50 * time.Minute)
	_, ok := c.Get("k")
	require.True(t, ok)

	clock.Advance(11 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestInstancesAreIsolated(t *testing.T) {
	clock := clockwork.NewFakeClock()
	results := NewResultCache(clock)
	suggestions := NewSuggestionCache(clock)

	results.Set("shared-key", types.ResultBundle{Query: "dragon"})

	_, ok := suggestions.Get("shared-key")
	assert.False(t, ok)
	assert.Equal(t, 0, suggestions.Len())
}

func TestPurgeAndStats(t *testing.T) {
	c, _ := newTestCache(t, types.DefaultSuggestionCache)

	c.Set("a", "1")
	c.Get("a")
	c.Get("b")
	c.Purge()

	assert.Equal(t, Stats{Entries: 0, Hits: 1, Misses: 1}, c.Stats())
}

func TestResultKey(t *testing.T) {
	base := ResultKey("dragon", 8, "dallas-tx")

	assert.Equal(t, base, ResultKey("  Dragon ", 8, "Dallas-TX"), "case and padding must not matter")
	assert.NotEqual(t, base, ResultKey("dragon", 10, "dallas-tx"), "limit is part of the key")
	assert.NotEqual(t, base, ResultKey("dragon", 8, ""), "scope is part of the key")
	assert.NotEqual(t, base, ResultKey("dragon", 8, "austin-tx"))
}

func TestResultKeyEscapesSeparators(t *testing.T) {
	forged := ResultKey("dragon&city=dallas-tx", 8, "")
	assert.NotEqual(t, ResultKey("dragon", 8, "dallas-tx"), forged)
}

func TestSuggestionKey(t *testing.T) {
	assert.Equal(t, "suggestions", SuggestionKey(""))
	assert.Equal(t, SuggestionKey("dallas-tx"), SuggestionKey(" Dallas-TX "))
	assert.NotEqual(t, SuggestionKey("dallas-tx"), SuggestionKey(""))
	assert.NotEqual(t, SuggestionKey("dallas-tx"), ResultKey("", 8, "dallas-tx"))
}
