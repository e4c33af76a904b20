package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTL_GetPut(t *testing.T) {
	c := New[string, int](10, time.Hour)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestTTL_Expiry(t *testing.T) {
	c := New[string, string](10, 20*time.Millisecond)

	c.Put("k", "v")
	_, ok := c.Get("k")
	assert.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, c.Stats().Misses, int64(1))
}

func TestTTL_PutRefreshesExpiry(t *testing.T) {
	c := New[string, int](10, time.Hour)
	c.Put("k", 1)
	c.Put("k", 2)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3, time.Hour)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touch "a" so "b" becomes the oldest.
	c.Get("a")
	c.Put("d", 4)

	_, ok := c.Get("b")
	assert.False(t, ok)
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestTTL_Delete(t *testing.T) {
	c := New[int, int](3, time.Hour)
	c.Put(1, 1)
	c.Delete(1)
	c.Delete(2)
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestTTL_Stats(t *testing.T) {
	c := New[string, int](5, time.Hour)
	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	assert.Equal(t, 1, s.Entries)
	assert.Equal(t, 5, s.MaxEntries)
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 2.0/3.0, s.HitRate, 1e-9)
}

func TestTTL_Defaults(t *testing.T) {
	c := New[string, int](0, 0)
	assert.Equal(t, 256, c.maxEntries)
	assert.Equal(t, time.Minute, c.ttl)
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := New[string, int](50, time.Hour)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*j)%80)
				c.Put(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
