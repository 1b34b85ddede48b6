package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/pharmakit/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_Basic(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		c := cache.New[string, int](3, 0)

		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get non-existent", func(t *testing.T) {
		c := cache.New[string, int](3, 0)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
	})

	t.Run("update existing", func(t *testing.T) {
		c := cache.New[string, int](3, 0)

		c.Put("a", 1)
		c.Put("a", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		c := cache.New[string, int](3, 0)
		c.Put("a", 1)
		c.Put("b", 2)

		assert.True(t, c.Remove("a"))
		assert.False(t, c.Remove("a"))

		c.Clear()
		assert.Zero(t, c.Len())
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		assert.Panics(t, func() { cache.New[string, int](0, time.Minute) })
	})
}

func TestCache_Eviction(t *testing.T) {
	c := cache.New[string, int](2, 0)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := cache.New[string, int](10, time.Minute)
	c.SetClock(clock.Now)

	c.Put("a", 1)
	clock.Advance(30 * time.Second)
	c.Put("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(30 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry at exactly the ttl is expired")
	assert.Equal(t, 1, c.Len(), "expired entry dropped on access")

	c.Put("b", 3)
	clock.Advance(59 * time.Second)
	val, ok := c.Get("b")
	assert.True(t, ok, "put restarts the ttl")
	assert.Equal(t, 3, val)

	c.Put("c", 4)
	clock.Advance(time.Second)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := cache.New[string, int](50, time.Minute)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (i*j)%80)
				c.Put(key, j)
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
