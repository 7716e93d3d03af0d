package opentopo

import (
	"context"
	"fmt"
	"sync"

	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/risk"
)

// CachedProvider wraps an ElevationProvider with an in-memory LRU cache.
// Terrain is static, so entries never expire; the cache only bounds memory.
type CachedProvider struct {
	inner risk.ElevationProvider
	cache *lruCache
}

// NewCachedProvider creates a cache decorator around an elevation provider.
func NewCachedProvider(inner risk.ElevationProvider, maxEntries int) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedProvider) TerrainProfile(ctx context.Context, coord domain.Coordinate) (domain.TerrainProfile, error) {
	// ~11m resolution, well below the probe spacing.
	key := fmt.Sprintf("%.4f,%.4f", coord.Latitude, coord.Longitude)
	if profile, ok := c.cache.get(key); ok {
		return profile, nil
	}
	profile, err := c.inner.TerrainProfile(ctx, coord)
	if err != nil {
		return profile, err
	}
	c.cache.put(key, profile)
	return profile, nil
}

// lruCache is a simple thread-safe LRU cache for terrain profiles.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.TerrainProfile
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.TerrainProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.TerrainProfile{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.TerrainProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
