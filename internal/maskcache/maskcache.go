// Package maskcache caches built background masks keyed by image version.
//
// Mask construction is an O(w·h) pass that runs whenever an image is
// loaded. Users frequently reopen the same sketch (picking a different
// color, reopening from the gallery), so the service keeps recently built
// masks in a sharded LRU cache. A cached mask is only ever returned for the
// exact version key it was built from; geometry changes produce a new key.
package maskcache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"

	coloring "github.com/jaehwan-AI/coloring-web"
)

const (
	// shardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 16

	shardMask = shardCount - 1

	// DefaultCapacity is the default maximum masks retained per shard.
	// Masks are w*h bytes each, so the cap is deliberately small.
	DefaultCapacity = 8
)

// Cache is a thread-safe, sharded LRU cache of background masks.
type Cache struct {
	shards   [shardCount]*shard
	capacity int // per-shard capacity

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lru     *lruList
}

type entry struct {
	mask coloring.Mask
	node *lruNode
}

// New creates a cache retaining up to capacity masks per shard.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[string]*entry),
			lru:     newLRUList(),
		}
	}
	return c
}

// hashKey computes the FNV-1a hash of a version key.
func hashKey(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

func (c *Cache) getShard(key string) *shard {
	return c.shards[hashKey(key)&shardMask]
}

// Get returns the cached mask for a version key.
// The returned mask must be treated as read-only; it may be shared between
// sessions of the same image.
func (c *Cache) Get(key string) (coloring.Mask, bool) {
	s := c.getShard(key)

	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	// LRU bump needs the write lock; re-check, the entry may have been
	// evicted in between.
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	s.lru.moveToFront(e.node)
	mask := e.mask
	s.mu.Unlock()

	c.hits.Add(1)
	return mask, true
}

// GetOrBuild returns the cached mask for key, building and caching it with
// build on a miss. The build function runs with the shard lock held so the
// same mask is never built twice concurrently.
func (c *Cache) GetOrBuild(key string, build func() coloring.Mask) coloring.Mask {
	if m, ok := c.Get(key); ok {
		return m
	}

	s := c.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.lru.moveToFront(e.node)
		c.hits.Add(1)
		return e.mask
	}

	// The miss was already counted by the Get above.
	mask := build()
	c.insertLocked(s, key, mask)
	return mask
}

// Set stores a mask for a version key, evicting the least recently used
// entries of the shard when over capacity.
func (c *Cache) Set(key string, mask coloring.Mask) {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.mask = mask
		s.lru.moveToFront(e.node)
		return
	}
	c.insertLocked(s, key, mask)
}

func (c *Cache) insertLocked(s *shard, key string, mask coloring.Mask) {
	for s.lru.len >= c.capacity {
		oldest, ok := s.lru.removeOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry{mask: mask, node: s.lru.pushFront(key)}
}

// Invalidate drops the mask for a version key, reporting whether one was
// cached. Call this when the source image behind a key is overwritten.
func (c *Cache) Invalidate(key string) bool {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.remove(e.node)
	delete(s.entries, key)
	return true
}

// Len returns the total number of cached masks across all shards.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Stats holds cache counters, read atomically.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
