package maskcache

import (
	"fmt"
	"sync"
	"testing"

	coloring "github.com/jaehwan-AI/coloring-web"
)

func maskOf(v uint8, n int) coloring.Mask {
	m := make(coloring.Mask, n)
	for i := range m {
		m[i] = v
	}
	return m
}

func TestGetSet(t *testing.T) {
	c := New(4)

	if _, ok := c.Get("a.png:10x10"); ok {
		t.Fatal("hit on empty cache")
	}

	want := maskOf(1, 100)
	c.Set("a.png:10x10", want)

	got, ok := c.Get("a.png:10x10")
	if !ok {
		t.Fatal("miss after Set")
	}
	if len(got) != 100 || got[0] != 1 {
		t.Errorf("got wrong mask back: len=%d", len(got))
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Len != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, len 1", stats)
	}
}

func TestGetOrBuild(t *testing.T) {
	c := New(4)
	builds := 0
	build := func() coloring.Mask {
		builds++
		return maskOf(1, 16)
	}

	c.GetOrBuild("k", build)
	c.GetOrBuild("k", build)
	if builds != 1 {
		t.Errorf("build ran %d times, want 1", builds)
	}

	// One build and one cached return: exactly one miss, one hit.
	stats := c.Stats()
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
	if stats.Hits != 1 {
		t.Errorf("hits = %d, want 1", stats.Hits)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(4)
	c.Set("k", maskOf(1, 4))

	if !c.Invalidate("k") {
		t.Error("Invalidate missed a cached key")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("mask still cached after Invalidate")
	}
	if c.Invalidate("k") {
		t.Error("Invalidate reported success for an absent key")
	}
}

func TestEviction(t *testing.T) {
	// Capacity 1 per shard: a second key landing in the same shard must
	// evict the first. Find two keys that share a shard.
	c := New(1)

	first := "key-0"
	var second string
	for i := 1; ; i++ {
		k := fmt.Sprintf("key-%d", i)
		if hashKey(k)&shardMask == hashKey(first)&shardMask {
			second = k
			break
		}
	}

	c.Set(first, maskOf(1, 4))
	c.Set(second, maskOf(2, 4))

	if _, ok := c.Get(first); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get(second); !ok {
		t.Error("newest entry was evicted")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestLRUOrder(t *testing.T) {
	c := New(2)

	first := "key-0"
	var sameShard []string
	for i := 1; len(sameShard) < 2; i++ {
		k := fmt.Sprintf("key-%d", i)
		if hashKey(k)&shardMask == hashKey(first)&shardMask {
			sameShard = append(sameShard, k)
		}
	}

	c.Set(first, maskOf(1, 4))
	c.Set(sameShard[0], maskOf(2, 4))
	c.Get(first) // bump: first is now most recent
	c.Set(sameShard[1], maskOf(3, 4))

	if _, ok := c.Get(first); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get(sameShard[0]); ok {
		t.Error("least recently used entry survived")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(8)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("img-%d", i%20)
				c.GetOrBuild(key, func() coloring.Mask { return maskOf(1, 8) })
				if i%17 == 0 {
					c.Invalidate(key)
				}
			}
		}(g)
	}
	wg.Wait()
}
