package coloring

import "sync"

// snapshotPool recycles undo snapshot buffers, grouped by byte length.
// Taps are frequent and snapshots are w*h*4 bytes each, so reuse keeps the
// interactive path free of large allocations.
//
// Thread safety: all methods are safe for concurrent use, so sessions for
// different images can share one pool.
type snapshotPool struct {
	mu      sync.Mutex
	buckets map[int][][]uint8
	maxSize int // max buffers retained per bucket
}

// newSnapshotPool creates a pool retaining at most maxPerBucket buffers of
// each size. A maxPerBucket of 0 means unlimited.
func newSnapshotPool(maxPerBucket int) *snapshotPool {
	return &snapshotPool{
		buckets: make(map[int][][]uint8),
		maxSize: maxPerBucket,
	}
}

// get returns a buffer of exactly n bytes, reusing a pooled one if
// available. Contents are unspecified; callers overwrite the whole buffer.
func (p *snapshotPool) get(n int) []uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if len(bucket) == 0 {
		return make([]uint8, n)
	}
	buf := bucket[len(bucket)-1]
	p.buckets[n] = bucket[:len(bucket)-1]
	return buf
}

// put returns a buffer to the pool for reuse.
// Buffers beyond the per-bucket limit are dropped for the GC.
func (p *snapshotPool) put(buf []uint8) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(buf)
	if p.maxSize > 0 && len(p.buckets[n]) >= p.maxSize {
		return
	}
	p.buckets[n] = append(p.buckets[n], buf)
}
