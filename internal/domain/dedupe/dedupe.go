// Package dedupe tracks identifiers that already have work in flight.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records pending IDs so the same work is queued at most once.
type Deduper interface {
	// SeenAndRecord atomically checks if id is pending and records it if not.
	// Returns true if id was already pending, false if it was newly recorded.
	// A full deduper reports every unknown id as seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Contains reports whether id is pending.
	Contains(ctx context.Context, id string) bool

	// Unrecord removes id so it can be recorded again.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	maxSize int // 0 or negative = unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		return true
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Contains reports whether id is in the pending set.
func (d *inMemoryDeduper) Contains(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, exists := d.seen[id]
	return exists
}

// Unrecord removes id from the pending set.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// Size returns the current number of pending IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
