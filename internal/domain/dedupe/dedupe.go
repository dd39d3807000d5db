// Package dedupe tracks submission IDs so a resubmitted form is stored once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxSize is the number of IDs kept when no size is configured.
const DefaultMaxSize = 10000

// Deduper records seen submission IDs.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not. The check and the write happen under one lock.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a submission whose append failed can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps IDs in insertion order and evicts the oldest once
// maxSize is reached. maxSize <= 0 keeps every ID.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: DefaultMaxSize,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(string))
	}
	d.seen[id] = d.order.PushBack(id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[id]; ok {
		d.order.Remove(el)
		delete(d.seen, id)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
