package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps rows in process memory. It backs tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []Row
	closed bool
}

// NewMemoryStore returns a store preloaded with rows.
func NewMemoryStore(rows ...Row) *MemoryStore {
	return &MemoryStore{rows: append([]Row(nil), rows...)}
}

func (s *MemoryStore) Append(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return append([]Row(nil), s.rows...), nil
}

func (s *MemoryStore) Backend() string { return "memory" }

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
