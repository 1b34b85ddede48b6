package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the record in memory. The zero value is ready to use.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *Record
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the held record.
func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

// Read returns the held record or ErrNotFound.
func (m *MemoryStore) Read(_ context.Context) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil {
		return Record{}, ErrNotFound
	}
	return *m.rec, nil
}

// Clear drops the held record.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
