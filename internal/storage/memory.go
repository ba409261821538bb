package storage

import (
	"context"
	"sync"
)

// MemoryDB is an in-memory backend for standalone mode and tests.
type MemoryDB struct {
	mu     sync.RWMutex
	items  map[string][]byte
	closed bool
}

// NewMemoryDB creates an empty in-memory backend.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{items: make(map[string][]byte)}
}

// Read returns a copy of the stored value.
func (m *MemoryDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrDBClosed
	}
	val, ok := m.items[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Write stores a value.
func (m *MemoryDB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDBClosed
	}
	m.items[string(key)] = append([]byte(nil), value...)
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (m *MemoryDB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDBClosed
	}
	delete(m.items, string(key))
	return nil
}

// Batch applies all operations under one lock.
func (m *MemoryDB) Batch(ctx context.Context, ops []BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDBClosed
	}
	for _, op := range ops {
		switch op.Type {
		case BatchPut:
			m.items[string(op.Key)] = append([]byte(nil), op.Value...)
		case BatchDelete:
			delete(m.items, string(op.Key))
		}
	}
	return nil
}

// Close marks the backend closed.
func (m *MemoryDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
