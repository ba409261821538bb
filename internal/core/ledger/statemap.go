package ledger

import (
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// StateMap is the in-memory ledger state. It is the base view in standalone
// mode and in tests; the engine never hands it to transactions directly, all
// writes arrive through an ApplyStateTable commit.
type StateMap struct {
	mu    sync.RWMutex
	items map[[32]byte][]byte
}

// NewStateMap creates an empty state map.
func NewStateMap() *StateMap {
	return &StateMap{items: make(map[[32]byte][]byte)}
}

// Read returns the entry bytes, or nil if absent.
func (s *StateMap) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[k.Key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists reports whether the entry is present.
func (s *StateMap) Exists(k keylet.Keylet) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[k.Key]
	return ok, nil
}

// Insert adds a new entry.
func (s *StateMap) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[k.Key]; ok {
		return ErrAlreadyExists
	}
	s.items[k.Key] = append([]byte(nil), data...)
	return nil
}

// Update replaces an existing entry.
func (s *StateMap) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[k.Key]; !ok {
		return ErrNotFound
	}
	s.items[k.Key] = append([]byte(nil), data...)
	return nil
}

// Erase removes an existing entry.
func (s *StateMap) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[k.Key]; !ok {
		return ErrNotFound
	}
	delete(s.items, k.Key)
	return nil
}

// ApplyBatch applies a committed change set under one lock.
func (s *StateMap) ApplyBatch(changes []Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range changes {
		if c.Erase {
			delete(s.items, c.Keylet.Key)
		} else {
			s.items[c.Keylet.Key] = append([]byte(nil), c.Data...)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (s *StateMap) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
