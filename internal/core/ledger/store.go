package ledger

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/storage"
)

// Store is a persistent ledger state backed by a storage.DB with an LRU
// read cache in front. It satisfies View the same way StateMap does.
type Store struct {
	db    storage.DB
	cache *lru.Cache[[32]byte, []byte]
}

// NewStore wraps a storage backend. cacheSize is the number of decoded
// entries kept hot; 0 picks a default.
func NewStore(db storage.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	cache, err := lru.New[[32]byte, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// Read returns the entry bytes, or nil if absent.
func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	if data, ok := s.cache.Get(k.Key); ok {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	data, err := s.db.Read(context.Background(), k.Key[:])
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	s.cache.Add(k.Key, data)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists reports whether the entry is present.
func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert adds a new entry.
func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	exists, err := s.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	if err := s.db.Write(context.Background(), k.Key[:], data); err != nil {
		return err
	}
	s.cache.Add(k.Key, append([]byte(nil), data...))
	return nil
}

// Update replaces an existing entry.
func (s *Store) Update(k keylet.Keylet, data []byte) error {
	exists, err := s.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if err := s.db.Write(context.Background(), k.Key[:], data); err != nil {
		return err
	}
	s.cache.Add(k.Key, append([]byte(nil), data...))
	return nil
}

// ApplyBatch flushes a committed change set through a single storage batch.
// The cache is refreshed only after the batch lands.
func (s *Store) ApplyBatch(changes []Change) error {
	ops := make([]storage.BatchOperation, 0, len(changes))
	for _, c := range changes {
		if c.Erase {
			ops = append(ops, storage.BatchOperation{Type: storage.BatchDelete, Key: c.Keylet.Key[:]})
		} else {
			ops = append(ops, storage.BatchOperation{Type: storage.BatchPut, Key: c.Keylet.Key[:], Value: c.Data})
		}
	}
	if err := s.db.Batch(context.Background(), ops); err != nil {
		return err
	}
	for _, c := range changes {
		if c.Erase {
			s.cache.Remove(c.Keylet.Key)
		} else {
			s.cache.Add(c.Keylet.Key, append([]byte(nil), c.Data...))
		}
	}
	return nil
}

// Erase removes an existing entry.
func (s *Store) Erase(k keylet.Keylet) error {
	exists, err := s.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if err := s.db.Delete(context.Background(), k.Key[:]); err != nil {
		return err
	}
	s.cache.Remove(k.Key)
	return nil
}
