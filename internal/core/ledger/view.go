// Package ledger holds the marketplace state map and the view interface the
// transaction engine applies changes through.
package ledger

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

var (
	// ErrNotFound is returned by Update/Erase when the entry does not exist.
	ErrNotFound = errors.New("ledger entry not found")
	// ErrAlreadyExists is returned by Insert when the entry exists.
	ErrAlreadyExists = errors.New("ledger entry already exists")
)

// View provides read/write access to ledger state. Read returns (nil, nil)
// for a missing entry; Insert fails on an existing key, Update and Erase on
// a missing one.
type View interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
}

// Change is one mutation of a committed transaction.
type Change struct {
	Keylet keylet.Keylet
	Erase  bool
	Data   []byte
}

// Batcher is implemented by views that can land a set of changes atomically.
// The engine prefers it over per-entry writes when committing, so a crash
// mid-commit never leaves a half-applied transaction behind.
type Batcher interface {
	ApplyBatch(changes []Change) error
}
