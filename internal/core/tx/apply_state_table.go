package tx

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// Action describes what happened to a tracked entry inside the buffer.
type Action int

const (
	// ActionCache means the entry was only read.
	ActionCache Action = iota
	// ActionInsert means the entry is new in this transaction.
	ActionInsert
	// ActionModify means an existing entry was changed.
	ActionModify
	// ActionErase means an existing entry was deleted.
	ActionErase
)

// TrackedEntry is one entry touched during Apply.
type TrackedEntry struct {
	Keylet keylet.Keylet
	Action Action
	Data   []byte
}

// ApplyStateTable buffers every read and write a transaction makes so the
// whole set can be committed atomically, or dropped on failure. It
// implements ledger.View.
type ApplyStateTable struct {
	base    ledger.View
	entries map[[32]byte]*TrackedEntry
	order   [][32]byte
}

// NewApplyStateTable creates an empty buffer over the base view.
func NewApplyStateTable(base ledger.View) *ApplyStateTable {
	return &ApplyStateTable{
		base:    base,
		entries: make(map[[32]byte]*TrackedEntry),
	}
}

func (t *ApplyStateTable) track(k keylet.Keylet, action Action, data []byte) *TrackedEntry {
	e, ok := t.entries[k.Key]
	if !ok {
		e = &TrackedEntry{Keylet: k}
		t.entries[k.Key] = e
		t.order = append(t.order, k.Key)
	}
	e.Action = action
	e.Data = data
	return e
}

// Read returns the buffered entry if touched, otherwise reads through to the
// base view and caches the result.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if e, ok := t.entries[k.Key]; ok {
		if e.Action == ActionErase {
			return nil, nil
		}
		out := make([]byte, len(e.Data))
		copy(out, e.Data)
		return out, nil
	}
	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	t.track(k, ActionCache, data)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists reports whether the entry is visible through the buffer.
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	data, err := t.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert adds a new entry to the buffer.
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ledger.ErrAlreadyExists
	}
	if e, ok := t.entries[k.Key]; ok && e.Action == ActionErase {
		// Erased earlier in the same transaction, so the base still
		// holds it. Re-creating it is a modify on commit.
		t.track(k, ActionModify, append([]byte(nil), data...))
		return nil
	}
	t.track(k, ActionInsert, append([]byte(nil), data...))
	return nil
}

// Update replaces an existing entry in the buffer.
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return ledger.ErrNotFound
	}
	e := t.entries[k.Key]
	if e.Action == ActionInsert {
		e.Data = append([]byte(nil), data...)
		return nil
	}
	t.track(k, ActionModify, append([]byte(nil), data...))
	return nil
}

// Erase removes an existing entry from the buffer.
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return ledger.ErrNotFound
	}
	e := t.entries[k.Key]
	if e.Action == ActionInsert {
		// Never reached the base view, just forget it.
		delete(t.entries, k.Key)
		return nil
	}
	t.track(k, ActionErase, nil)
	return nil
}

// Commit flushes all buffered changes to the base view in touch order. A
// base that supports batching gets the whole change set in one atomic
// write; otherwise entries are written one at a time.
func (t *ApplyStateTable) Commit() error {
	if b, ok := t.base.(ledger.Batcher); ok {
		changes := make([]ledger.Change, 0, len(t.order))
		for _, key := range t.order {
			e, ok := t.entries[key]
			if !ok || e.Action == ActionCache {
				continue
			}
			changes = append(changes, ledger.Change{
				Keylet: e.Keylet,
				Erase:  e.Action == ActionErase,
				Data:   e.Data,
			})
		}
		if len(changes) == 0 {
			return nil
		}
		if err := b.ApplyBatch(changes); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		return nil
	}
	for _, key := range t.order {
		e, ok := t.entries[key]
		if !ok {
			continue
		}
		var err error
		switch e.Action {
		case ActionCache:
			// Read only.
		case ActionInsert:
			err = t.base.Insert(e.Keylet, e.Data)
		case ActionModify:
			err = t.base.Update(e.Keylet, e.Data)
		case ActionErase:
			err = t.base.Erase(e.Keylet)
		}
		if err != nil {
			return fmt.Errorf("commit %s: %w", e.Keylet.Type, err)
		}
	}
	return nil
}

// Changes returns the buffered entries that would be written on commit, in
// touch order. Read-only entries are skipped.
func (t *ApplyStateTable) Changes() []TrackedEntry {
	out := make([]TrackedEntry, 0, len(t.order))
	for _, key := range t.order {
		e, ok := t.entries[key]
		if !ok || e.Action == ActionCache {
			continue
		}
		out = append(out, *e)
	}
	return out
}
