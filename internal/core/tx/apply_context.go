package tx

import (
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
)

// RoyaltyProvider computes royalty splits for collections that delegate
// instead of storing a local recipient table.
type RoyaltyProvider interface {
	// Royalties returns parallel recipient and rate slices for a sale of
	// the given token. Rates are in basis points of the sale price.
	Royalties(collection entry.AccountID, tokenID uint64, salePrice uint64) ([]entry.AccountID, []uint32, error)
}

// ApplyContext carries everything a transaction needs during Apply.
type ApplyContext struct {
	// View is the buffered state the transaction reads and writes.
	View *ApplyStateTable
	// Caller is the account performing the operation.
	Caller entry.AccountID
	// Now is the settlement timestamp, in Unix seconds, fixed for the
	// whole transaction.
	Now int64

	engine *Engine
}

// Provider looks up a registered royalty provider by name.
func (ctx *ApplyContext) Provider(name string) (RoyaltyProvider, bool) {
	if ctx.engine == nil {
		return nil, false
	}
	return ctx.engine.provider(name)
}
