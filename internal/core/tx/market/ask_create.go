// Package market implements the whole-asset book: fixed price asks, direct
// buys, and escrowed bids.
package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AskCreate lists a whole asset at a fixed price. The asset moves into
// market escrow for the lifetime of the ask, so an asset can carry at most
// one ask at a time.
type AskCreate struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Quote      entry.AccountID `json:"quote"`
	Price      uint64          `json:"price"`
}

func init() {
	tx.Register(tx.TypeAskCreate, func() tx.Transaction { return &AskCreate{} })
}

// TxType returns the transaction type.
func (a *AskCreate) TxType() tx.Type { return tx.TypeAskCreate }

// Validate checks the listing fields.
func (a *AskCreate) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if a.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if a.Price == 0 {
		return errors.New("temBAD_PRICE: zero price")
	}
	return nil
}

// Apply escrows the asset and creates the ask.
func (a *AskCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	token, err := tx.ReadToken(ctx.View, a.Collection, a.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if token == nil {
		return tx.TecNO_ENTRY
	}
	if token.Owner == entry.MarketAccount {
		return tx.TecNO_CUSTODY
	}
	if !tx.CanOperate(token, a.Account) {
		return tx.TecNO_CUSTODY
	}

	askKey := keylet.Ask(a.Collection, a.TokenID)
	exists, err := ctx.View.Exists(askKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}

	seller := token.Owner
	if res := tx.TransferToken(ctx.View, token, entry.MarketAccount); res != tx.TesSUCCESS {
		return res
	}

	data, err := entry.SerializeAsk(&entry.Ask{
		Collection: a.Collection,
		TokenID:    a.TokenID,
		Seller:     seller,
		Quote:      a.Quote,
		Price:      a.Price,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(askKey, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
