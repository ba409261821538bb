package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// Buy fills a listing at its asked price. The buyer states the quote and
// price they expect so a concurrently repriced ask cannot settle on stale
// terms. The fingerprint is checked against the asset when its collection
// requires it.
type Buy struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Quote       entry.AccountID `json:"quote"`
	Price       uint64          `json:"price"`
	Fingerprint []byte          `json:"fingerprint,omitempty"`
}

func init() {
	tx.Register(tx.TypeBuy, func() tx.Transaction { return &Buy{} })
}

// TxType returns the transaction type.
func (b *Buy) TxType() tx.Type { return tx.TypeBuy }

// Validate checks the buy fields.
func (b *Buy) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if b.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if b.Price == 0 {
		return errors.New("temBAD_PRICE: zero price")
	}
	return nil
}

// Apply settles the sale.
func (b *Buy) Apply(ctx *tx.ApplyContext) tx.Result {
	askKey := keylet.Ask(b.Collection, b.TokenID)
	data, err := ctx.View.Read(askKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNOT_LISTED
	}
	ask, err := entry.ParseAsk(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if ask.Seller == b.Account {
		return tx.TecNO_PERMISSION
	}
	if ask.Quote != b.Quote {
		return tx.TecWRONG_QUOTE
	}
	if ask.Price != b.Price {
		return tx.TecWRONG_PRICE
	}

	token, err := tx.ReadToken(ctx.View, b.Collection, b.TokenID)
	if err != nil || token == nil {
		return tx.TefINTERNAL
	}
	if res := tx.CheckFingerprint(ctx.View, token, b.Fingerprint); res != tx.TesSUCCESS {
		return res
	}

	if res := tx.SettleSale(ctx, b.Account, ask.Seller, b.Collection, b.TokenID, ask.Quote, ask.Price); res != tx.TesSUCCESS {
		return res
	}
	if res := tx.TransferToken(ctx.View, token, b.Account); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(askKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
