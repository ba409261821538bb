package fractional

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// UnitBuy fills part or all of a fractional listing. The buyer restates the
// per-unit price and quote so a repriced ask cannot settle on stale terms.
// A fill that drains the ask removes it.
type UnitBuy struct {
	tx.BaseTx
	Collection   entry.AccountID `json:"collection"`
	TokenID      uint64          `json:"token_id"`
	Seller       entry.AccountID `json:"seller"`
	Quote        entry.AccountID `json:"quote"`
	PricePerUnit uint64          `json:"price_per_unit"`
	Quantity     uint64          `json:"quantity"`
}

func init() {
	tx.Register(tx.TypeUnitBuy, func() tx.Transaction { return &UnitBuy{} })
}

// TxType returns the transaction type.
func (b *UnitBuy) TxType() tx.Type { return tx.TypeUnitBuy }

// Validate checks the buy fields.
func (b *UnitBuy) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if b.Seller.IsZero() {
		return errors.New("temINVALID: missing seller")
	}
	if b.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if b.PricePerUnit == 0 {
		return errors.New("temBAD_PRICE: zero unit price")
	}
	if b.Quantity == 0 {
		return errors.New("temBAD_QUANTITY: zero quantity")
	}
	if b.Quantity > math.MaxUint64/b.PricePerUnit {
		return errors.New("temBAD_AMOUNT: total price overflows")
	}
	return nil
}

// Apply settles the fill.
func (b *UnitBuy) Apply(ctx *tx.ApplyContext) tx.Result {
	if b.Seller == b.Account {
		return tx.TecNO_PERMISSION
	}

	askKey := keylet.UnitAsk(b.Collection, b.TokenID, b.Seller)
	data, err := ctx.View.Read(askKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNOT_LISTED
	}
	ask, err := entry.ParseUnitAsk(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if ask.Quote != b.Quote {
		return tx.TecWRONG_QUOTE
	}
	if ask.PricePerUnit != b.PricePerUnit {
		return tx.TecWRONG_PRICE
	}
	if ask.Quantity < b.Quantity {
		return tx.TecINSUFFICIENT_QUANTITY
	}

	total := b.PricePerUnit * b.Quantity
	if res := tx.SettleSale(ctx, b.Account, ask.Seller, b.Collection, b.TokenID, ask.Quote, total); res != tx.TesSUCCESS {
		return res
	}
	if res := tx.MoveUnits(ctx.View, b.Collection, b.TokenID, entry.MarketAccount, b.Account, b.Quantity); res != tx.TesSUCCESS {
		return res
	}

	ask.Quantity -= b.Quantity
	if ask.Quantity == 0 {
		if err := ctx.View.Erase(askKey); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}
	out, err := entry.SerializeUnitAsk(ask)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(askKey, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
