// Package fractional implements the book for semi-fungible assets: unit
// asks with partial fills and escrowed unit offers.
package fractional

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// UnitAskCreate lists a quantity of a fractional asset at a per-unit price.
// The units move into market escrow at creation. One ask per (asset, seller).
type UnitAskCreate struct {
	tx.BaseTx
	Collection   entry.AccountID `json:"collection"`
	TokenID      uint64          `json:"token_id"`
	Quote        entry.AccountID `json:"quote"`
	PricePerUnit uint64          `json:"price_per_unit"`
	Quantity     uint64          `json:"quantity"`
}

// UnitAskCancel withdraws a fractional listing and returns the remaining
// escrowed units.
type UnitAskCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

func init() {
	tx.Register(tx.TypeUnitAskCreate, func() tx.Transaction { return &UnitAskCreate{} })
	tx.Register(tx.TypeUnitAskCancel, func() tx.Transaction { return &UnitAskCancel{} })
}

// TxType returns the transaction type.
func (a *UnitAskCreate) TxType() tx.Type { return tx.TypeUnitAskCreate }

// Validate checks the listing fields.
func (a *UnitAskCreate) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if a.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if a.PricePerUnit == 0 {
		return errors.New("temBAD_PRICE: zero unit price")
	}
	if a.Quantity == 0 {
		return errors.New("temBAD_QUANTITY: zero quantity")
	}
	if a.Quantity > math.MaxUint64/a.PricePerUnit {
		return errors.New("temBAD_AMOUNT: total price overflows")
	}
	return nil
}

// Apply escrows the units and creates the ask.
func (a *UnitAskCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	askKey := keylet.UnitAsk(a.Collection, a.TokenID, a.Account)
	exists, err := ctx.View.Exists(askKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}

	if res := tx.MoveUnits(ctx.View, a.Collection, a.TokenID, a.Account, entry.MarketAccount, a.Quantity); res != tx.TesSUCCESS {
		return res
	}

	data, err := entry.SerializeUnitAsk(&entry.UnitAsk{
		Collection:   a.Collection,
		TokenID:      a.TokenID,
		Seller:       a.Account,
		Quote:        a.Quote,
		PricePerUnit: a.PricePerUnit,
		Quantity:     a.Quantity,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(askKey, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (a *UnitAskCancel) TxType() tx.Type { return tx.TypeUnitAskCancel }

// Validate checks the cancel fields.
func (a *UnitAskCancel) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply refunds the escrowed units and erases the ask.
func (a *UnitAskCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	askKey := keylet.UnitAsk(a.Collection, a.TokenID, a.Account)
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

	if res := tx.MoveUnits(ctx.View, a.Collection, a.TokenID, entry.MarketAccount, ask.Seller, ask.Quantity); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(askKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
