package fractional

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// UnitOfferCreate places an escrowed offer to buy units at a per-unit price.
// The full amount, price times quantity, is debited at creation. One offer
// per (asset, buyer).
type UnitOfferCreate struct {
	tx.BaseTx
	Collection   entry.AccountID `json:"collection"`
	TokenID      uint64          `json:"token_id"`
	Quote        entry.AccountID `json:"quote"`
	PricePerUnit uint64          `json:"price_per_unit"`
	Quantity     uint64          `json:"quantity"`
}

// UnitOfferCancel withdraws an offer and refunds the remaining escrow.
type UnitOfferCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

// UnitOfferAccept fills part or all of an offer with the seller's units. The
// seller restates the per-unit rate and quote; an offer whose terms changed
// fails rather than settling on stale numbers. A fill that drains the offer
// removes it.
type UnitOfferAccept struct {
	tx.BaseTx
	Collection   entry.AccountID `json:"collection"`
	TokenID      uint64          `json:"token_id"`
	Buyer        entry.AccountID `json:"buyer"`
	Quote        entry.AccountID `json:"quote"`
	PricePerUnit uint64          `json:"price_per_unit"`
	Quantity     uint64          `json:"quantity"`
}

func init() {
	tx.Register(tx.TypeUnitOfferCreate, func() tx.Transaction { return &UnitOfferCreate{} })
	tx.Register(tx.TypeUnitOfferCancel, func() tx.Transaction { return &UnitOfferCancel{} })
	tx.Register(tx.TypeUnitOfferAccept, func() tx.Transaction { return &UnitOfferAccept{} })
}

// TxType returns the transaction type.
func (o *UnitOfferCreate) TxType() tx.Type { return tx.TypeUnitOfferCreate }

// Validate checks the offer fields.
func (o *UnitOfferCreate) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if o.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if o.PricePerUnit == 0 {
		return errors.New("temBAD_PRICE: zero unit price")
	}
	if o.Quantity == 0 {
		return errors.New("temBAD_QUANTITY: zero quantity")
	}
	if o.Quantity > math.MaxUint64/o.PricePerUnit {
		return errors.New("temBAD_AMOUNT: total price overflows")
	}
	return nil
}

// Apply escrows the funds and records the offer.
func (o *UnitOfferCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	offerKey := keylet.UnitOffer(o.Collection, o.TokenID, o.Account)
	exists, err := ctx.View.Exists(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}

	if res := tx.Transfer(ctx.View, o.Account, entry.MarketAccount, o.Quote, o.PricePerUnit*o.Quantity); res != tx.TesSUCCESS {
		return res
	}

	data, err := entry.SerializeUnitOffer(&entry.UnitOffer{
		Collection:   o.Collection,
		TokenID:      o.TokenID,
		Buyer:        o.Account,
		Quote:        o.Quote,
		PricePerUnit: o.PricePerUnit,
		Quantity:     o.Quantity,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(offerKey, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (o *UnitOfferCancel) TxType() tx.Type { return tx.TypeUnitOfferCancel }

// Validate checks the cancel fields.
func (o *UnitOfferCancel) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply refunds the remaining escrow and erases the offer.
func (o *UnitOfferCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	offerKey := keylet.UnitOffer(o.Collection, o.TokenID, o.Account)
	data, err := ctx.View.Read(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	offer, err := entry.ParseUnitOffer(data)
	if err != nil {
		return tx.TefINTERNAL
	}

	if res := tx.Transfer(ctx.View, entry.MarketAccount, offer.Buyer, offer.Quote, offer.PricePerUnit*offer.Quantity); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(offerKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (o *UnitOfferAccept) TxType() tx.Type { return tx.TypeUnitOfferAccept }

// Validate checks the accept fields.
func (o *UnitOfferAccept) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if o.Buyer.IsZero() {
		return errors.New("temINVALID: missing buyer")
	}
	if o.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if o.PricePerUnit == 0 {
		return errors.New("temBAD_PRICE: zero unit price")
	}
	if o.Quantity == 0 {
		return errors.New("temBAD_QUANTITY: zero quantity")
	}
	return nil
}

// Apply fills the offer from the seller's holding.
func (o *UnitOfferAccept) Apply(ctx *tx.ApplyContext) tx.Result {
	if o.Buyer == o.Account {
		return tx.TecNO_PERMISSION
	}

	offerKey := keylet.UnitOffer(o.Collection, o.TokenID, o.Buyer)
	data, err := ctx.View.Read(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	offer, err := entry.ParseUnitOffer(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if offer.Quote != o.Quote {
		return tx.TecWRONG_QUOTE
	}
	if offer.PricePerUnit != o.PricePerUnit {
		return tx.TecWRONG_RATE
	}
	if offer.Quantity < o.Quantity {
		return tx.TecINSUFFICIENT_QUANTITY
	}

	if res := tx.MoveUnits(ctx.View, o.Collection, o.TokenID, o.Account, o.Buyer, o.Quantity); res != tx.TesSUCCESS {
		return res
	}
	total := offer.PricePerUnit * o.Quantity
	if res := tx.SettleSale(ctx, entry.MarketAccount, o.Account, o.Collection, o.TokenID, offer.Quote, total); res != tx.TesSUCCESS {
		return res
	}

	offer.Quantity -= o.Quantity
	if offer.Quantity == 0 {
		if err := ctx.View.Erase(offerKey); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}
	out, err := entry.SerializeUnitOffer(offer)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(offerKey, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
