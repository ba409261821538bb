// Package rental implements asset lending: lend listings, direct rents,
// escrowed rental offers, and expiry-gated reclaim.
package rental

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// MinRentalSeconds is the shortest duration a rental may run.
const MinRentalSeconds = 86400

// rentalDays rounds a duration up to whole days for pricing.
func rentalDays(duration int64) uint64 {
	return uint64((duration + MinRentalSeconds - 1) / MinRentalSeconds)
}

// Lend lists a whole asset for rent at a per-day rate. The asset moves into
// market escrow while the listing is live.
type Lend struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Quote       entry.AccountID `json:"quote"`
	PricePerDay uint64          `json:"price_per_day"`
}

// LendCancel reclaims a lent asset. It fails while a renter holds an
// unexpired rental; after expiry it also clears the stale renter.
type LendCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

func init() {
	tx.Register(tx.TypeLend, func() tx.Transaction { return &Lend{} })
	tx.Register(tx.TypeLendCancel, func() tx.Transaction { return &LendCancel{} })
}

// TxType returns the transaction type.
func (l *Lend) TxType() tx.Type { return tx.TypeLend }

// Validate checks the lend fields.
func (l *Lend) Validate() error {
	if err := l.ValidateBase(); err != nil {
		return err
	}
	if l.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if l.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if l.PricePerDay == 0 {
		return errors.New("temBAD_PRICE: zero rate")
	}
	return nil
}

// Apply escrows the asset and creates the lending record.
func (l *Lend) Apply(ctx *tx.ApplyContext) tx.Result {
	token, err := tx.ReadToken(ctx.View, l.Collection, l.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if token == nil {
		return tx.TecNO_ENTRY
	}
	if token.Owner == entry.MarketAccount {
		return tx.TecNO_CUSTODY
	}
	if !tx.CanOperate(token, l.Account) {
		return tx.TecNO_CUSTODY
	}

	rentalKey := keylet.Rental(l.Collection, l.TokenID)
	exists, err := ctx.View.Exists(rentalKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}

	lender := token.Owner
	if res := tx.TransferToken(ctx.View, token, entry.MarketAccount); res != tx.TesSUCCESS {
		return res
	}

	data, err := entry.SerializeRental(&entry.Rental{
		Collection:  l.Collection,
		TokenID:     l.TokenID,
		Lender:      lender,
		Quote:       l.Quote,
		PricePerDay: l.PricePerDay,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(rentalKey, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (l *LendCancel) TxType() tx.Type { return tx.TypeLendCancel }

// Validate checks the cancel fields.
func (l *LendCancel) Validate() error {
	if err := l.ValidateBase(); err != nil {
		return err
	}
	if l.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply returns custody and erases the lending record.
func (l *LendCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	rentalKey := keylet.Rental(l.Collection, l.TokenID)
	data, err := ctx.View.Read(rentalKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	rental, err := entry.ParseRental(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rental.Lender != l.Account {
		return tx.TecNO_PERMISSION
	}
	if !rental.Renter.IsZero() && ctx.Now < rental.Expiry {
		return tx.TecHAS_RENTER
	}

	token, err := tx.ReadToken(ctx.View, l.Collection, l.TokenID)
	if err != nil || token == nil {
		return tx.TefINTERNAL
	}
	if res := tx.TransferToken(ctx.View, token, rental.Lender); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(rentalKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
