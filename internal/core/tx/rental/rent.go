package rental

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// Rent takes a lent asset for a duration, paying the full rate up front.
// The renter restates the quote and per-day rate so a relisted asset cannot
// settle on stale terms. The price is the per-day rate times the duration
// rounded up to whole days.
type Rent struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Quote       entry.AccountID `json:"quote"`
	PricePerDay uint64          `json:"price_per_day"`
	Duration    int64           `json:"duration"`
}

func init() {
	tx.Register(tx.TypeRent, func() tx.Transaction { return &Rent{} })
}

// TxType returns the transaction type.
func (r *Rent) TxType() tx.Type { return tx.TypeRent }

// Validate checks the rent fields.
func (r *Rent) Validate() error {
	if err := r.ValidateBase(); err != nil {
		return err
	}
	if r.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if r.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if r.PricePerDay == 0 {
		return errors.New("temBAD_PRICE: zero rate")
	}
	if r.Duration < MinRentalSeconds {
		return errors.New("temBAD_DURATION: below one day")
	}
	if rentalDays(r.Duration) > math.MaxUint64/r.PricePerDay {
		return errors.New("temBAD_AMOUNT: total price overflows")
	}
	return nil
}

// Apply pays the lender and installs the renter.
func (r *Rent) Apply(ctx *tx.ApplyContext) tx.Result {
	rentalKey := keylet.Rental(r.Collection, r.TokenID)
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
	if rental.Lender == r.Account {
		return tx.TecNO_PERMISSION
	}
	if rental.Quote != r.Quote {
		return tx.TecWRONG_QUOTE
	}
	if rental.PricePerDay != r.PricePerDay {
		return tx.TecWRONG_RATE
	}
	if !rental.Renter.IsZero() && ctx.Now < rental.Expiry {
		return tx.TecHAS_RENTER
	}

	price := rental.PricePerDay * rentalDays(r.Duration)
	if res := tx.Transfer(ctx.View, r.Account, rental.Lender, rental.Quote, price); res != tx.TesSUCCESS {
		return res
	}

	rental.Renter = r.Account
	rental.Expiry = ctx.Now + r.Duration
	out, err := entry.SerializeRental(rental)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(rentalKey, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
