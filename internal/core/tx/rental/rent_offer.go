package rental

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// RentOfferCreate places an escrowed offer to rent a lent asset at stated
// terms. The full price, rate times whole days, is debited at creation. One
// offer per (asset, offerer).
type RentOfferCreate struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Quote       entry.AccountID `json:"quote"`
	PricePerDay uint64          `json:"price_per_day"`
	Duration    int64           `json:"duration"`
}

// RentOfferCancel withdraws a rental offer and refunds its escrow.
type RentOfferCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

// RentOfferAccept lets the lender take an offer. The offer terms are
// re-checked against the live lending record, so an offer made against old
// terms fails instead of settling.
type RentOfferAccept struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Offerer    entry.AccountID `json:"offerer"`
	Duration   int64           `json:"duration"`
}

func init() {
	tx.Register(tx.TypeRentOfferCreate, func() tx.Transaction { return &RentOfferCreate{} })
	tx.Register(tx.TypeRentOfferCancel, func() tx.Transaction { return &RentOfferCancel{} })
	tx.Register(tx.TypeRentOfferAccept, func() tx.Transaction { return &RentOfferAccept{} })
}

// TxType returns the transaction type.
func (o *RentOfferCreate) TxType() tx.Type { return tx.TypeRentOfferCreate }

// Validate checks the offer fields.
func (o *RentOfferCreate) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if o.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if o.PricePerDay == 0 {
		return errors.New("temBAD_PRICE: zero rate")
	}
	if o.Duration < MinRentalSeconds {
		return errors.New("temBAD_DURATION: below one day")
	}
	if rentalDays(o.Duration) > math.MaxUint64/o.PricePerDay {
		return errors.New("temBAD_AMOUNT: total price overflows")
	}
	return nil
}

// Apply escrows the funds and records the offer.
func (o *RentOfferCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	rentalKey := keylet.Rental(o.Collection, o.TokenID)
	data, err := ctx.View.Read(rentalKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNOT_LISTED
	}
	rental, err := entry.ParseRental(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rental.Lender == o.Account {
		return tx.TecNO_PERMISSION
	}

	offerKey := keylet.RentalOffer(o.Collection, o.TokenID, o.Account)
	exists, err := ctx.View.Exists(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}

	price := o.PricePerDay * rentalDays(o.Duration)
	if res := tx.Transfer(ctx.View, o.Account, entry.MarketAccount, o.Quote, price); res != tx.TesSUCCESS {
		return res
	}

	out, err := entry.SerializeRentalOffer(&entry.RentalOffer{
		Collection:  o.Collection,
		TokenID:     o.TokenID,
		Offerer:     o.Account,
		Quote:       o.Quote,
		PricePerDay: o.PricePerDay,
		Duration:    o.Duration,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(offerKey, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (o *RentOfferCancel) TxType() tx.Type { return tx.TypeRentOfferCancel }

// Validate checks the cancel fields.
func (o *RentOfferCancel) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply refunds the escrow and erases the offer.
func (o *RentOfferCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	offerKey := keylet.RentalOffer(o.Collection, o.TokenID, o.Account)
	data, err := ctx.View.Read(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	offer, err := entry.ParseRentalOffer(data)
	if err != nil {
		return tx.TefINTERNAL
	}

	price := offer.PricePerDay * rentalDays(offer.Duration)
	if res := tx.Transfer(ctx.View, entry.MarketAccount, offer.Offerer, offer.Quote, price); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(offerKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (o *RentOfferAccept) TxType() tx.Type { return tx.TypeRentOfferAccept }

// Validate checks the accept fields.
func (o *RentOfferAccept) Validate() error {
	if err := o.ValidateBase(); err != nil {
		return err
	}
	if o.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if o.Offerer.IsZero() {
		return errors.New("temINVALID: missing offerer")
	}
	if o.Duration < MinRentalSeconds {
		return errors.New("temBAD_DURATION: below one day")
	}
	return nil
}

// Apply settles the offer and installs the renter.
func (o *RentOfferAccept) Apply(ctx *tx.ApplyContext) tx.Result {
	rentalKey := keylet.Rental(o.Collection, o.TokenID)
	data, err := ctx.View.Read(rentalKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNOT_LISTED
	}
	rental, err := entry.ParseRental(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rental.Lender != o.Account {
		return tx.TecNO_PERMISSION
	}
	if !rental.Renter.IsZero() && ctx.Now < rental.Expiry {
		return tx.TecHAS_RENTER
	}

	offerKey := keylet.RentalOffer(o.Collection, o.TokenID, o.Offerer)
	data, err = ctx.View.Read(offerKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	offer, err := entry.ParseRentalOffer(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if offer.Quote != rental.Quote {
		return tx.TecWRONG_QUOTE
	}
	if offer.PricePerDay != rental.PricePerDay {
		return tx.TecWRONG_RATE
	}
	if offer.Duration != o.Duration {
		return tx.TecWRONG_DURATION
	}

	price := offer.PricePerDay * rentalDays(offer.Duration)
	if res := tx.Transfer(ctx.View, entry.MarketAccount, rental.Lender, rental.Quote, price); res != tx.TesSUCCESS {
		return res
	}

	rental.Renter = offer.Offerer
	rental.Expiry = ctx.Now + offer.Duration
	out, err := entry.SerializeRental(rental)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(rentalKey, out); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Erase(offerKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
