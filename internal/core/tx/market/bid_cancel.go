package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// BidCancel withdraws a bid and refunds its escrow in full.
type BidCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

func init() {
	tx.Register(tx.TypeBidCancel, func() tx.Transaction { return &BidCancel{} })
}

// TxType returns the transaction type.
func (b *BidCancel) TxType() tx.Type { return tx.TypeBidCancel }

// Validate checks the cancel fields.
func (b *BidCancel) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply refunds and erases the bid.
func (b *BidCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	bidKey := keylet.Bid(b.Collection, b.TokenID, b.Account)
	data, err := ctx.View.Read(bidKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	bid, err := entry.ParseBid(data)
	if err != nil {
		return tx.TefINTERNAL
	}

	if res := tx.Transfer(ctx.View, entry.MarketAccount, bid.Bidder, bid.Quote, bid.Price); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(bidKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
