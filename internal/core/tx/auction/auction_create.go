// Package auction implements time-windowed competitive sales with escrowed
// bids and a post-close collection step.
package auction

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AuctionCreate opens an auction on a whole asset. The asset moves into
// market escrow immediately, even when the start time is in the future. A
// zero reserve accepts any opening bid.
type AuctionCreate struct {
	tx.BaseTx
	Collection   entry.AccountID `json:"collection"`
	TokenID      uint64          `json:"token_id"`
	Quote        entry.AccountID `json:"quote"`
	ReservePrice uint64          `json:"reserve_price"`
	StartTime    int64           `json:"start_time"`
	EndTime      int64           `json:"end_time"`
}

func init() {
	tx.Register(tx.TypeAuctionCreate, func() tx.Transaction { return &AuctionCreate{} })
}

// TxType returns the transaction type.
func (a *AuctionCreate) TxType() tx.Type { return tx.TypeAuctionCreate }

// Validate checks the auction fields.
func (a *AuctionCreate) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if a.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if a.EndTime <= 0 || a.EndTime <= a.StartTime {
		return errors.New("temBAD_EXPIRATION: end not after start")
	}
	return nil
}

// Apply escrows the asset and opens the auction.
func (a *AuctionCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	if a.EndTime <= ctx.Now {
		return tx.TecENDED
	}

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

	auctionKey := keylet.Auction(a.Collection, a.TokenID)
	exists, err := ctx.View.Exists(auctionKey)
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

	data, err := entry.SerializeAuction(&entry.Auction{
		Collection:   a.Collection,
		TokenID:      a.TokenID,
		Seller:       seller,
		Quote:        a.Quote,
		ReservePrice: a.ReservePrice,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(auctionKey, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
