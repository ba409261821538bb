package auction

import (
	"errors"
	"math"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AuctionBid places an escrowed bid inside the auction window. The prior
// high bid, if any, is refunded in full in the same transaction.
type AuctionBid struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Quote      entry.AccountID `json:"quote"`
	Amount     uint64          `json:"amount"`
}

func init() {
	tx.Register(tx.TypeAuctionBid, func() tx.Transaction { return &AuctionBid{} })
}

// TxType returns the transaction type.
func (b *AuctionBid) TxType() tx.Type { return tx.TypeAuctionBid }

// Validate checks the bid fields.
func (b *AuctionBid) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if b.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if b.Amount == 0 {
		return errors.New("temBAD_AMOUNT: zero amount")
	}
	return nil
}

// Apply refunds the outbid party and escrows the new high bid.
func (b *AuctionBid) Apply(ctx *tx.ApplyContext) tx.Result {
	auctionKey := keylet.Auction(b.Collection, b.TokenID)
	data, err := ctx.View.Read(auctionKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	auction, err := entry.ParseAuction(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if auction.Seller == b.Account {
		return tx.TecNO_PERMISSION
	}
	if auction.Quote != b.Quote {
		return tx.TecWRONG_QUOTE
	}
	if ctx.Now < auction.StartTime {
		return tx.TecNOT_STARTED
	}
	if ctx.Now >= auction.EndTime {
		return tx.TecENDED
	}

	if auction.Bidder.IsZero() {
		if b.Amount < auction.ReservePrice {
			return tx.TecBELOW_RESERVE
		}
	} else {
		cfg, err := tx.ReadFeeConfig(ctx.View)
		if err != nil {
			return tx.TefINTERNAL
		}
		minNext := auction.BidAmount + tx.BpsCut(auction.BidAmount, cfg.MinIncrementBps)
		if minNext == auction.BidAmount {
			minNext = auction.BidAmount + 1
		}
		if minNext < auction.BidAmount {
			minNext = math.MaxUint64
		}
		if b.Amount < minNext {
			return tx.TecBELOW_INCREMENT
		}
	}

	if !auction.Bidder.IsZero() {
		if res := tx.Transfer(ctx.View, entry.MarketAccount, auction.Bidder, auction.Quote, auction.BidAmount); res != tx.TesSUCCESS {
			return res
		}
	}
	if res := tx.Transfer(ctx.View, b.Account, entry.MarketAccount, b.Quote, b.Amount); res != tx.TesSUCCESS {
		return res
	}

	auction.Bidder = b.Account
	auction.BidAmount = b.Amount
	out, err := entry.SerializeAuction(auction)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(auctionKey, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
