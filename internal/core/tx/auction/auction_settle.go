package auction

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AuctionCancel closes an auction that has drawn no bid and returns the
// asset. Only the seller may cancel.
type AuctionCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

// AuctionCollect settles an ended auction. Anyone may trigger it: the
// winner receives the asset and the seller the fee-split proceeds, or the
// asset returns to the seller when no bid landed.
type AuctionCollect struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

func init() {
	tx.Register(tx.TypeAuctionCancel, func() tx.Transaction { return &AuctionCancel{} })
	tx.Register(tx.TypeAuctionCollect, func() tx.Transaction { return &AuctionCollect{} })
}

// TxType returns the transaction type.
func (a *AuctionCancel) TxType() tx.Type { return tx.TypeAuctionCancel }

// Validate checks the cancel fields.
func (a *AuctionCancel) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply returns custody and erases the auction.
func (a *AuctionCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	auctionKey := keylet.Auction(a.Collection, a.TokenID)
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
	if auction.Seller != a.Account {
		return tx.TecNO_PERMISSION
	}
	if !auction.Bidder.IsZero() {
		return tx.TecHAS_BIDDER
	}

	token, err := tx.ReadToken(ctx.View, a.Collection, a.TokenID)
	if err != nil || token == nil {
		return tx.TefINTERNAL
	}
	if res := tx.TransferToken(ctx.View, token, auction.Seller); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(auctionKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (a *AuctionCollect) TxType() tx.Type { return tx.TypeAuctionCollect }

// Validate checks the collect fields.
func (a *AuctionCollect) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply settles the ended auction.
func (a *AuctionCollect) Apply(ctx *tx.ApplyContext) tx.Result {
	auctionKey := keylet.Auction(a.Collection, a.TokenID)
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
	if ctx.Now < auction.EndTime {
		return tx.TecNOT_ENDED
	}

	token, err := tx.ReadToken(ctx.View, a.Collection, a.TokenID)
	if err != nil || token == nil {
		return tx.TefINTERNAL
	}

	if auction.Bidder.IsZero() {
		if res := tx.TransferToken(ctx.View, token, auction.Seller); res != tx.TesSUCCESS {
			return res
		}
	} else {
		if res := tx.SettleSale(ctx, entry.MarketAccount, auction.Seller, a.Collection, a.TokenID, auction.Quote, auction.BidAmount); res != tx.TesSUCCESS {
			return res
		}
		if res := tx.TransferToken(ctx.View, token, auction.Bidder); res != tx.TesSUCCESS {
			return res
		}
	}
	if err := ctx.View.Erase(auctionKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
