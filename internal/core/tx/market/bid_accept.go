package market

import (
	"bytes"
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// BidAccept settles a standing bid. The seller restates the quote and price
// they are accepting; a bid replaced under them on different terms fails
// instead of settling. The escrowed funds pay the fee split and the asset
// moves to the bidder. If the asset sits in escrow under the seller's own
// ask, the ask is consumed by the acceptance.
type BidAccept struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Bidder     entry.AccountID `json:"bidder"`
	Quote      entry.AccountID `json:"quote"`
	Price      uint64          `json:"price"`
}

func init() {
	tx.Register(tx.TypeBidAccept, func() tx.Transaction { return &BidAccept{} })
}

// TxType returns the transaction type.
func (b *BidAccept) TxType() tx.Type { return tx.TypeBidAccept }

// Validate checks the accept fields.
func (b *BidAccept) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if b.Bidder.IsZero() {
		return errors.New("temINVALID: missing bidder")
	}
	if b.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if b.Price == 0 {
		return errors.New("temBAD_PRICE: zero price")
	}
	return nil
}

// Apply settles the bid.
func (b *BidAccept) Apply(ctx *tx.ApplyContext) tx.Result {
	bidKey := keylet.Bid(b.Collection, b.TokenID, b.Bidder)
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
	if bid.Quote != b.Quote {
		return tx.TecWRONG_QUOTE
	}
	if bid.Price != b.Price {
		return tx.TecWRONG_PRICE
	}

	token, err := tx.ReadToken(ctx.View, b.Collection, b.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if token == nil {
		return tx.TecNO_ENTRY
	}

	seller := token.Owner
	var askKey keylet.Keylet
	var consumeAsk bool
	if token.Owner == entry.MarketAccount {
		askKey = keylet.Ask(b.Collection, b.TokenID)
		askData, err := ctx.View.Read(askKey)
		if err != nil {
			return tx.TefINTERNAL
		}
		if askData == nil {
			return tx.TecNO_CUSTODY
		}
		ask, err := entry.ParseAsk(askData)
		if err != nil {
			return tx.TefINTERNAL
		}
		seller = ask.Seller
		consumeAsk = true
	}
	if seller != b.Account && token.Approved != b.Account {
		return tx.TecNO_CUSTODY
	}

	// The bidder committed to a specific content hash; a token whose
	// fingerprint changed underneath the bid must not settle.
	if len(bid.Fingerprint) > 0 && !bytes.Equal(bid.Fingerprint, token.Fingerprint) {
		return tx.TecBAD_FINGERPRINT
	}
	if res := tx.CheckFingerprint(ctx.View, token, bid.Fingerprint); res != tx.TesSUCCESS {
		return res
	}

	if res := tx.SettleSale(ctx, entry.MarketAccount, seller, b.Collection, b.TokenID, bid.Quote, bid.Price); res != tx.TesSUCCESS {
		return res
	}
	if res := tx.TransferToken(ctx.View, token, bid.Bidder); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(bidKey); err != nil {
		return tx.TefINTERNAL
	}
	if consumeAsk {
		if err := ctx.View.Erase(askKey); err != nil {
			return tx.TefINTERNAL
		}
	}
	return tx.TesSUCCESS
}
