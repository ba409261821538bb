package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// BidCreate places an escrowed standing offer on a whole asset. The price is
// debited up front. A repeat bid from the same bidder refunds the prior
// escrow in full before taking the new one, so both movements land on the
// balance even when the new price is lower.
type BidCreate struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Quote       entry.AccountID `json:"quote"`
	Price       uint64          `json:"price"`
	Fingerprint []byte          `json:"fingerprint,omitempty"`
}

func init() {
	tx.Register(tx.TypeBidCreate, func() tx.Transaction { return &BidCreate{} })
}

// TxType returns the transaction type.
func (b *BidCreate) TxType() tx.Type { return tx.TypeBidCreate }

// Validate checks the bid fields.
func (b *BidCreate) Validate() error {
	if err := b.ValidateBase(); err != nil {
		return err
	}
	if b.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if b.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	if b.Price == 0 {
		return errors.New("temBAD_PRICE: zero price")
	}
	return nil
}

// Apply escrows the funds and records the bid.
func (b *BidCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	token, err := tx.ReadToken(ctx.View, b.Collection, b.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if token == nil {
		return tx.TecNO_ENTRY
	}
	if token.Owner == b.Account {
		return tx.TecNO_PERMISSION
	}

	bidKey := keylet.Bid(b.Collection, b.TokenID, b.Account)
	prior, err := ctx.View.Read(bidKey)
	if err != nil {
		return tx.TefINTERNAL
	}

	if prior != nil {
		old, err := entry.ParseBid(prior)
		if err != nil {
			return tx.TefINTERNAL
		}
		if res := tx.Transfer(ctx.View, entry.MarketAccount, old.Bidder, old.Quote, old.Price); res != tx.TesSUCCESS {
			return res
		}
	}

	if res := tx.Transfer(ctx.View, b.Account, entry.MarketAccount, b.Quote, b.Price); res != tx.TesSUCCESS {
		return res
	}

	data, err := entry.SerializeBid(&entry.Bid{
		Collection:  b.Collection,
		TokenID:     b.TokenID,
		Bidder:      b.Account,
		Quote:       b.Quote,
		Price:       b.Price,
		Fingerprint: b.Fingerprint,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if prior != nil {
		if err := ctx.View.Update(bidKey, data); err != nil {
			return tx.TefINTERNAL
		}
	} else {
		if err := ctx.View.Insert(bidKey, data); err != nil {
			return tx.TefINTERNAL
		}
	}
	return tx.TesSUCCESS
}
