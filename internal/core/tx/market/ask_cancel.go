package market

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// AskCancel removes a listing and returns the asset to the seller.
type AskCancel struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
}

func init() {
	tx.Register(tx.TypeAskCancel, func() tx.Transaction { return &AskCancel{} })
}

// TxType returns the transaction type.
func (a *AskCancel) TxType() tx.Type { return tx.TypeAskCancel }

// Validate checks the cancel fields.
func (a *AskCancel) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply returns custody and erases the ask.
func (a *AskCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	askKey := keylet.Ask(a.Collection, a.TokenID)
	data, err := ctx.View.Read(askKey)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNOT_LISTED
	}
	ask, err := entry.ParseAsk(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if ask.Seller != a.Account {
		return tx.TecNO_PERMISSION
	}

	token, err := tx.ReadToken(ctx.View, a.Collection, a.TokenID)
	if err != nil || token == nil {
		return tx.TefINTERNAL
	}
	if res := tx.TransferToken(ctx.View, token, ask.Seller); res != tx.TesSUCCESS {
		return res
	}
	if err := ctx.View.Erase(askKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
