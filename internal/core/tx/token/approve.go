package token

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// TokenApprove grants (or revokes, with a zero operator) the right to move a
// whole asset on the owner's behalf.
type TokenApprove struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Operator   entry.AccountID `json:"operator"`
}

func init() {
	tx.Register(tx.TypeTokenApprove, func() tx.Transaction { return &TokenApprove{} })
}

// TxType returns the transaction type.
func (a *TokenApprove) TxType() tx.Type { return tx.TypeTokenApprove }

// Validate checks the approval fields.
func (a *TokenApprove) Validate() error {
	if err := a.ValidateBase(); err != nil {
		return err
	}
	if a.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if a.Operator == a.Account {
		return errors.New("temINVALID: approval to self")
	}
	return nil
}

// Apply records the operator on the custody record.
func (a *TokenApprove) Apply(ctx *tx.ApplyContext) tx.Result {
	token, err := tx.ReadToken(ctx.View, a.Collection, a.TokenID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if token == nil {
		return tx.TecNO_ENTRY
	}
	if token.Owner != a.Account {
		return tx.TecNO_PERMISSION
	}
	token.Approved = a.Operator
	return tx.WriteToken(ctx.View, token)
}
