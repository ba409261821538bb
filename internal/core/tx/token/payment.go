// Package token holds the asset and payment primitives the books build on:
// minting whole and fractional assets, operator approval, and direct
// payments between accounts.
package token

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// Payment moves an amount of a quote asset between two accounts.
type Payment struct {
	tx.BaseTx
	Destination entry.AccountID `json:"destination"`
	Quote       entry.AccountID `json:"quote"`
	Amount      uint64          `json:"amount"`
}

func init() {
	tx.Register(tx.TypePayment, func() tx.Transaction { return &Payment{} })
}

// TxType returns the transaction type.
func (p *Payment) TxType() tx.Type { return tx.TypePayment }

// Validate checks the payment fields.
func (p *Payment) Validate() error {
	if err := p.ValidateBase(); err != nil {
		return err
	}
	if p.Amount == 0 {
		return errors.New("temBAD_AMOUNT: zero amount")
	}
	if p.Destination.IsZero() {
		return errors.New("temINVALID: missing destination")
	}
	if p.Destination == p.Account {
		return errors.New("temINVALID: payment to self")
	}
	if p.Quote.IsZero() {
		return errors.New("temINVALID: missing quote asset")
	}
	return nil
}

// Apply moves the funds.
func (p *Payment) Apply(ctx *tx.ApplyContext) tx.Result {
	return tx.Transfer(ctx.View, p.Account, p.Destination, p.Quote, p.Amount)
}
