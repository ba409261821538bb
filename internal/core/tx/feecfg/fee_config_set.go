// Package feecfg holds the owner-gated market administration transactions:
// protocol fee settings, royalty schedules, royalty provider delegation and
// fingerprint enforcement.
package feecfg

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// FeeConfigSet updates the market fee settings. Only the configured owner
// may apply it; a non-zero NewOwner hands the role over.
type FeeConfigSet struct {
	tx.BaseTx
	FeeRecipient    entry.AccountID `json:"fee_recipient"`
	ProtocolFeeBps  uint32          `json:"protocol_fee_bps"`
	MinIncrementBps uint32          `json:"min_increment_bps"`
	NewOwner        entry.AccountID `json:"new_owner,omitempty"`
}

func init() {
	tx.Register(tx.TypeFeeConfigSet, func() tx.Transaction { return &FeeConfigSet{} })
}

// TxType returns the transaction type.
func (f *FeeConfigSet) TxType() tx.Type { return tx.TypeFeeConfigSet }

// Validate checks the settings against their caps.
func (f *FeeConfigSet) Validate() error {
	if err := f.ValidateBase(); err != nil {
		return err
	}
	if f.ProtocolFeeBps > tx.MaxProtocolFeeBps {
		return fmt.Errorf("temBAD_FEE: protocol fee %d exceeds cap %d", f.ProtocolFeeBps, tx.MaxProtocolFeeBps)
	}
	if f.MinIncrementBps > 10000 {
		return errors.New("temBAD_FEE: increment above 100%")
	}
	return nil
}

// Apply updates the singleton configuration.
func (f *FeeConfigSet) Apply(ctx *tx.ApplyContext) tx.Result {
	k := keylet.FeeConfig()
	data, err := ctx.View.Read(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}
	cfg, err := entry.ParseFeeConfig(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if cfg.Owner != f.Account {
		return tx.TecNO_PERMISSION
	}

	cfg.FeeRecipient = f.FeeRecipient
	cfg.ProtocolFeeBps = f.ProtocolFeeBps
	cfg.MinIncrementBps = f.MinIncrementBps
	if !f.NewOwner.IsZero() {
		cfg.Owner = f.NewOwner
	}

	out, err := entry.SerializeFeeConfig(cfg)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(k, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// requireOwner loads the fee config and checks the caller is the market
// owner. Shared by every admin transaction in this package.
func requireOwner(ctx *tx.ApplyContext, caller entry.AccountID) tx.Result {
	cfg, err := tx.ReadFeeConfig(ctx.View)
	if err != nil {
		return tx.TefINTERNAL
	}
	if cfg.Owner.IsZero() || cfg.Owner != caller {
		return tx.TecNO_PERMISSION
	}
	return tx.TesSUCCESS
}
