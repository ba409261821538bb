package feecfg

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// RoyaltySet installs a collection's local royalty schedule. An empty
// schedule clears the table. Setting a schedule drops any provider
// delegation.
type RoyaltySet struct {
	tx.BaseTx
	Collection entry.AccountID   `json:"collection"`
	Recipients []entry.AccountID `json:"recipients,omitempty"`
	RatesBps   []uint32          `json:"rates_bps,omitempty"`
}

// RoyaltyProviderSet delegates a collection's royalty computation to a
// provider registered on the engine under the given name.
type RoyaltyProviderSet struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	Provider   string          `json:"provider"`
}

func init() {
	tx.Register(tx.TypeRoyaltySet, func() tx.Transaction { return &RoyaltySet{} })
	tx.Register(tx.TypeRoyaltyProviderSet, func() tx.Transaction { return &RoyaltyProviderSet{} })
}

// TxType returns the transaction type.
func (r *RoyaltySet) TxType() tx.Type { return tx.TypeRoyaltySet }

// Validate checks the schedule shape and the rate cap.
func (r *RoyaltySet) Validate() error {
	if err := r.ValidateBase(); err != nil {
		return err
	}
	if r.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if len(r.Recipients) != len(r.RatesBps) {
		return errors.New("temMALFORMED: recipients and rates differ in length")
	}
	var total uint64
	for i, to := range r.Recipients {
		if to.IsZero() {
			return errors.New("temINVALID: zero royalty recipient")
		}
		total += uint64(r.RatesBps[i])
	}
	if total > tx.MaxRoyaltyBps {
		return fmt.Errorf("temBAD_FEE: royalty total %d exceeds cap %d", total, tx.MaxRoyaltyBps)
	}
	return nil
}

// Apply replaces the collection's royalty table.
func (r *RoyaltySet) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := requireOwner(ctx, r.Account); res != tx.TesSUCCESS {
		return res
	}

	k := keylet.Royalty(r.Collection)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return tx.TefINTERNAL
	}

	if len(r.Recipients) == 0 {
		if !exists {
			return tx.TecNO_ENTRY
		}
		if err := ctx.View.Erase(k); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}

	data, err := entry.SerializeRoyaltyTable(&entry.RoyaltyTable{
		Collection: r.Collection,
		Recipients: r.Recipients,
		RatesBps:   r.RatesBps,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		err = ctx.View.Update(k, data)
	} else {
		err = ctx.View.Insert(k, data)
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (r *RoyaltyProviderSet) TxType() tx.Type { return tx.TypeRoyaltyProviderSet }

// Validate checks the delegation fields.
func (r *RoyaltyProviderSet) Validate() error {
	if err := r.ValidateBase(); err != nil {
		return err
	}
	if r.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if r.Provider == "" {
		return errors.New("temINVALID: missing provider name")
	}
	return nil
}

// Apply points the collection's royalties at the named provider.
func (r *RoyaltyProviderSet) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := requireOwner(ctx, r.Account); res != tx.TesSUCCESS {
		return res
	}
	if _, ok := ctx.Provider(r.Provider); !ok {
		return tx.TecNO_ENTRY
	}

	k := keylet.Royalty(r.Collection)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	data, err := entry.SerializeRoyaltyTable(&entry.RoyaltyTable{
		Collection: r.Collection,
		Provider:   r.Provider,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		err = ctx.View.Update(k, data)
	} else {
		err = ctx.View.Insert(k, data)
	}
	if err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
