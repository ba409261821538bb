package feecfg

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// FingerprintRequire toggles fingerprint verification for a collection.
// While enabled, buys and bid settlements must present the asset's
// canonical content hash.
type FingerprintRequire struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	Required   bool            `json:"required"`
}

func init() {
	tx.Register(tx.TypeFingerprintRequire, func() tx.Transaction { return &FingerprintRequire{} })
}

// TxType returns the transaction type.
func (f *FingerprintRequire) TxType() tx.Type { return tx.TypeFingerprintRequire }

// Validate checks the registration fields.
func (f *FingerprintRequire) Validate() error {
	if err := f.ValidateBase(); err != nil {
		return err
	}
	if f.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply stores the collection setting.
func (f *FingerprintRequire) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := requireOwner(ctx, f.Account); res != tx.TesSUCCESS {
		return res
	}

	k := keylet.Collection(f.Collection)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	data, err := entry.SerializeCollectionConfig(&entry.CollectionConfig{
		Collection:        f.Collection,
		VerifyFingerprint: f.Required,
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
