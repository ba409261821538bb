package token

import (
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// TokenMint creates a whole asset owned by the minter. The fingerprint, if
// given, becomes the asset's canonical content hash.
type TokenMint struct {
	tx.BaseTx
	Collection  entry.AccountID `json:"collection"`
	TokenID     uint64          `json:"token_id"`
	Fingerprint []byte          `json:"fingerprint,omitempty"`
}

// UnitsMint credits the minter with quantity units of a fractional asset.
type UnitsMint struct {
	tx.BaseTx
	Collection entry.AccountID `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Quantity   uint64          `json:"quantity"`
}

func init() {
	tx.Register(tx.TypeTokenMint, func() tx.Transaction { return &TokenMint{} })
	tx.Register(tx.TypeUnitsMint, func() tx.Transaction { return &UnitsMint{} })
}

// TxType returns the transaction type.
func (m *TokenMint) TxType() tx.Type { return tx.TypeTokenMint }

// Validate checks the mint fields.
func (m *TokenMint) Validate() error {
	if err := m.ValidateBase(); err != nil {
		return err
	}
	if m.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	return nil
}

// Apply creates the custody record.
func (m *TokenMint) Apply(ctx *tx.ApplyContext) tx.Result {
	k := keylet.Token(m.Collection, m.TokenID)
	exists, err := ctx.View.Exists(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	if exists {
		return tx.TecDUPLICATE
	}
	data, err := entry.SerializeToken(&entry.Token{
		Collection:  m.Collection,
		TokenID:     m.TokenID,
		Owner:       m.Account,
		Fingerprint: m.Fingerprint,
	})
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(k, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// TxType returns the transaction type.
func (m *UnitsMint) TxType() tx.Type { return tx.TypeUnitsMint }

// Validate checks the mint fields.
func (m *UnitsMint) Validate() error {
	if err := m.ValidateBase(); err != nil {
		return err
	}
	if m.Collection.IsZero() {
		return errors.New("temINVALID: missing collection")
	}
	if m.Quantity == 0 {
		return errors.New("temBAD_QUANTITY: zero quantity")
	}
	return nil
}

// Apply credits the minter's holding.
func (m *UnitsMint) Apply(ctx *tx.ApplyContext) tx.Result {
	k := keylet.Units(m.Collection, m.TokenID, m.Account)
	data, err := ctx.View.Read(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	if data == nil {
		out, err := entry.SerializeUnits(&entry.Units{
			Collection: m.Collection,
			TokenID:    m.TokenID,
			Holder:     m.Account,
			Quantity:   m.Quantity,
		})
		if err != nil {
			return tx.TefINTERNAL
		}
		if err := ctx.View.Insert(k, out); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}
	units, err := entry.ParseUnits(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	units.Quantity += m.Quantity
	out, err := entry.SerializeUnits(units)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(k, out); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
