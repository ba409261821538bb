package tx

import (
	"bytes"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// BalanceOf returns the holder's balance in the quote asset, zero if no
// entry exists.
func BalanceOf(view *ApplyStateTable, holder, quote entry.AccountID) (uint64, error) {
	data, err := view.Read(keylet.Balance(holder, quote))
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	bal, err := entry.ParseBalance(data)
	if err != nil {
		return 0, err
	}
	return bal.Amount, nil
}

// Credit adds amount to the holder's balance, creating the entry if needed.
func Credit(view *ApplyStateTable, holder, quote entry.AccountID, amount uint64) Result {
	if amount == 0 {
		return TesSUCCESS
	}
	k := keylet.Balance(holder, quote)
	data, err := view.Read(k)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		out, err := entry.SerializeBalance(&entry.Balance{Holder: holder, Quote: quote, Amount: amount})
		if err != nil {
			return TefINTERNAL
		}
		if err := view.Insert(k, out); err != nil {
			return TefINTERNAL
		}
		return TesSUCCESS
	}
	bal, err := entry.ParseBalance(data)
	if err != nil {
		return TefINTERNAL
	}
	bal.Amount += amount
	out, err := entry.SerializeBalance(bal)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(k, out); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// Debit removes amount from the holder's balance. Returns tecUNFUNDED if the
// balance is short. A balance drained to zero keeps its entry.
func Debit(view *ApplyStateTable, holder, quote entry.AccountID, amount uint64) Result {
	if amount == 0 {
		return TesSUCCESS
	}
	k := keylet.Balance(holder, quote)
	data, err := view.Read(k)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		return TecUNFUNDED
	}
	bal, err := entry.ParseBalance(data)
	if err != nil {
		return TefINTERNAL
	}
	if bal.Amount < amount {
		return TecUNFUNDED
	}
	bal.Amount -= amount
	out, err := entry.SerializeBalance(bal)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(k, out); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// Transfer moves amount of the quote asset between accounts.
func Transfer(view *ApplyStateTable, from, to, quote entry.AccountID, amount uint64) Result {
	if amount == 0 || from == to {
		return TesSUCCESS
	}
	if res := Debit(view, from, quote, amount); res != TesSUCCESS {
		return res
	}
	return Credit(view, to, quote, amount)
}

// ReadToken loads a token entry, nil if absent.
func ReadToken(view *ApplyStateTable, collection entry.AccountID, tokenID uint64) (*entry.Token, error) {
	data, err := view.Read(keylet.Token(collection, tokenID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return entry.ParseToken(data)
}

// WriteToken stores a token entry back.
func WriteToken(view *ApplyStateTable, token *entry.Token) Result {
	out, err := entry.SerializeToken(token)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(keylet.Token(token.Collection, token.TokenID), out); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// TransferToken moves token ownership and clears any approval.
func TransferToken(view *ApplyStateTable, token *entry.Token, to entry.AccountID) Result {
	token.Owner = to
	token.Approved = entry.ZeroAccount
	return WriteToken(view, token)
}

// CanOperate reports whether the account owns or is approved on the token.
func CanOperate(token *entry.Token, account entry.AccountID) bool {
	return token.Owner == account || token.Approved == account
}

// CheckFingerprint verifies a supplied fingerprint against the token when
// the collection requires it. Collections without a config entry, or with
// verification disabled, accept anything.
func CheckFingerprint(view *ApplyStateTable, token *entry.Token, supplied []byte) Result {
	data, err := view.Read(keylet.Collection(token.Collection))
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		return TesSUCCESS
	}
	cfg, err := entry.ParseCollectionConfig(data)
	if err != nil {
		return TefINTERNAL
	}
	if !cfg.VerifyFingerprint {
		return TesSUCCESS
	}
	if !bytes.Equal(token.Fingerprint, supplied) {
		return TecBAD_FINGERPRINT
	}
	return TesSUCCESS
}

// UnitsOf returns the holder's unit quantity for a fractionalized asset.
func UnitsOf(view *ApplyStateTable, collection entry.AccountID, tokenID uint64, holder entry.AccountID) (uint64, error) {
	data, err := view.Read(keylet.Units(collection, tokenID, holder))
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	u, err := entry.ParseUnits(data)
	if err != nil {
		return 0, err
	}
	return u.Quantity, nil
}

// MoveUnits transfers quantity units of a fractionalized asset between
// holders. Returns tecINSUFFICIENT_QUANTITY if the sender is short. A
// holding drained to zero is erased.
func MoveUnits(view *ApplyStateTable, collection entry.AccountID, tokenID uint64, from, to entry.AccountID, quantity uint64) Result {
	if quantity == 0 || from == to {
		return TesSUCCESS
	}

	fromKey := keylet.Units(collection, tokenID, from)
	data, err := view.Read(fromKey)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		return TecINSUFFICIENT_QUANTITY
	}
	fromUnits, err := entry.ParseUnits(data)
	if err != nil {
		return TefINTERNAL
	}
	if fromUnits.Quantity < quantity {
		return TecINSUFFICIENT_QUANTITY
	}

	fromUnits.Quantity -= quantity
	if fromUnits.Quantity == 0 {
		if err := view.Erase(fromKey); err != nil {
			return TefINTERNAL
		}
	} else {
		out, err := entry.SerializeUnits(fromUnits)
		if err != nil {
			return TefINTERNAL
		}
		if err := view.Update(fromKey, out); err != nil {
			return TefINTERNAL
		}
	}

	toKey := keylet.Units(collection, tokenID, to)
	data, err = view.Read(toKey)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		out, err := entry.SerializeUnits(&entry.Units{Collection: collection, TokenID: tokenID, Holder: to, Quantity: quantity})
		if err != nil {
			return TefINTERNAL
		}
		if err := view.Insert(toKey, out); err != nil {
			return TefINTERNAL
		}
		return TesSUCCESS
	}
	toUnits, err := entry.ParseUnits(data)
	if err != nil {
		return TefINTERNAL
	}
	toUnits.Quantity += quantity
	out, err := entry.SerializeUnits(toUnits)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(toKey, out); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}
