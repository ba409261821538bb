// Package tx defines the transaction model and the engine that applies
// transactions against ledger state.
package tx

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
)

// Type identifies a transaction kind on the wire.
type Type uint16

const (
	TypePayment Type = iota + 1
	TypeTokenMint
	TypeUnitsMint
	TypeTokenApprove

	TypeAskCreate
	TypeAskCancel
	TypeBuy
	TypeBidCreate
	TypeBidCancel
	TypeBidAccept

	TypeUnitAskCreate
	TypeUnitAskCancel
	TypeUnitBuy
	TypeUnitOfferCreate
	TypeUnitOfferCancel
	TypeUnitOfferAccept

	TypeAuctionCreate
	TypeAuctionBid
	TypeAuctionCancel
	TypeAuctionCollect

	TypeLend
	TypeLendCancel
	TypeRent
	TypeRentOfferCreate
	TypeRentOfferCancel
	TypeRentOfferAccept

	TypeFeeConfigSet
	TypeRoyaltySet
	TypeRoyaltyProviderSet
	TypeFingerprintRequire
)

var typeNames = map[Type]string{
	TypePayment:      "Payment",
	TypeTokenMint:    "TokenMint",
	TypeUnitsMint:    "UnitsMint",
	TypeTokenApprove: "TokenApprove",

	TypeAskCreate: "AskCreate",
	TypeAskCancel: "AskCancel",
	TypeBuy:       "Buy",
	TypeBidCreate: "BidCreate",
	TypeBidCancel: "BidCancel",
	TypeBidAccept: "BidAccept",

	TypeUnitAskCreate:   "UnitAskCreate",
	TypeUnitAskCancel:   "UnitAskCancel",
	TypeUnitBuy:         "UnitBuy",
	TypeUnitOfferCreate: "UnitOfferCreate",
	TypeUnitOfferCancel: "UnitOfferCancel",
	TypeUnitOfferAccept: "UnitOfferAccept",

	TypeAuctionCreate:  "AuctionCreate",
	TypeAuctionBid:     "AuctionBid",
	TypeAuctionCancel:  "AuctionCancel",
	TypeAuctionCollect: "AuctionCollect",

	TypeLend:            "Lend",
	TypeLendCancel:      "LendCancel",
	TypeRent:            "Rent",
	TypeRentOfferCreate: "RentOfferCreate",
	TypeRentOfferCancel: "RentOfferCancel",
	TypeRentOfferAccept: "RentOfferAccept",

	TypeFeeConfigSet:       "FeeConfigSet",
	TypeRoyaltySet:         "RoyaltySet",
	TypeRoyaltyProviderSet: "RoyaltyProviderSet",
	TypeFingerprintRequire: "FingerprintRequire",
}

// String returns the wire name of the transaction type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName resolves a wire name to its Type.
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Transaction is one state transition against the ledger.
//
// Validate checks everything that does not require ledger state and returns
// a tem-class error on failure. Apply runs against the buffered view in ctx
// and returns the final result; the engine commits the buffered writes only
// on success.
type Transaction interface {
	TxType() Type
	Validate() error
	Apply(ctx *ApplyContext) Result
}

// BaseTx carries the fields common to every transaction. The Account is the
// party performing the operation; there is no signature layer, identity is
// taken as given by the transport.
type BaseTx struct {
	Account entry.AccountID `json:"account"`
}

// ValidateBase checks the common fields.
func (b *BaseTx) ValidateBase() error {
	if b.Account.IsZero() {
		return errors.New("temINVALID: missing account")
	}
	if b.Account == entry.MarketAccount {
		return errors.New("temINVALID: reserved account")
	}
	return nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]func() Transaction)
)

// Register installs a constructor for a transaction type. Transaction
// packages call this from init.
func Register(t Type, constructor func() Transaction) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[t]; dup {
		panic(fmt.Sprintf("tx: duplicate registration for %s", t))
	}
	registry[t] = constructor
}

// New returns an empty transaction of the given type, ready to be decoded
// into.
func New(t Type) (Transaction, error) {
	registryMu.RLock()
	constructor, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tx: unregistered transaction type %s", t)
	}
	return constructor(), nil
}

// RegisteredTypes lists all registered types in ascending order.
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
