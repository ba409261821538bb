// Package entry defines the ledger entry types of the marketplace state and
// their serialized forms.
package entry

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Type identifies the kind of a ledger entry.
type Type uint16

const (
	TypeInvalid Type = 0

	TypeBalance          Type = 1  // fungible balance per (holder, quote asset)
	TypeToken            Type = 2  // whole asset custody record
	TypeUnits            Type = 3  // fractional asset holding per holder
	TypeAsk              Type = 4  // whole-asset fixed price listing
	TypeBid              Type = 5  // whole-asset escrowed bid
	TypeUnitAsk          Type = 6  // fractional listing
	TypeUnitOffer        Type = 7  // fractional escrowed offer
	TypeAuction          Type = 8  // time-windowed auction
	TypeRental           Type = 9  // lending record
	TypeRentalOffer      Type = 10 // escrowed rental offer
	TypeFeeConfig        Type = 11 // singleton protocol fee configuration
	TypeRoyaltyTable     Type = 12 // per-collection royalty schedule
	TypeCollectionConfig Type = 13 // per-collection market settings
)

// String returns the entry type name.
func (t Type) String() string {
	switch t {
	case TypeBalance:
		return "Balance"
	case TypeToken:
		return "Token"
	case TypeUnits:
		return "Units"
	case TypeAsk:
		return "Ask"
	case TypeBid:
		return "Bid"
	case TypeUnitAsk:
		return "UnitAsk"
	case TypeUnitOffer:
		return "UnitOffer"
	case TypeAuction:
		return "Auction"
	case TypeRental:
		return "Rental"
	case TypeRentalOffer:
		return "RentalOffer"
	case TypeFeeConfig:
		return "FeeConfig"
	case TypeRoyaltyTable:
		return "RoyaltyTable"
	case TypeCollectionConfig:
		return "CollectionConfig"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(t))
	}
}

// AccountID is a 160-bit ledger identity. Accounts, collections and quote
// assets all live in the same identifier space, mirroring address-typed
// contracts.
type AccountID [20]byte

// ZeroAccount is the absent identity (no renter, no approval, ...).
var ZeroAccount AccountID

// MarketAccount is the reserved identity that holds escrowed custody on
// behalf of the books. It is not a spendable account.
var MarketAccount = AccountID{0xee, 0x5c, 0x12, 0x0f, 0xfa, 0x11, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}

// IsZero reports whether the identity is unset.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

// String returns the hex form of the identity.
func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}

// DecodeAccountID parses a 40-character hex identity.
func DecodeAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != 20 {
		return id, errors.New("account ID must be 20 bytes")
	}
	copy(id[:], raw)
	return id, nil
}

// Balance is the fungible holding of one account in one quote asset.
type Balance struct {
	Holder AccountID
	Quote  AccountID
	Amount uint64
}

// Token is the custody record of a whole (non-fungible) asset. Owner moves to
// MarketAccount while a book escrows the token; the book entry then records
// the beneficial owner. Fingerprint, when set, is the canonical content hash
// checked on settlement for registered collections.
type Token struct {
	Collection  AccountID
	TokenID     uint64
	Owner       AccountID
	Approved    AccountID // operator allowed to move the token, zero if none
	Fingerprint []byte
}

// Units is the fractional holding of one holder in one semi-fungible asset.
type Units struct {
	Collection AccountID
	TokenID    uint64
	Holder     AccountID
	Quantity   uint64
}

// Ask is a whole-asset fixed-price listing. The token itself is escrowed to
// MarketAccount while the ask is live.
type Ask struct {
	Collection AccountID
	TokenID    uint64
	Seller     AccountID
	Quote      AccountID
	Price      uint64
}

// Bid is an escrowed standing offer to buy a whole asset. Price was debited
// from the bidder when the bid was created; cancelling or being replaced
// credits it back in full. Fingerprint is the content hash the bidder bid on.
type Bid struct {
	Collection  AccountID
	TokenID     uint64
	Bidder      AccountID
	Quote       AccountID
	Price       uint64
	Fingerprint []byte
}

// UnitAsk is a fractional listing. Quantity units are escrowed to
// MarketAccount at creation and flow back on cancel or out on fills.
type UnitAsk struct {
	Collection   AccountID
	TokenID      uint64
	Seller       AccountID
	Quote        AccountID
	PricePerUnit uint64
	Quantity     uint64
}

// UnitOffer is a fractional escrowed offer. The remaining escrow is always
// PricePerUnit * Quantity.
type UnitOffer struct {
	Collection   AccountID
	TokenID      uint64
	Buyer        AccountID
	Quote        AccountID
	PricePerUnit uint64
	Quantity     uint64
}

// Auction is a time-windowed competitive sale. The token is escrowed at
// creation. Bidder/BidAmount track the current highest bid; Bidder is zero
// until the first valid bid lands.
type Auction struct {
	Collection   AccountID
	TokenID      uint64
	Seller       AccountID
	Quote        AccountID
	ReservePrice uint64
	StartTime    int64
	EndTime      int64
	Bidder       AccountID
	BidAmount    uint64
}

// Rental is a lending record. While Renter is set and Expiry is in the
// future the lender cannot reclaim; after expiry LendCancel returns custody.
type Rental struct {
	Collection  AccountID
	TokenID     uint64
	Lender      AccountID
	Quote       AccountID
	PricePerDay uint64
	Renter      AccountID
	Expiry      int64
}

// RentalOffer is an escrowed offer to rent at the stated terms. The escrow is
// PricePerDay * ceil(Duration/86400); accepting re-validates the terms
// against the live Rental.
type RentalOffer struct {
	Collection  AccountID
	TokenID     uint64
	Offerer     AccountID
	Quote       AccountID
	PricePerDay uint64
	Duration    int64
}

// FeeConfig is the singleton market configuration aggregate. Owner gates all
// admin mutations.
type FeeConfig struct {
	Owner           AccountID
	FeeRecipient    AccountID
	ProtocolFeeBps  uint32
	MinIncrementBps uint32
}

// RoyaltyTable is a per-collection royalty schedule. When Provider is
// non-empty the local schedule is ignored and lookups delegate to the
// registered external provider of that name.
type RoyaltyTable struct {
	Collection AccountID
	Recipients []AccountID
	RatesBps   []uint32
	Provider   string
}

// CollectionConfig carries per-collection market settings.
type CollectionConfig struct {
	Collection        AccountID
	VerifyFingerprint bool
}
