package entry

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// Ledger entries are stored as CBOR. The handle is canonical so the same
// entry always serializes to the same bytes.
var cborHandle = func() *codec.CborHandle {
	h := new(codec.CborHandle)
	h.Canonical = true
	return h
}()

func encode(v any) ([]byte, error) {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(data []byte, v any) error {
	dec := codec.NewDecoderBytes(data, cborHandle)
	return dec.Decode(v)
}

// SerializeBalance encodes a Balance entry.
func SerializeBalance(b *Balance) ([]byte, error) { return encode(b) }

// ParseBalance decodes a Balance entry.
func ParseBalance(data []byte) (*Balance, error) {
	b := new(Balance)
	if err := decode(data, b); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	return b, nil
}

// SerializeToken encodes a Token entry.
func SerializeToken(t *Token) ([]byte, error) { return encode(t) }

// ParseToken decodes a Token entry.
func ParseToken(data []byte) (*Token, error) {
	t := new(Token)
	if err := decode(data, t); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return t, nil
}

// SerializeUnits encodes a Units entry.
func SerializeUnits(u *Units) ([]byte, error) { return encode(u) }

// ParseUnits decodes a Units entry.
func ParseUnits(data []byte) (*Units, error) {
	u := new(Units)
	if err := decode(data, u); err != nil {
		return nil, fmt.Errorf("parse units: %w", err)
	}
	return u, nil
}

// SerializeAsk encodes an Ask entry.
func SerializeAsk(a *Ask) ([]byte, error) { return encode(a) }

// ParseAsk decodes an Ask entry.
func ParseAsk(data []byte) (*Ask, error) {
	a := new(Ask)
	if err := decode(data, a); err != nil {
		return nil, fmt.Errorf("parse ask: %w", err)
	}
	return a, nil
}

// SerializeBid encodes a Bid entry.
func SerializeBid(b *Bid) ([]byte, error) { return encode(b) }

// ParseBid decodes a Bid entry.
func ParseBid(data []byte) (*Bid, error) {
	b := new(Bid)
	if err := decode(data, b); err != nil {
		return nil, fmt.Errorf("parse bid: %w", err)
	}
	return b, nil
}

// SerializeUnitAsk encodes a UnitAsk entry.
func SerializeUnitAsk(a *UnitAsk) ([]byte, error) { return encode(a) }

// ParseUnitAsk decodes a UnitAsk entry.
func ParseUnitAsk(data []byte) (*UnitAsk, error) {
	a := new(UnitAsk)
	if err := decode(data, a); err != nil {
		return nil, fmt.Errorf("parse unit ask: %w", err)
	}
	return a, nil
}

// SerializeUnitOffer encodes a UnitOffer entry.
func SerializeUnitOffer(o *UnitOffer) ([]byte, error) { return encode(o) }

// ParseUnitOffer decodes a UnitOffer entry.
func ParseUnitOffer(data []byte) (*UnitOffer, error) {
	o := new(UnitOffer)
	if err := decode(data, o); err != nil {
		return nil, fmt.Errorf("parse unit offer: %w", err)
	}
	return o, nil
}

// SerializeAuction encodes an Auction entry.
func SerializeAuction(a *Auction) ([]byte, error) { return encode(a) }

// ParseAuction decodes an Auction entry.
func ParseAuction(data []byte) (*Auction, error) {
	a := new(Auction)
	if err := decode(data, a); err != nil {
		return nil, fmt.Errorf("parse auction: %w", err)
	}
	return a, nil
}

// SerializeRental encodes a Rental entry.
func SerializeRental(r *Rental) ([]byte, error) { return encode(r) }

// ParseRental decodes a Rental entry.
func ParseRental(data []byte) (*Rental, error) {
	r := new(Rental)
	if err := decode(data, r); err != nil {
		return nil, fmt.Errorf("parse rental: %w", err)
	}
	return r, nil
}

// SerializeRentalOffer encodes a RentalOffer entry.
func SerializeRentalOffer(o *RentalOffer) ([]byte, error) { return encode(o) }

// ParseRentalOffer decodes a RentalOffer entry.
func ParseRentalOffer(data []byte) (*RentalOffer, error) {
	o := new(RentalOffer)
	if err := decode(data, o); err != nil {
		return nil, fmt.Errorf("parse rental offer: %w", err)
	}
	return o, nil
}

// SerializeFeeConfig encodes the FeeConfig entry.
func SerializeFeeConfig(c *FeeConfig) ([]byte, error) { return encode(c) }

// ParseFeeConfig decodes the FeeConfig entry.
func ParseFeeConfig(data []byte) (*FeeConfig, error) {
	c := new(FeeConfig)
	if err := decode(data, c); err != nil {
		return nil, fmt.Errorf("parse fee config: %w", err)
	}
	return c, nil
}

// SerializeRoyaltyTable encodes a RoyaltyTable entry.
func SerializeRoyaltyTable(t *RoyaltyTable) ([]byte, error) { return encode(t) }

// ParseRoyaltyTable decodes a RoyaltyTable entry.
func ParseRoyaltyTable(data []byte) (*RoyaltyTable, error) {
	t := new(RoyaltyTable)
	if err := decode(data, t); err != nil {
		return nil, fmt.Errorf("parse royalty table: %w", err)
	}
	return t, nil
}

// SerializeCollectionConfig encodes a CollectionConfig entry.
func SerializeCollectionConfig(c *CollectionConfig) ([]byte, error) { return encode(c) }

// ParseCollectionConfig decodes a CollectionConfig entry.
func ParseCollectionConfig(data []byte) (*CollectionConfig, error) {
	c := new(CollectionConfig)
	if err := decode(data, c); err != nil {
		return nil, fmt.Errorf("parse collection config: %w", err)
	}
	return c, nil
}
