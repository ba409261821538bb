// Package keylet derives the addressable indexes of marketplace ledger
// entries. Each entry family hashes under its own namespace so entries of
// different kinds can never collide.
package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/goMarketd/internal/crypto/common"
)

// Space identifiers for keylet generation.
const (
	spaceBalance     uint16 = 'b' // fungible balance
	spaceToken       uint16 = 'n' // whole asset custody
	spaceUnits       uint16 = 'u' // fractional holding
	spaceAsk         uint16 = 'k' // whole-asset ask
	spaceBid         uint16 = 'B' // whole-asset bid
	spaceUnitAsk     uint16 = 'K' // fractional ask
	spaceUnitOffer   uint16 = 'O' // fractional offer
	spaceAuction     uint16 = 'A' // auction
	spaceRental      uint16 = 'r' // rental
	spaceRentalOffer uint16 = 'R' // rental offer
	spaceFeeConfig   uint16 = 'e' // fee settings (singleton)
	spaceRoyalty     uint16 = 'y' // royalty table
	spaceCollection  uint16 = 'c' // collection config
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func tokenIDBytes(tokenID uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, tokenID)
	return b
}

// Balance returns the keylet of a (holder, quote asset) balance.
func Balance(holder, quote entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeBalance,
		Key:  indexHash(spaceBalance, holder[:], quote[:]),
	}
}

// Token returns the keylet of a whole asset's custody record.
func Token(collection entry.AccountID, tokenID uint64) Keylet {
	return Keylet{
		Type: entry.TypeToken,
		Key:  indexHash(spaceToken, collection[:], tokenIDBytes(tokenID)),
	}
}

// Units returns the keylet of one holder's fractional holding.
func Units(collection entry.AccountID, tokenID uint64, holder entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeUnits,
		Key:  indexHash(spaceUnits, collection[:], tokenIDBytes(tokenID), holder[:]),
	}
}

// Ask returns the keylet of a whole-asset listing. One per asset.
func Ask(collection entry.AccountID, tokenID uint64) Keylet {
	return Keylet{
		Type: entry.TypeAsk,
		Key:  indexHash(spaceAsk, collection[:], tokenIDBytes(tokenID)),
	}
}

// Bid returns the keylet of one bidder's bid on a whole asset.
func Bid(collection entry.AccountID, tokenID uint64, bidder entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeBid,
		Key:  indexHash(spaceBid, collection[:], tokenIDBytes(tokenID), bidder[:]),
	}
}

// UnitAsk returns the keylet of one seller's fractional listing.
func UnitAsk(collection entry.AccountID, tokenID uint64, seller entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeUnitAsk,
		Key:  indexHash(spaceUnitAsk, collection[:], tokenIDBytes(tokenID), seller[:]),
	}
}

// UnitOffer returns the keylet of one buyer's fractional offer.
func UnitOffer(collection entry.AccountID, tokenID uint64, buyer entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeUnitOffer,
		Key:  indexHash(spaceUnitOffer, collection[:], tokenIDBytes(tokenID), buyer[:]),
	}
}

// Auction returns the keylet of an asset's auction. One per asset.
func Auction(collection entry.AccountID, tokenID uint64) Keylet {
	return Keylet{
		Type: entry.TypeAuction,
		Key:  indexHash(spaceAuction, collection[:], tokenIDBytes(tokenID)),
	}
}

// Rental returns the keylet of an asset's lending record. One per asset.
func Rental(collection entry.AccountID, tokenID uint64) Keylet {
	return Keylet{
		Type: entry.TypeRental,
		Key:  indexHash(spaceRental, collection[:], tokenIDBytes(tokenID)),
	}
}

// RentalOffer returns the keylet of one offerer's rental offer.
func RentalOffer(collection entry.AccountID, tokenID uint64, offerer entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeRentalOffer,
		Key:  indexHash(spaceRentalOffer, collection[:], tokenIDBytes(tokenID), offerer[:]),
	}
}

// FeeConfig returns the keylet of the singleton fee settings entry.
func FeeConfig() Keylet {
	return Keylet{
		Type: entry.TypeFeeConfig,
		Key:  indexHash(spaceFeeConfig),
	}
}

// Royalty returns the keylet of a collection's royalty table.
func Royalty(collection entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeRoyaltyTable,
		Key:  indexHash(spaceRoyalty, collection[:]),
	}
}

// Collection returns the keylet of a collection's market settings.
func Collection(collection entry.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeCollectionConfig,
		Key:  indexHash(spaceCollection, collection[:]),
	}
}
