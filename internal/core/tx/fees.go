package tx

import (
	"errors"
	"math/bits"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// Basis point caps enforced at configuration time.
const (
	// MaxProtocolFeeBps caps the protocol fee at 5%.
	MaxProtocolFeeBps = 500
	// MaxRoyaltyBps caps the combined royalty rates of a collection at 10%.
	MaxRoyaltyBps = 1000
)

const bpsDenominator = 10000

// BpsCut returns amount scaled by bps basis points, rounding down. The
// product is taken in 128 bits so the cut stays exact for amounts near the
// uint64 ceiling. Rates above 100% are clamped to the full amount.
func BpsCut(amount uint64, bps uint32) uint64 {
	if bps >= bpsDenominator {
		return amount
	}
	hi, lo := bits.Mul64(amount, uint64(bps))
	cut, _ := bits.Div64(hi, lo, bpsDenominator)
	return cut
}

// Payout is one leg of a settled sale.
type Payout struct {
	To     entry.AccountID
	Amount uint64
}

// SplitSale divides a sale price between the seller, the protocol fee
// recipient and the royalty recipients. Each cut is floored; the remainder
// after all cuts goes to the seller, so the legs always sum to price
// exactly.
//
// Zero-amount legs and legs paying the seller itself are folded into the
// seller payout, so the returned slice never contains a zero leg.
func SplitSale(price uint64, seller entry.AccountID, protocol entry.AccountID, protocolBps uint32, royaltyTo []entry.AccountID, royaltyBps []uint32) []Payout {
	sellerAmount := price
	payouts := make([]Payout, 0, 2+len(royaltyTo))

	cut := BpsCut(price, protocolBps)
	if cut > 0 && protocol != seller && !protocol.IsZero() {
		sellerAmount -= cut
		payouts = append(payouts, Payout{To: protocol, Amount: cut})
	}

	for i, to := range royaltyTo {
		cut := BpsCut(price, royaltyBps[i])
		if cut == 0 || to == seller || to.IsZero() {
			continue
		}
		sellerAmount -= cut
		payouts = append(payouts, Payout{To: to, Amount: cut})
	}

	if sellerAmount > 0 {
		payouts = append(payouts, Payout{To: seller, Amount: sellerAmount})
	}
	return payouts
}

var (
	errProviderMissing  = errors.New("royalty provider not registered")
	errProviderSchedule = errors.New("royalty provider returned an invalid schedule")
)

// resolveRoyalties returns the royalty recipients and rates for a token
// sale. A collection with a local table uses it directly; a collection that
// names a provider delegates to the registered provider. Collections with
// neither pay no royalties.
func resolveRoyalties(ctx *ApplyContext, collection entry.AccountID, tokenID uint64, price uint64) ([]entry.AccountID, []uint32, error) {
	data, err := ctx.View.Read(keylet.Royalty(collection))
	if err != nil {
		return nil, nil, err
	}
	if data == nil {
		return nil, nil, nil
	}
	table, err := entry.ParseRoyaltyTable(data)
	if err != nil {
		return nil, nil, err
	}
	if table.Provider != "" {
		provider, ok := ctx.Provider(table.Provider)
		if !ok {
			return nil, nil, errProviderMissing
		}
		to, rates, err := provider.Royalties(collection, tokenID, price)
		if err != nil {
			return nil, nil, err
		}
		// Provider schedules face the same cap as locally stored tables.
		if len(to) != len(rates) {
			return nil, nil, errProviderSchedule
		}
		var total uint64
		for _, r := range rates {
			total += uint64(r)
		}
		if total > MaxRoyaltyBps {
			return nil, nil, errProviderSchedule
		}
		return to, rates, nil
	}
	return table.Recipients, table.RatesBps, nil
}

// SettleSale pays out a sale: it computes the split from the fee config and
// the collection royalties, then credits every leg. The price must already
// be held by the paying account (or the market escrow for settled bids).
func SettleSale(ctx *ApplyContext, payer entry.AccountID, seller entry.AccountID, collection entry.AccountID, tokenID uint64, quote entry.AccountID, price uint64) Result {
	cfg, err := ReadFeeConfig(ctx.View)
	if err != nil {
		return TefINTERNAL
	}

	royaltyTo, royaltyBps, err := resolveRoyalties(ctx, collection, tokenID, price)
	if err != nil {
		return TefINTERNAL
	}

	for _, p := range SplitSale(price, seller, cfg.FeeRecipient, cfg.ProtocolFeeBps, royaltyTo, royaltyBps) {
		if res := Transfer(ctx.View, payer, p.To, quote, p.Amount); res != TesSUCCESS {
			return res
		}
	}
	return TesSUCCESS
}

// ReadFeeConfig loads the singleton fee configuration. A missing entry
// behaves as zero fees with no recipient.
func ReadFeeConfig(view *ApplyStateTable) (*entry.FeeConfig, error) {
	data, err := view.Read(keylet.FeeConfig())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &entry.FeeConfig{}, nil
	}
	return entry.ParseFeeConfig(data)
}
