package tx_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

func account(b byte) entry.AccountID {
	var id entry.AccountID
	id[0] = b
	id[19] = b
	return id
}

func TestSplitSaleRemainderToSeller(t *testing.T) {
	seller := account(1)
	protocol := account(2)
	creator := account(3)

	// 100 at 1% protocol and 1% royalty: 98 / 1 / 1.
	payouts := tx.SplitSale(100, seller, protocol, 100,
		[]entry.AccountID{creator}, []uint32{100})
	require.Len(t, payouts, 3)

	byAccount := map[entry.AccountID]uint64{}
	for _, p := range payouts {
		byAccount[p.To] += p.Amount
	}
	require.Equal(t, uint64(98), byAccount[seller])
	require.Equal(t, uint64(1), byAccount[protocol])
	require.Equal(t, uint64(1), byAccount[creator])
}

func TestSplitSaleFloorsDust(t *testing.T) {
	seller := account(1)
	protocol := account(2)

	// 1% of 99 floors to 0; the whole price goes to the seller and the
	// zero leg is dropped.
	payouts := tx.SplitSale(99, seller, protocol, 100, nil, nil)
	require.Len(t, payouts, 1)
	require.Equal(t, seller, payouts[0].To)
	require.Equal(t, uint64(99), payouts[0].Amount)
}

func TestSplitSaleNoFees(t *testing.T) {
	seller := account(1)

	payouts := tx.SplitSale(500, seller, entry.ZeroAccount, 0, nil, nil)
	require.Len(t, payouts, 1)
	require.Equal(t, uint64(500), payouts[0].Amount)
}

func TestSplitSaleLargePrice(t *testing.T) {
	seller := account(1)
	protocol := account(2)

	// Prices near the uint64 ceiling must not wrap the fee product; the
	// protocol leg stays exact and the split still conserves.
	price := uint64(1) << 62
	payouts := tx.SplitSale(price, seller, protocol, 100, nil, nil)
	require.Len(t, payouts, 2)

	byAccount := map[entry.AccountID]uint64{}
	var sum uint64
	for _, p := range payouts {
		byAccount[p.To] += p.Amount
		sum += p.Amount
	}
	require.Equal(t, uint64(46116860184273879), byAccount[protocol])
	require.Equal(t, price-uint64(46116860184273879), byAccount[seller])
	require.Equal(t, price, sum)
}

func TestBpsCut(t *testing.T) {
	require.Equal(t, uint64(0), tx.BpsCut(0, 100))
	require.Equal(t, uint64(0), tx.BpsCut(99, 100))
	require.Equal(t, uint64(1), tx.BpsCut(100, 100))
	require.Equal(t, uint64(500), tx.BpsCut(10000, 500))

	// Full amount at and above the denominator.
	require.Equal(t, uint64(12345), tx.BpsCut(12345, 10000))
	require.Equal(t, uint64(12345), tx.BpsCut(12345, 20000))

	// No wrap at the top of the range.
	max := uint64(math.MaxUint64)
	require.Equal(t, max/2, tx.BpsCut(max, 5000))
}

func TestSplitSaleConservation(t *testing.T) {
	// Randomized sweep: every split must sum to the price exactly, with
	// no zero legs, under any cap-respecting rate combination.
	rng := rand.New(rand.NewSource(42))
	seller := account(1)
	protocol := account(2)

	for i := 0; i < 2000; i++ {
		price := rng.Uint64() % 10_000_000
		protocolBps := uint32(rng.Intn(tx.MaxProtocolFeeBps + 1))

		n := rng.Intn(4)
		recipients := make([]entry.AccountID, n)
		rates := make([]uint32, n)
		remaining := uint32(tx.MaxRoyaltyBps)
		for j := 0; j < n; j++ {
			recipients[j] = account(byte(10 + j))
			r := uint32(rng.Intn(int(remaining) + 1))
			rates[j] = r
			remaining -= r
		}

		payouts := tx.SplitSale(price, seller, protocol, protocolBps, recipients, rates)
		var sum uint64
		for _, p := range payouts {
			require.NotZero(t, p.Amount, "zero payout leg at iteration %d", i)
			sum += p.Amount
		}
		require.Equal(t, price, sum, "split does not conserve at iteration %d", i)
	}
}

func TestSplitSaleSellerIsRecipient(t *testing.T) {
	seller := account(1)

	// Protocol fees and royalties addressed to the seller fold back into
	// the seller leg.
	payouts := tx.SplitSale(100, seller, seller, 100,
		[]entry.AccountID{seller}, []uint32{100})
	require.Len(t, payouts, 1)
	require.Equal(t, seller, payouts[0].To)
	require.Equal(t, uint64(100), payouts[0].Amount)
}
