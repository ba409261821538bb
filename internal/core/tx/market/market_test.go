package market_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/feecfg"
	"github.com/LeJamon/goMarketd/internal/core/tx/market"
	mtest "github.com/LeJamon/goMarketd/internal/testing"
)

func TestAskLifecycle(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(buyer, usd, 1000)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 1000}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	// The asset sits in escrow while listed.
	mtest.RequireTokenOwner(t, env, col, 1, entry.MarketAccount)

	// Only one ask per asset.
	again := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 500}
	again.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(again), tx.TecNO_CUSTODY)

	buy := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 1000}
	buy.Account = buyer.ID
	mtest.RequireTxSuccess(t, env.Submit(buy))

	mtest.RequireTokenOwner(t, env, col, 1, buyer.ID)
	mtest.RequireBalance(t, env, seller, usd, 1000)
	mtest.RequireBalance(t, env, buyer, usd, 0)
	require.False(t, env.Exists(keylet.Ask(col, 1)))
}

func TestAskCreateRequiresCustody(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	stranger := env.Account("stranger")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = stranger.ID
	mtest.RequireTxFail(t, env.Submit(ask), tx.TecNO_CUSTODY)

	missing := &market.AskCreate{Collection: col, TokenID: 99, Quote: usd, Price: 100}
	missing.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(missing), tx.TecNO_ENTRY)
}

func TestAskCancel(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	other := env.Account("other")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	wrong := &market.AskCancel{Collection: col, TokenID: 1}
	wrong.Account = other.ID
	mtest.RequireTxFail(t, env.Submit(wrong), tx.TecNO_PERMISSION)

	cancel := &market.AskCancel{Collection: col, TokenID: 1}
	cancel.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(cancel))
	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)

	// Cancelling again finds nothing.
	second := &market.AskCancel{Collection: col, TokenID: 1}
	second.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(second), tx.TecNOT_LISTED)
}

func TestBuyChecksTerms(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	col := env.Collection("art")
	usd := env.Quote("usd")
	eur := env.Quote("eur")

	env.MintToken(seller, col, 1, nil)
	env.Fund(buyer, usd, 50)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	wrongQuote := &market.Buy{Collection: col, TokenID: 1, Quote: eur, Price: 100}
	wrongQuote.Account = buyer.ID
	mtest.RequireTxFail(t, env.Submit(wrongQuote), tx.TecWRONG_QUOTE)

	wrongPrice := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 90}
	wrongPrice.Account = buyer.ID
	mtest.RequireTxFail(t, env.Submit(wrongPrice), tx.TecWRONG_PRICE)

	short := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	short.Account = buyer.ID
	mtest.RequireTxFail(t, env.Submit(short), tx.TecUNFUNDED)

	// Nothing moved on the failures.
	mtest.RequireBalance(t, env, buyer, usd, 50)
	mtest.RequireTokenOwner(t, env, col, 1, entry.MarketAccount)

	own := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	own.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(own), tx.TecNO_PERMISSION)
}

func TestBuyProtocolFeeSplit(t *testing.T) {
	env := mtest.NewEnv(t)
	env.SetFees(100, 0) // 1%
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(buyer, usd, 1000)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 1000}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	buy := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 1000}
	buy.Account = buyer.ID
	mtest.RequireTxSuccess(t, env.Submit(buy))

	mtest.RequireBalance(t, env, seller, usd, 990)
	mtest.RequireBalance(t, env, env.FeeSink, usd, 10)
	mtest.RequireBalance(t, env, buyer, usd, 0)
}

func TestBuyRoyaltySplit(t *testing.T) {
	env := mtest.NewEnv(t)
	env.SetFees(100, 0) // 1%
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	creator := env.Account("creator")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.SetRoyalties(col, []entry.AccountID{creator.ID}, []uint32{100}) // 1%
	env.MintToken(seller, col, 1, nil)
	env.Fund(buyer, usd, 100)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	buy := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	buy.Account = buyer.ID
	mtest.RequireTxSuccess(t, env.Submit(buy))

	// Floor cuts, remainder to the seller: 98 / 1 / 1.
	mtest.RequireBalance(t, env, seller, usd, 98)
	mtest.RequireBalance(t, env, env.FeeSink, usd, 1)
	mtest.RequireBalance(t, env, creator, usd, 1)
}

func TestBidEscrowAndReplacement(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 1000)

	bid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 400}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))
	mtest.RequireBalance(t, env, bidder, usd, 600)
	require.Equal(t, uint64(400), env.EscrowBalance(usd))

	// Replacement refunds the old escrow in full before taking the new
	// one, so a lower rebid frees funds.
	rebid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 250}
	rebid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(rebid))
	mtest.RequireBalance(t, env, bidder, usd, 750)
	require.Equal(t, uint64(250), env.EscrowBalance(usd))
}

func TestBidCancelSecondFails(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 500)

	bid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 500}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))

	cancel := &market.BidCancel{Collection: col, TokenID: 1}
	cancel.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(cancel))
	mtest.RequireBalance(t, env, bidder, usd, 500)

	second := &market.BidCancel{Collection: col, TokenID: 1}
	second.Account = bidder.ID
	mtest.RequireTxFail(t, env.Submit(second), tx.TecNO_ENTRY)
	mtest.RequireBalance(t, env, bidder, usd, 500)
}

func TestMultipleBidders(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	alice := env.Account("alice")
	bob := env.Account("bob")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(alice, usd, 300)
	env.Fund(bob, usd, 400)

	bidA := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 300}
	bidA.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(bidA))

	bidB := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 400}
	bidB.Account = bob.ID
	mtest.RequireTxSuccess(t, env.Submit(bidB))

	// Accepting one bid leaves the other standing and cancellable.
	accept := &market.BidAccept{Collection: col, TokenID: 1, Bidder: bob.ID, Quote: usd, Price: 400}
	accept.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(accept))

	mtest.RequireTokenOwner(t, env, col, 1, bob.ID)
	mtest.RequireBalance(t, env, seller, usd, 400)

	cancel := &market.BidCancel{Collection: col, TokenID: 1}
	cancel.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(cancel))
	mtest.RequireBalance(t, env, alice, usd, 300)
}

func TestBidAcceptRestatesTerms(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 1000)

	bid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 1000}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))

	// The bid drops to 1 before the seller's accept lands. The accept
	// carries the terms the seller saw, so it must not settle at the
	// replacement price.
	rebid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 1}
	rebid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(rebid))

	accept := &market.BidAccept{Collection: col, TokenID: 1, Bidder: bidder.ID, Quote: usd, Price: 1000}
	accept.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(accept), tx.TecWRONG_PRICE)

	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)
	mtest.RequireBalance(t, env, seller, usd, 0)
	require.True(t, env.Exists(keylet.Bid(col, 1, bidder.ID)))

	wrongQuote := &market.BidAccept{Collection: col, TokenID: 1, Bidder: bidder.ID, Quote: env.Quote("eur"), Price: 1}
	wrongQuote.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(wrongQuote), tx.TecWRONG_QUOTE)

	// Accepting the bid as it now stands settles at the stated price.
	accept2 := &market.BidAccept{Collection: col, TokenID: 1, Bidder: bidder.ID, Quote: usd, Price: 1}
	accept2.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(accept2))
	mtest.RequireTokenOwner(t, env, col, 1, bidder.ID)
	mtest.RequireBalance(t, env, seller, usd, 1)
	mtest.RequireBalance(t, env, bidder, usd, 999)
}

func TestBidAcceptFingerprintMismatch(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("bundles")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, []byte("hash-v1"))
	env.Fund(bidder, usd, 100)

	bid := &market.BidCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100, Fingerprint: []byte("hash-v0")}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))

	accept := &market.BidAccept{Collection: col, TokenID: 1, Bidder: bidder.ID, Quote: usd, Price: 100}
	accept.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(accept), tx.TecBAD_FINGERPRINT)

	// The bid survives a failed accept.
	require.True(t, env.Exists(keylet.Bid(col, 1, bidder.ID)))
	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)
}

func TestBuyFingerprintRequired(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	col := env.Collection("bundles")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, []byte("content-hash"))
	env.Fund(buyer, usd, 200)

	reg := &feecfg.FingerprintRequire{Collection: col, Required: true}
	reg.Account = env.Owner.ID
	mtest.RequireTxSuccess(t, env.Submit(reg))

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	bad := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100, Fingerprint: []byte("wrong")}
	bad.Account = buyer.ID
	mtest.RequireTxFail(t, env.Submit(bad), tx.TecBAD_FINGERPRINT)

	good := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100, Fingerprint: []byte("content-hash")}
	good.Account = buyer.ID
	mtest.RequireTxSuccess(t, env.Submit(good))
	mtest.RequireTokenOwner(t, env, col, 1, buyer.ID)
}
