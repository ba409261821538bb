package auction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/auction"
	mtest "github.com/LeJamon/goMarketd/internal/testing"
)

func openAuction(t *testing.T, env *mtest.TestEnv, seller *mtest.Account, col, usd entry.AccountID, reserve uint64, start, end int64) {
	t.Helper()
	create := &auction.AuctionCreate{
		Collection:   col,
		TokenID:      1,
		Quote:        usd,
		ReservePrice: reserve,
		StartTime:    start,
		EndTime:      end,
	}
	create.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(create))
}

func TestAuctionWindowGating(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 1000)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 0, now+3600, now+7200)

	// Asset escrowed immediately, before the window opens.
	mtest.RequireTokenOwner(t, env, col, 1, entry.MarketAccount)

	early := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 100}
	early.Account = bidder.ID
	mtest.RequireTxFail(t, env.Submit(early), tx.TecNOT_STARTED)

	env.Advance(time.Hour)
	inWindow := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 100}
	inWindow.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(inWindow))

	env.Advance(time.Hour)
	late := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 200}
	late.Account = bidder.ID
	mtest.RequireTxFail(t, env.Submit(late), tx.TecENDED)
}

func TestAuctionBidMonotonicityAndRefund(t *testing.T) {
	env := mtest.NewEnv(t)
	env.SetFees(0, 1000) // 10% minimum increment
	seller := env.Account("seller")
	alice := env.Account("alice")
	bob := env.Account("bob")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(alice, usd, 1000)
	env.Fund(bob, usd, 1000)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 100, now, now+3600)

	below := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 99}
	below.Account = alice.ID
	mtest.RequireTxFail(t, env.Submit(below), tx.TecBELOW_RESERVE)

	first := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 100}
	first.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(first))
	mtest.RequireBalance(t, env, alice, usd, 900)

	// 109 < 100 + 10% increment.
	small := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 109}
	small.Account = bob.ID
	mtest.RequireTxFail(t, env.Submit(small), tx.TecBELOW_INCREMENT)

	outbid := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 110}
	outbid.Account = bob.ID
	mtest.RequireTxSuccess(t, env.Submit(outbid))

	// Alice refunded in full on the outbid.
	mtest.RequireBalance(t, env, alice, usd, 1000)
	mtest.RequireBalance(t, env, bob, usd, 890)
	require.Equal(t, uint64(110), env.EscrowBalance(usd))
}

func TestAuctionCollect(t *testing.T) {
	env := mtest.NewEnv(t)
	env.SetFees(100, 0) // 1%
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	anyone := env.Account("anyone")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 1000)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 0, now, now+3600)

	bid := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 1000}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))

	early := &auction.AuctionCollect{Collection: col, TokenID: 1}
	early.Account = anyone.ID
	mtest.RequireTxFail(t, env.Submit(early), tx.TecNOT_ENDED)

	env.Advance(2 * time.Hour)
	collect := &auction.AuctionCollect{Collection: col, TokenID: 1}
	collect.Account = anyone.ID
	mtest.RequireTxSuccess(t, env.Submit(collect))

	mtest.RequireTokenOwner(t, env, col, 1, bidder.ID)
	mtest.RequireBalance(t, env, seller, usd, 990)
	mtest.RequireBalance(t, env, env.FeeSink, usd, 10)
	require.Equal(t, uint64(0), env.EscrowBalance(usd))
	require.False(t, env.Exists(keylet.Auction(col, 1)))
}

func TestAuctionCollectNoBid(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	anyone := env.Account("anyone")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 50, now, now+3600)

	env.Advance(2 * time.Hour)
	collect := &auction.AuctionCollect{Collection: col, TokenID: 1}
	collect.Account = anyone.ID
	mtest.RequireTxSuccess(t, env.Submit(collect))

	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)
	require.False(t, env.Exists(keylet.Auction(col, 1)))
}

func TestAuctionCancel(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	bidder := env.Account("bidder")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(bidder, usd, 100)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 0, now, now+3600)

	bid := &auction.AuctionBid{Collection: col, TokenID: 1, Quote: usd, Amount: 100}
	bid.Account = bidder.ID
	mtest.RequireTxSuccess(t, env.Submit(bid))

	// A live bid blocks cancellation.
	cancel := &auction.AuctionCancel{Collection: col, TokenID: 1}
	cancel.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(cancel), tx.TecHAS_BIDDER)
}

func TestAuctionCancelNoBid(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	other := env.Account("other")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)

	now := env.Now()
	openAuction(t, env, seller, col, usd, 0, now, now+3600)

	wrong := &auction.AuctionCancel{Collection: col, TokenID: 1}
	wrong.Account = other.ID
	mtest.RequireTxFail(t, env.Submit(wrong), tx.TecNO_PERMISSION)

	cancel := &auction.AuctionCancel{Collection: col, TokenID: 1}
	cancel.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(cancel))
	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)
}

func TestAuctionCreatePastEnd(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)

	now := env.Now()
	create := &auction.AuctionCreate{Collection: col, TokenID: 1, Quote: usd, StartTime: now - 7200, EndTime: now - 3600}
	create.Account = seller.ID
	mtest.RequireTxFail(t, env.Submit(create), tx.TecENDED)

	// The asset never left the seller.
	mtest.RequireTokenOwner(t, env, col, 1, seller.ID)
}
