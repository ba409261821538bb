package tx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/market"
	"github.com/LeJamon/goMarketd/internal/core/tx/token"
	"github.com/LeJamon/goMarketd/internal/storage"
	mtest "github.com/LeJamon/goMarketd/internal/testing"
)

func TestValidationCodeMapping(t *testing.T) {
	env := mtest.NewEnv(t)
	alice := env.Account("alice")
	col := env.Collection("art")
	usd := env.Quote("usd")

	zeroPrice := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd}
	zeroPrice.Account = alice.ID
	mtest.RequireTxFail(t, env.Submit(zeroPrice), tx.TemBAD_PRICE)

	noAccount := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 1}
	mtest.RequireTxFail(t, env.Submit(noAccount), tx.TemINVALID)

	zeroAmount := &token.Payment{Destination: alice.ID, Quote: usd}
	zeroAmount.Account = env.Account("bob").ID
	mtest.RequireTxFail(t, env.Submit(zeroAmount), tx.TemBAD_AMOUNT)
}

func TestFailedApplyLeavesNoTrace(t *testing.T) {
	env := mtest.NewEnv(t)
	seller := env.Account("seller")
	buyer := env.Account("buyer")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(seller, col, 1, nil)
	env.Fund(buyer, usd, 30)

	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	ask.Account = seller.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	// The buy debits nothing and moves nothing when the buyer is short,
	// even though the failure surfaces after some buffered writes.
	buy := &market.Buy{Collection: col, TokenID: 1, Quote: usd, Price: 100}
	buy.Account = buyer.ID
	mtest.RequireTxFail(t, env.Submit(buy), tx.TecUNFUNDED)

	mtest.RequireBalance(t, env, buyer, usd, 30)
	mtest.RequireBalance(t, env, seller, usd, 0)
	require.True(t, env.Exists(keylet.Ask(col, 1)))
}

func TestPaymentMovesFunds(t *testing.T) {
	env := mtest.NewEnv(t)
	alice := env.Account("alice")
	bob := env.Account("bob")
	usd := env.Quote("usd")

	env.Fund(alice, usd, 100)

	pay := &token.Payment{Destination: bob.ID, Quote: usd, Amount: 60}
	pay.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(pay))
	mtest.RequireBalance(t, env, alice, usd, 40)
	mtest.RequireBalance(t, env, bob, usd, 60)

	short := &token.Payment{Destination: bob.ID, Quote: usd, Amount: 41}
	short.Account = alice.ID
	mtest.RequireTxFail(t, env.Submit(short), tx.TecUNFUNDED)
}

func TestMintPrimitives(t *testing.T) {
	env := mtest.NewEnv(t)
	alice := env.Account("alice")
	bob := env.Account("bob")
	col := env.Collection("art")

	mint := &token.TokenMint{Collection: col, TokenID: 9, Fingerprint: []byte("h")}
	mint.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(mint))
	mtest.RequireTokenOwner(t, env, col, 9, alice.ID)

	dup := &token.TokenMint{Collection: col, TokenID: 9}
	dup.Account = bob.ID
	mtest.RequireTxFail(t, env.Submit(dup), tx.TecDUPLICATE)

	units := &token.UnitsMint{Collection: col, TokenID: 9, Quantity: 25}
	units.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(units))
	mtest.RequireUnits(t, env, col, 9, alice, 25)
}

func TestTokenApprove(t *testing.T) {
	env := mtest.NewEnv(t)
	owner := env.Account("owner")
	operator := env.Account("operator")
	col := env.Collection("art")
	usd := env.Quote("usd")

	env.MintToken(owner, col, 1, nil)

	// Self-approval never reaches the ledger.
	selfGrant := &token.TokenApprove{Collection: col, TokenID: 1, Operator: operator.ID}
	selfGrant.Account = operator.ID
	mtest.RequireTxFail(t, env.Submit(selfGrant), tx.TemINVALID)

	// A non-owner cannot hand out approvals on someone else's token.
	grant := &token.TokenApprove{Collection: col, TokenID: 1, Operator: env.Account("mallory").ID}
	grant.Account = operator.ID
	mtest.RequireTxFail(t, env.Submit(grant), tx.TecNO_PERMISSION)

	grant2 := &token.TokenApprove{Collection: col, TokenID: 1, Operator: operator.ID}
	grant2.Account = owner.ID
	mtest.RequireTxSuccess(t, env.Submit(grant2))

	// The operator can list on the owner's behalf; proceeds belong to
	// the owner.
	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 10}
	ask.Account = operator.ID
	mtest.RequireTxSuccess(t, env.Submit(ask))

	cancel := &market.AskCancel{Collection: col, TokenID: 1}
	cancel.Account = owner.ID
	mtest.RequireTxSuccess(t, env.Submit(cancel))
	mtest.RequireTokenOwner(t, env, col, 1, owner.ID)
}

func TestPersistentStoreCommit(t *testing.T) {
	store, err := ledger.NewStore(storage.NewMemoryDB(), 0)
	require.NoError(t, err)
	engine := tx.NewEngine(store)

	var alice, col, usd entry.AccountID
	alice[0] = 0xa1
	col[0] = 0xc0
	usd[0] = 0x05

	mint := &token.TokenMint{Collection: col, TokenID: 1}
	mint.Account = alice
	require.Equal(t, tx.TesSUCCESS, engine.Apply(mint))

	// Listing writes the ask and moves custody in one commit; both land
	// in the backing store together.
	ask := &market.AskCreate{Collection: col, TokenID: 1, Quote: usd, Price: 10}
	ask.Account = alice
	require.Equal(t, tx.TesSUCCESS, engine.Apply(ask))

	listed, err := store.Exists(keylet.Ask(col, 1))
	require.NoError(t, err)
	require.True(t, listed)

	cancel := &market.AskCancel{Collection: col, TokenID: 1}
	cancel.Account = alice
	require.Equal(t, tx.TesSUCCESS, engine.Apply(cancel))

	listed, err = store.Exists(keylet.Ask(col, 1))
	require.NoError(t, err)
	require.False(t, listed)

	data, err := store.Read(keylet.Token(col, 1))
	require.NoError(t, err)
	tok, err := entry.ParseToken(data)
	require.NoError(t, err)
	require.Equal(t, alice, tok.Owner)
}

func TestAppliedEvents(t *testing.T) {
	env := mtest.NewEnv(t)
	alice := env.Account("alice")
	bob := env.Account("bob")
	usd := env.Quote("usd")

	env.Fund(alice, usd, 10)

	var events []tx.Event
	env.Engine().OnApplied = func(ev tx.Event) { events = append(events, ev) }

	pay := &token.Payment{Destination: bob.ID, Quote: usd, Amount: 10}
	pay.Account = alice.ID
	mtest.RequireTxSuccess(t, env.Submit(pay))

	fail := &token.Payment{Destination: bob.ID, Quote: usd, Amount: 10}
	fail.Account = alice.ID
	mtest.RequireTxFail(t, env.Submit(fail), tx.TecUNFUNDED)

	// Only the committed transaction produced an event.
	require.Len(t, events, 1)
	require.Equal(t, tx.TypePayment, events[0].Type)
	require.Equal(t, alice.ID, events[0].Account)
	require.NotEmpty(t, events[0].Changes)
}

func TestResultClasses(t *testing.T) {
	require.Equal(t, tx.ClassSuccess, tx.TesSUCCESS.Class())
	require.Equal(t, tx.ClassValidation, tx.TemBAD_PRICE.Class())
	require.Equal(t, tx.ClassAuthorization, tx.TecNO_PERMISSION.Class())
	require.Equal(t, tx.ClassNotFound, tx.TecNOT_LISTED.Class())
	require.Equal(t, tx.ClassPayment, tx.TecUNFUNDED.Class())
	require.Equal(t, tx.ClassCustody, tx.TecNO_CUSTODY.Class())
	require.Equal(t, tx.ClassFingerprint, tx.TecBAD_FINGERPRINT.Class())
	require.Equal(t, tx.ClassStateConflict, tx.TecHAS_RENTER.Class())
	require.Equal(t, tx.ClassInternal, tx.TefINTERNAL.Class())
}
