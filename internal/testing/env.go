// Package testing provides a test harness for applying marketplace
// transactions against an in-memory ledger with a controllable clock.
package testing

import (
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/tx/feecfg"
	crypto "github.com/LeJamon/goMarketd/internal/crypto/common"

	_ "github.com/LeJamon/goMarketd/internal/core/tx/all"
)

// Account is a named test identity.
type Account struct {
	Name string
	ID   entry.AccountID
}

// TestEnv manages a test ledger environment for transaction testing. It
// provides named accounts, funding and minting helpers, submission at a
// manual clock, and direct state reads for assertions.
type TestEnv struct {
	t        *testing.T
	state    *ledger.StateMap
	engine   *tx.Engine
	clock    *ManualClock
	accounts map[string]*Account

	// Owner and FeeSink are the bootstrapped market owner and protocol
	// fee recipient.
	Owner   *Account
	FeeSink *Account
}

// NewEnv creates a fresh environment with zero protocol fees. Tests adjust
// fees through SetFees.
func NewEnv(t *testing.T) *TestEnv {
	t.Helper()

	env := &TestEnv{
		t:        t,
		state:    ledger.NewStateMap(),
		clock:    NewManualClock(),
		accounts: make(map[string]*Account),
	}
	env.engine = tx.NewEngine(env.state)
	env.engine.SetClock(env.clock)

	env.Owner = env.Account("market-owner")
	env.FeeSink = env.Account("fee-sink")
	if err := env.engine.Bootstrap(&entry.FeeConfig{
		Owner:        env.Owner.ID,
		FeeRecipient: env.FeeSink.ID,
	}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return env
}

// Account returns the named identity, creating it deterministically on
// first use.
func (env *TestEnv) Account(name string) *Account {
	if acc, ok := env.accounts[name]; ok {
		return acc
	}
	hash := crypto.Sha512Half([]byte("test-account"), []byte(name))
	var id entry.AccountID
	copy(id[:], hash[:20])
	acc := &Account{Name: name, ID: id}
	env.accounts[name] = acc
	return acc
}

// Quote returns a deterministic quote-asset identity for the name.
func (env *TestEnv) Quote(name string) entry.AccountID {
	return env.Account("quote-" + name).ID
}

// Collection returns a deterministic collection identity for the name.
func (env *TestEnv) Collection(name string) entry.AccountID {
	return env.Account("collection-" + name).ID
}

// Engine exposes the underlying engine, for provider registration.
func (env *TestEnv) Engine() *tx.Engine { return env.engine }

// Clock exposes the manual clock.
func (env *TestEnv) Clock() *ManualClock { return env.clock }

// Now returns the clock's current unix time.
func (env *TestEnv) Now() int64 { return env.clock.Now().Unix() }

// Advance moves the clock forward.
func (env *TestEnv) Advance(d time.Duration) { env.clock.Advance(d) }

// Submit applies a transaction at the current clock time.
func (env *TestEnv) Submit(t tx.Transaction) tx.Result {
	env.t.Helper()
	return env.engine.Apply(t)
}

// SubmitAt applies a transaction at an explicit time.
func (env *TestEnv) SubmitAt(t tx.Transaction, at time.Time) tx.Result {
	env.t.Helper()
	return env.engine.ApplyAt(t, at)
}

// Fund credits an account with funds, bypassing the transaction layer.
func (env *TestEnv) Fund(acc *Account, quote entry.AccountID, amount uint64) {
	env.t.Helper()
	k := keylet.Balance(acc.ID, quote)
	data, err := env.state.Read(k)
	if err != nil {
		env.t.Fatalf("fund %s: %v", acc.Name, err)
	}
	bal := &entry.Balance{Holder: acc.ID, Quote: quote}
	if data != nil {
		if bal, err = entry.ParseBalance(data); err != nil {
			env.t.Fatalf("fund %s: %v", acc.Name, err)
		}
	}
	bal.Amount += amount
	out, err := entry.SerializeBalance(bal)
	if err != nil {
		env.t.Fatalf("fund %s: %v", acc.Name, err)
	}
	if data != nil {
		err = env.state.Update(k, out)
	} else {
		err = env.state.Insert(k, out)
	}
	if err != nil {
		env.t.Fatalf("fund %s: %v", acc.Name, err)
	}
}

// MintToken creates a whole asset owned by the account, bypassing the
// transaction layer.
func (env *TestEnv) MintToken(acc *Account, collection entry.AccountID, tokenID uint64, fingerprint []byte) {
	env.t.Helper()
	data, err := entry.SerializeToken(&entry.Token{
		Collection:  collection,
		TokenID:     tokenID,
		Owner:       acc.ID,
		Fingerprint: fingerprint,
	})
	if err != nil {
		env.t.Fatalf("mint token: %v", err)
	}
	if err := env.state.Insert(keylet.Token(collection, tokenID), data); err != nil {
		env.t.Fatalf("mint token: %v", err)
	}
}

// MintUnits credits the account with fractional units, bypassing the
// transaction layer.
func (env *TestEnv) MintUnits(acc *Account, collection entry.AccountID, tokenID uint64, quantity uint64) {
	env.t.Helper()
	k := keylet.Units(collection, tokenID, acc.ID)
	data, err := env.state.Read(k)
	if err != nil {
		env.t.Fatalf("mint units: %v", err)
	}
	units := &entry.Units{Collection: collection, TokenID: tokenID, Holder: acc.ID}
	if data != nil {
		if units, err = entry.ParseUnits(data); err != nil {
			env.t.Fatalf("mint units: %v", err)
		}
	}
	units.Quantity += quantity
	out, err := entry.SerializeUnits(units)
	if err != nil {
		env.t.Fatalf("mint units: %v", err)
	}
	if data != nil {
		err = env.state.Update(k, out)
	} else {
		err = env.state.Insert(k, out)
	}
	if err != nil {
		env.t.Fatalf("mint units: %v", err)
	}
}

// SetFees applies a FeeConfigSet as the market owner.
func (env *TestEnv) SetFees(protocolBps, minIncrementBps uint32) {
	env.t.Helper()
	set := &feecfg.FeeConfigSet{
		FeeRecipient:    env.FeeSink.ID,
		ProtocolFeeBps:  protocolBps,
		MinIncrementBps: minIncrementBps,
	}
	set.Account = env.Owner.ID
	if res := env.Submit(set); res != tx.TesSUCCESS {
		env.t.Fatalf("set fees: %s", res)
	}
}

// SetRoyalties installs a collection royalty schedule as the market owner.
func (env *TestEnv) SetRoyalties(collection entry.AccountID, recipients []entry.AccountID, ratesBps []uint32) {
	env.t.Helper()
	set := &feecfg.RoyaltySet{
		Collection: collection,
		Recipients: recipients,
		RatesBps:   ratesBps,
	}
	set.Account = env.Owner.ID
	if res := env.Submit(set); res != tx.TesSUCCESS {
		env.t.Fatalf("set royalties: %s", res)
	}
}

// Balance reads an account's balance in a quote asset.
func (env *TestEnv) Balance(acc *Account, quote entry.AccountID) uint64 {
	env.t.Helper()
	return env.balanceOf(acc.ID, quote)
}

// EscrowBalance reads the market escrow's balance in a quote asset.
func (env *TestEnv) EscrowBalance(quote entry.AccountID) uint64 {
	env.t.Helper()
	return env.balanceOf(entry.MarketAccount, quote)
}

func (env *TestEnv) balanceOf(id, quote entry.AccountID) uint64 {
	data, err := env.state.Read(keylet.Balance(id, quote))
	if err != nil {
		env.t.Fatalf("read balance: %v", err)
	}
	if data == nil {
		return 0
	}
	bal, err := entry.ParseBalance(data)
	if err != nil {
		env.t.Fatalf("read balance: %v", err)
	}
	return bal.Amount
}

// TokenOwner reads a whole asset's current owner.
func (env *TestEnv) TokenOwner(collection entry.AccountID, tokenID uint64) entry.AccountID {
	env.t.Helper()
	data, err := env.state.Read(keylet.Token(collection, tokenID))
	if err != nil {
		env.t.Fatalf("read token: %v", err)
	}
	if data == nil {
		return entry.ZeroAccount
	}
	token, err := entry.ParseToken(data)
	if err != nil {
		env.t.Fatalf("read token: %v", err)
	}
	return token.Owner
}

// Units reads a holder's fractional quantity.
func (env *TestEnv) Units(collection entry.AccountID, tokenID uint64, acc *Account) uint64 {
	env.t.Helper()
	data, err := env.state.Read(keylet.Units(collection, tokenID, acc.ID))
	if err != nil {
		env.t.Fatalf("read units: %v", err)
	}
	if data == nil {
		return 0
	}
	units, err := entry.ParseUnits(data)
	if err != nil {
		env.t.Fatalf("read units: %v", err)
	}
	return units.Quantity
}

// EscrowUnits reads the market escrow's fractional quantity.
func (env *TestEnv) EscrowUnits(collection entry.AccountID, tokenID uint64) uint64 {
	env.t.Helper()
	data, err := env.state.Read(keylet.Units(collection, tokenID, entry.MarketAccount))
	if err != nil {
		env.t.Fatalf("read units: %v", err)
	}
	if data == nil {
		return 0
	}
	units, err := entry.ParseUnits(data)
	if err != nil {
		env.t.Fatalf("read units: %v", err)
	}
	return units.Quantity
}

// Exists reports whether a ledger entry is present.
func (env *TestEnv) Exists(k keylet.Keylet) bool {
	env.t.Helper()
	ok, err := env.state.Exists(k)
	if err != nil {
		env.t.Fatalf("exists: %v", err)
	}
	return ok
}
