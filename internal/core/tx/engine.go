package tx

import (
	"strings"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

// Clock supplies the settlement timestamp. Production uses the wall clock;
// tests substitute a manual one.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Event describes one applied transaction, delivered to the OnApplied hook
// after a successful commit.
type Event struct {
	Type    Type
	Account entry.AccountID
	Result  Result
	Changes []TrackedEntry
}

// Engine applies transactions to a ledger view. Applications are serialized
// under a single lock, so the sequence of committed transactions forms a
// total order.
type Engine struct {
	mu    sync.Mutex
	state ledger.View
	clock Clock

	providersMu sync.RWMutex
	providers   map[string]RoyaltyProvider

	// OnApplied, if set, is called after every successful commit while
	// the engine lock is held. Keep it fast.
	OnApplied func(Event)
}

// NewEngine creates an engine over the given state with the wall clock.
func NewEngine(state ledger.View) *Engine {
	return &Engine{
		state:     state,
		clock:     wallClock{},
		providers: make(map[string]RoyaltyProvider),
	}
}

// SetClock replaces the engine clock. Intended for tests.
func (e *Engine) SetClock(c Clock) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = c
}

// RegisterProvider installs a royalty provider under a name that collection
// royalty tables can reference.
func (e *Engine) RegisterProvider(name string, p RoyaltyProvider) {
	e.providersMu.Lock()
	defer e.providersMu.Unlock()
	e.providers[name] = p
}

func (e *Engine) provider(name string) (RoyaltyProvider, bool) {
	e.providersMu.RLock()
	defer e.providersMu.RUnlock()
	p, ok := e.providers[name]
	return p, ok
}

// Apply validates and applies a transaction at the current clock time.
func (e *Engine) Apply(t Transaction) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(t, e.clock.Now())
}

// ApplyAt validates and applies a transaction at an explicit time.
func (e *Engine) ApplyAt(t Transaction, now time.Time) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(t, now)
}

func (e *Engine) applyLocked(t Transaction, now time.Time) Result {
	if err := t.Validate(); err != nil {
		return resultFromValidation(err)
	}

	table := NewApplyStateTable(e.state)
	ctx := &ApplyContext{
		View:   table,
		Caller: callerOf(t),
		Now:    now.Unix(),
		engine: e,
	}

	res := t.Apply(ctx)
	if res != TesSUCCESS {
		// The buffer is dropped, nothing reached the state.
		return res
	}
	if err := table.Commit(); err != nil {
		return TefINTERNAL
	}
	if e.OnApplied != nil {
		e.OnApplied(Event{
			Type:    t.TxType(),
			Account: ctx.Caller,
			Result:  res,
			Changes: table.Changes(),
		})
	}
	return res
}

// Bootstrap seeds the fee configuration. It is a no-op if a configuration
// already exists, so restarting a node never clobbers admin changes.
func (e *Engine) Bootstrap(cfg *entry.FeeConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	k := keylet.FeeConfig()
	exists, err := e.state.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	data, err := entry.SerializeFeeConfig(cfg)
	if err != nil {
		return err
	}
	return e.state.Insert(k, data)
}

type accountCarrier interface {
	account() entry.AccountID
}

func (b *BaseTx) account() entry.AccountID { return b.Account }

func callerOf(t Transaction) entry.AccountID {
	if c, ok := t.(accountCarrier); ok {
		return c.account()
	}
	return entry.ZeroAccount
}

// resultFromValidation maps a Validate error onto its tem code. Validation
// errors are prefixed with the code name, e.g. "temBAD_PRICE: price is
// zero". Unprefixed errors fall back to temMALFORMED.
func resultFromValidation(err error) Result {
	msg := err.Error()
	if idx := strings.IndexByte(msg, ':'); idx > 0 {
		if r, ok := ResultFromName(msg[:idx]); ok && r.IsTem() {
			return r
		}
	}
	return TemMALFORMED
}
