package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// RequireTxSuccess asserts that a transaction applied cleanly.
func RequireTxSuccess(t *testing.T, result tx.Result) {
	t.Helper()
	require.Equal(t, tx.TesSUCCESS, result,
		"expected tesSUCCESS, got %s (%s)", result, result.Message())
}

// RequireTxFail asserts that a transaction failed with the given code.
func RequireTxFail(t *testing.T, result tx.Result, expected tx.Result) {
	t.Helper()
	require.Equal(t, expected, result,
		"expected %s, got %s (%s)", expected, result, result.Message())
}

// RequireBalance asserts an account's balance in a quote asset.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, quote entry.AccountID, expected uint64) {
	t.Helper()
	actual := env.Balance(acc, quote)
	require.Equal(t, expected, actual,
		"account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireTokenOwner asserts who holds custody of a whole asset.
func RequireTokenOwner(t *testing.T, env *TestEnv, collection entry.AccountID, tokenID uint64, expected entry.AccountID) {
	t.Helper()
	actual := env.TokenOwner(collection, tokenID)
	require.Equal(t, expected, actual,
		"token %d owner mismatch: expected %s, got %s", tokenID, expected, actual)
}

// RequireUnits asserts a holder's fractional quantity.
func RequireUnits(t *testing.T, env *TestEnv, collection entry.AccountID, tokenID uint64, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Units(collection, tokenID, acc)
	require.Equal(t, expected, actual,
		"account %s units mismatch: expected %d, got %d", acc.Name, expected, actual)
}
