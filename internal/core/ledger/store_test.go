package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/storage"
)

func TestStoreApplyBatch(t *testing.T) {
	store, err := ledger.NewStore(storage.NewMemoryDB(), 8)
	require.NoError(t, err)

	var col entry.AccountID
	col[0] = 0xc0

	tokenKey := keylet.Token(col, 1)
	askKey := keylet.Ask(col, 1)

	require.NoError(t, store.Insert(askKey, []byte("ask")))

	// One batch installs the token and removes the ask.
	err = store.ApplyBatch([]ledger.Change{
		{Keylet: tokenKey, Data: []byte("token")},
		{Keylet: askKey, Erase: true},
	})
	require.NoError(t, err)

	data, err := store.Read(tokenKey)
	require.NoError(t, err)
	require.Equal(t, []byte("token"), data)

	gone, err := store.Exists(askKey)
	require.NoError(t, err)
	require.False(t, gone)
}

func TestStoreApplyBatchRefreshesCache(t *testing.T) {
	store, err := ledger.NewStore(storage.NewMemoryDB(), 8)
	require.NoError(t, err)

	var col entry.AccountID
	col[0] = 0xc1
	k := keylet.Token(col, 7)

	require.NoError(t, store.Insert(k, []byte("v1")))

	// Warm the cache, then overwrite through the batch path.
	_, err = store.Read(k)
	require.NoError(t, err)

	err = store.ApplyBatch([]ledger.Change{{Keylet: k, Data: []byte("v2")}})
	require.NoError(t, err)

	data, err := store.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), data)
}
