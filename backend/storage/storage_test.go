package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sqlify.db"))
	require.NoError(t, err)
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	value, ok, err := store.Get("nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeyToken, "first"))
	require.NoError(t, store.Set(KeyToken, "second"))

	value, ok, err := store.Get(KeyToken)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set(KeyUser, `{"user_id": 1}`))
	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Delete(KeyUser, KeyToken))

	_, ok, err := store.Get(KeyUser)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is fine.
	assert.NoError(t, store.Delete(KeyUser))
	assert.NoError(t, store.Delete())
}
