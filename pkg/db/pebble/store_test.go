package pebble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/pkg/db"
)

func TestKVStore(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{name: "basic_put_get", fn: testBasicPutGet},
		{name: "delete_operations", fn: testDelete},
		{name: "store_closure", fn: testStoreClosure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewKVStore()
			require.NoError(t, err)
			defer store.Close()

			tc.fn(t, store)
		})
	}
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	key := []byte("header-key")
	value := []byte("encoded-header")

	require.NoError(t, store.Put(key, value))

	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	ok, err := store.Has(key)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.Get([]byte("non-existent"))
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = store.Has([]byte("non-existent"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDelete(t *testing.T, store db.KVStore) {
	key := []byte("delete-test")

	require.NoError(t, store.Put(key, []byte("to-be-deleted")))
	require.NoError(t, store.Delete(key))

	_, err := store.Get(key)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, store.Delete([]byte("non-existent")))
}

func testStoreClosure(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Close())

	_, err := store.Get([]byte("key"))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = store.Has([]byte("key"))
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, store.Put([]byte("key"), []byte("value")), ErrClosed)
	assert.ErrorIs(t, store.Delete([]byte("key")), ErrClosed)

	_, err = store.NewIterator(nil, nil)
	assert.ErrorIs(t, err, ErrClosed)

	assert.NoError(t, store.Close())
}

func TestPebbleStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain")

	store, err := NewPebbleStore(path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Put([]byte("best"), []byte{1}))
	require.NoError(t, store.Close())

	store, err = NewPebbleStore(path, 1<<20)
	require.NoError(t, err)
	defer store.Close()

	value, err := store.Get([]byte("best"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, value)
}
