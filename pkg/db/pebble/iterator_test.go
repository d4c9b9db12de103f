package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/pkg/db"
)

func collect(t *testing.T, store db.KVStore, start, end []byte) []string {
	iter, err := store.NewIterator(start, end)
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		value, err := iter.Value()
		require.NoError(t, err)
		assert.Equal(t, "value-"+string(iter.Key()), string(value))
		keys = append(keys, string(iter.Key()))
	}
	return keys
}

func TestIterator(t *testing.T) {
	store, err := NewKVStore()
	require.NoError(t, err)
	defer store.Close()

	for _, k := range []string{"d", "a", "c", "e", "b", "ba"} {
		require.NoError(t, store.Put([]byte(k), []byte("value-"+k)))
	}

	assert.Equal(t, []string{"a", "b", "ba", "c", "d", "e"}, collect(t, store, nil, nil))
	assert.Equal(t, []string{"b", "ba", "c", "d"}, collect(t, store, []byte("b"), []byte("e")))
	assert.Equal(t, []string{"b", "ba"}, collect(t, store, []byte("b"), db.PrefixEnd([]byte("b"))))
	assert.Empty(t, collect(t, store, []byte("x"), nil))
}

func TestIteratorValidity(t *testing.T) {
	store, err := NewKVStore()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put([]byte("key1"), []byte("value1")))

	iter, err := store.NewIterator(nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	assert.False(t, iter.Valid())
	assert.True(t, iter.Next())
	assert.True(t, iter.Valid())

	assert.False(t, iter.Next())
	assert.False(t, iter.Valid())

	_, err = iter.Value()
	assert.ErrorIs(t, err, ErrIteratorInvalid)
}
