package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/block"
	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/digest"
	"github.com/eigerco/primitives/internal/extrinsic"
	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/internal/indices"
	"github.com/eigerco/primitives/internal/testutils"
	"github.com/eigerco/primitives/pkg/db"
	"github.com/eigerco/primitives/pkg/db/pebble"
)

func newStore(t *testing.T, opts ...Option) *Chain {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	chain, err := NewChain(kv, hashing.Blake2{}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })
	return chain
}

// createHeaders returns a chain of n headers starting at genesis.
func createHeaders(t *testing.T, n int) []block.Header {
	headers := make([]block.Header, 0, n)
	parent := crypto.Hash{}
	for i := 0; i < n; i++ {
		h := block.NewHeader(uint64(i), crypto.Hash{}, testutils.RandomHash(t), parent, digest.Digest[digest.Item]{})
		headers = append(headers, h)

		var err error
		parent, err = h.Hash(hashing.Blake2{})
		require.NoError(t, err)
	}
	return headers
}

func importHeaders(t *testing.T, chain *Chain, headers []block.Header) []crypto.Hash {
	hashes := make([]crypto.Hash, 0, len(headers))
	for _, h := range headers {
		hash, err := chain.PutHeader(h)
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}
	return hashes
}

func Test_PutGetHeader(t *testing.T) {
	chain := newStore(t)
	header := createHeaders(t, 1)[0]

	hash, err := chain.PutHeader(header)
	require.NoError(t, err)
	expected, err := header.Hash(hashing.Blake2{})
	require.NoError(t, err)
	require.Equal(t, expected, hash)

	result, err := chain.Header(hash)
	require.NoError(t, err)
	require.Equal(t, header, result)

	byNumber, err := chain.BlockHash(0)
	require.NoError(t, err)
	require.Equal(t, hash, byNumber)
}

func Test_GetHeaderNotFound(t *testing.T) {
	chain := newStore(t)
	_, err := chain.Header(testutils.RandomHash(t))
	require.ErrorIs(t, err, ErrBlockNotFound)
	_, err = chain.BlockHash(5)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func Test_Close(t *testing.T) {
	chain := newStore(t)
	err := chain.Close()
	require.NoError(t, err)
	err = chain.Close()
	// Closing a closed chain should have no effect/error
	require.NoError(t, err)
}

func Test_ChainClosed(t *testing.T) {
	chain := newStore(t)
	chain.Close()

	_, err := chain.Header(testutils.RandomHash(t))
	require.Equal(t, ErrChainClosed, err)
	_, err = chain.PutHeader(block.Header{})
	require.Equal(t, ErrChainClosed, err)
	_, err = chain.FindChildren(testutils.RandomHash(t))
	require.Equal(t, ErrChainClosed, err)
	require.Equal(t, ErrChainClosed, chain.SetBestNumber(1))
}

func Test_BlockNumberToHashWindow(t *testing.T) {
	chain := newStore(t, WithBlockHashCount(4))
	hashes := importHeaders(t, chain, createHeaders(t, 11))
	require.Equal(t, uint64(10), chain.CurrentHeight())

	testCases := []struct {
		number uint64
		found  bool
	}{
		{number: 0, found: true},
		{number: 3, found: false},
		{number: 6, found: false},
		{number: 7, found: true},
		{number: 10, found: true},
		{number: 11, found: false},
	}
	for _, tc := range testCases {
		h, ok := chain.BlockNumberToHash(tc.number)
		require.Equal(t, tc.found, ok, "block %d", tc.number)
		if tc.found {
			assert.Equal(t, hashes[tc.number], h)
		}
	}

	// Pruned from the store too, genesis is kept.
	_, err := chain.BlockHash(3)
	require.ErrorIs(t, err, ErrBlockNotFound)
	_, err = chain.BlockHash(0)
	require.NoError(t, err)

	// Headers stay available by hash.
	_, err = chain.Header(hashes[3])
	require.NoError(t, err)
}

func Test_SetBestNumber(t *testing.T) {
	chain := newStore(t, WithBlockHashCount(4))
	importHeaders(t, chain, createHeaders(t, 11))

	require.NoError(t, chain.SetBestNumber(8))
	assert.Equal(t, uint64(8), chain.CurrentHeight())

	_, ok := chain.BlockNumberToHash(10)
	assert.False(t, ok)
	_, ok = chain.BlockNumberToHash(6)
	assert.False(t, ok)
	_, ok = chain.BlockNumberToHash(7)
	assert.True(t, ok)
}

func Test_BestNumberPersists(t *testing.T) {
	dir := t.TempDir()

	kv, err := pebble.NewPebbleStore(dir, 0)
	require.NoError(t, err)
	chain, err := NewChain(kv, hashing.Blake2{})
	require.NoError(t, err)
	hashes := importHeaders(t, chain, createHeaders(t, 3))
	require.NoError(t, chain.Close())

	kv, err = pebble.NewPebbleStore(dir, 0)
	require.NoError(t, err)
	chain, err = NewChain(kv, hashing.Blake2{})
	require.NoError(t, err)
	defer chain.Close()

	assert.Equal(t, uint64(2), chain.CurrentHeight())
	h, ok := chain.BlockNumberToHash(2)
	require.True(t, ok)
	assert.Equal(t, hashes[2], h)
}

func Test_MissingGenesisPanics(t *testing.T) {
	chain := newStore(t)
	headers := createHeaders(t, 2)
	_, err := chain.PutHeader(headers[1])
	require.NoError(t, err)

	require.PanicsWithValue(t, ErrMissingGenesis, func() {
		chain.BlockNumberToHash(0)
	})
}

func Test_EmptyChainHasNoGenesis(t *testing.T) {
	chain := newStore(t)
	_, ok := chain.BlockNumberToHash(0)
	assert.False(t, ok)
}

func Test_PutGetBlock(t *testing.T) {
	chain := newStore(t)

	xts := []block.OpaqueExtrinsic{
		extrinsic.EncodeWithLengthPrefix([]byte{1, 2, 3}),
		extrinsic.EncodeWithLengthPrefix(testutils.RandomBytes(t, 100)),
	}
	leaves, err := block.ExtrinsicsBytes(xts)
	require.NoError(t, err)

	header := createHeaders(t, 1)[0]
	header.SetExtrinsicsRoot(hashing.Blake2{}.OrderedTrieRoot(leaves))
	b := block.NewBlock(header, xts)

	hash, err := chain.PutBlock(b)
	require.NoError(t, err)

	result, err := chain.GetBlock(hash)
	require.NoError(t, err)
	require.Equal(t, b, result)

	root, err := chain.trie.Get(header.ExtrinsicsRoot)
	require.NoError(t, err)
	require.NotNil(t, root)
}

func Test_PutBlockRootMismatch(t *testing.T) {
	chain := newStore(t)
	header := createHeaders(t, 1)[0]
	header.SetExtrinsicsRoot(testutils.RandomHash(t))

	_, err := chain.PutBlock(block.NewBlock(header, []block.OpaqueExtrinsic{
		extrinsic.EncodeWithLengthPrefix([]byte{1}),
	}))
	require.ErrorIs(t, err, ErrExtrinsicsRootMismatch)

	hash, err := header.Hash(hashing.Blake2{})
	require.NoError(t, err)
	_, err = chain.GetBlock(hash)
	require.ErrorIs(t, err, ErrBlockNotFound)
	_, err = chain.Header(hash)
	require.ErrorIs(t, err, ErrBlockNotFound)
	_, ok := chain.BlockNumberToHash(0)
	assert.False(t, ok)
	assert.Zero(t, countKeys(t, chain, prefixTrieNode))
}

func Test_PutBlockWritesTrieWithHeader(t *testing.T) {
	chain := newStore(t)
	xts := []block.OpaqueExtrinsic{extrinsic.EncodeWithLengthPrefix([]byte{1})}
	leaves, err := block.ExtrinsicsBytes(xts)
	require.NoError(t, err)

	header := createHeaders(t, 1)[0]
	header.SetExtrinsicsRoot(hashing.Blake2{}.OrderedTrieRoot(leaves))
	hash, err := chain.PutBlock(block.NewBlock(header, xts))
	require.NoError(t, err)

	assert.NotZero(t, countKeys(t, chain, prefixTrieNode))
	assert.Equal(t, 1, countKeys(t, chain, prefixHeader))
	got, ok := chain.BlockNumberToHash(0)
	require.True(t, ok)
	assert.Equal(t, hash, got)
}

func Test_MaxBlockHashCountKeepsEveryHash(t *testing.T) {
	chain := newStore(t, WithBlockHashCount(math.MaxUint64))
	hashes := importHeaders(t, chain, createHeaders(t, 5))

	for n, want := range hashes {
		h, err := chain.BlockHash(uint64(n))
		require.NoError(t, err, "block %d", n)
		assert.Equal(t, want, h)
	}
}

func countKeys(t *testing.T, chain *Chain, prefix byte) int {
	t.Helper()
	iter, err := chain.db.NewIterator([]byte{prefix}, db.PrefixEnd([]byte{prefix}))
	require.NoError(t, err)
	defer iter.Close()
	n := 0
	for iter.Next() {
		n++
	}
	return n
}

func Test_FindChildren(t *testing.T) {
	chain := newStore(t)
	headers := createHeaders(t, 2)
	hashes := importHeaders(t, chain, headers)

	// A second child of genesis
	sibling := block.NewHeader(1, crypto.Hash{}, testutils.RandomHash(t), hashes[0], digest.Digest[digest.Item]{})
	_, err := chain.PutHeader(sibling)
	require.NoError(t, err)

	children, err := chain.FindChildren(hashes[0])
	require.NoError(t, err)
	require.ElementsMatch(t, []block.Header{headers[1], sibling}, children)

	children, err = chain.FindChildren(hashes[1])
	require.NoError(t, err)
	require.Empty(t, children)
}

func Test_HeaderSequence(t *testing.T) {
	chain := newStore(t)
	headers := createHeaders(t, 5)
	hashes := importHeaders(t, chain, headers)

	sequence, err := chain.HeaderSequence(hashes[0], true, 3)
	require.NoError(t, err)
	require.Equal(t, headers[1:4], sequence)

	sequence, err = chain.HeaderSequence(hashes[0], true, 10)
	require.NoError(t, err)
	require.Equal(t, headers[1:], sequence)

	sequence, err = chain.HeaderSequence(hashes[3], false, 10)
	require.NoError(t, err)
	require.Equal(t, []block.Header{headers[3], headers[2], headers[1], headers[0]}, sequence)

	_, err = chain.HeaderSequence(testutils.RandomHash(t), false, 1)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func Test_ChainContext(t *testing.T) {
	chain := newStore(t)
	hashes := importHeaders(t, chain, createHeaders(t, 3))

	var ctx extrinsic.Context[crypto.Hash, crypto.Hash] = NewChainContext[crypto.Hash, crypto.Hash](chain, indices.IdentityLookup[crypto.Hash]{})
	assert.Equal(t, uint64(2), ctx.CurrentHeight())
	h, ok := ctx.BlockNumberToHash(1)
	require.True(t, ok)
	assert.Equal(t, hashes[1], h)

	id, err := ctx.Lookup(hashes[2])
	require.NoError(t, err)
	assert.Equal(t, hashes[2], id)
}

func TestPrefixToString(t *testing.T) {
	assert.Equal(t, "header", PrefixToString(prefixHeader))
	assert.Equal(t, "number", PrefixToString(prefixNumber))
	assert.Equal(t, "unknown", PrefixToString(0xee))
}
