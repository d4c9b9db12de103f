package trie

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/crypto"
)

func TestEncodeLeafNode(t *testing.T) {
	testCases := []struct {
		name     string
		value    []byte
		embedded bool
	}{
		{"empty value", []byte{}, true},
		{"small value", []byte("test"), true},
		{"max embedded value size", bytes.Repeat([]byte{1}, EmbeddedValueMaxSize), true},
		{"hashed value", bytes.Repeat([]byte{2}, EmbeddedValueMaxSize+1), false},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := Key{byte(i + 1), 0xaa}
			node := EncodeLeafNode(key, tc.value, crypto.HashData)

			assert.True(t, node.IsLeaf())
			assert.False(t, node.IsBranch())
			assert.Equal(t, tc.embedded, node.IsEmbeddedLeaf())

			gotKey, err := node.GetLeafKey()
			require.NoError(t, err)
			assert.Equal(t, key[:31], gotKey[:31])

			_, _, err = node.GetBranchHashes()
			assert.ErrorIs(t, err, ErrNotBranchNode)

			if tc.embedded {
				assert.Equal(t, LeafNodeFlag|byte(len(tc.value)), node[0])
				gotValue, err := node.GetLeafValue()
				require.NoError(t, err)
				assert.Equal(t, tc.value, gotValue)
				for j := 32 + len(tc.value); j < NodeSize; j++ {
					assert.Zero(t, node[j])
				}
				_, err = node.GetLeafValueHash()
				assert.ErrorIs(t, err, ErrEmbeddedLeafInsteadOfRegular)
				return
			}

			assert.Equal(t, LeafNodeFlag|NotEmbeddedLeafFlag, node[0])
			_, err = node.GetLeafValue()
			assert.ErrorIs(t, err, ErrNotEmbeddedLeaf)
			valueHash, err := node.GetLeafValueHash()
			require.NoError(t, err)
			assert.Equal(t, crypto.HashData(tc.value), valueHash)
		})
	}
}

func TestEncodeBranchNode(t *testing.T) {
	left := crypto.Hash{0xff, 2, 3}
	right := crypto.Hash{32, 31, 30}

	node := EncodeBranchNode(left, right)
	assert.True(t, node.IsBranch())

	gotLeft, gotRight, err := node.GetBranchHashes()
	require.NoError(t, err)
	assert.Equal(t, byte(0x7f), gotLeft[0])
	assert.Equal(t, left[1:], gotLeft[1:])
	assert.Equal(t, right, gotRight)

	_, err = node.GetLeafKey()
	assert.ErrorIs(t, err, ErrNotLeafNode)
}
