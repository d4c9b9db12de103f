package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// TestBit tests the bit utility function.
func TestBit(t *testing.T) {
	byteSeq := []byte{0xA2} // 10100010 in binary

	expected := []bool{true, false, true, false, false, false, true, false}
	for i, want := range expected {
		assert.Equal(t, want, bit(byteSeq, i), "bit %d", i)
	}
}

func TestRoot(t *testing.T) {
	pairs := [][2][]byte{
		{[]byte("alice"), []byte("100")},
		{[]byte("bob"), []byte("200")},
		{[]byte("charlie"), []byte("300")},
	}

	t.Run("empty trie", func(t *testing.T) {
		assert.Equal(t, crypto.Hash{}, Root(nil, crypto.HashData))
	})

	t.Run("single leaf", func(t *testing.T) {
		leaf := EncodeLeafNode(Key(crypto.HashData([]byte("alice"))), []byte("100"), crypto.HashData)
		assert.Equal(t, crypto.HashData(leaf[:]), Root(pairs[:1], crypto.HashData))
	})

	t.Run("insertion order does not matter", func(t *testing.T) {
		reversed := [][2][]byte{pairs[2], pairs[1], pairs[0]}
		assert.Equal(t, Root(pairs, crypto.HashData), Root(reversed, crypto.HashData))
	})

	t.Run("last duplicate wins", func(t *testing.T) {
		withDuplicate := append([][2][]byte{{[]byte("bob"), []byte("stale")}}, pairs...)
		assert.Equal(t, Root(pairs, crypto.HashData), Root(withDuplicate, crypto.HashData))

		overwritten := append(append([][2][]byte{}, pairs...), [2][]byte{[]byte("bob"), []byte("fresh")})
		assert.NotEqual(t, Root(pairs, crypto.HashData), Root(overwritten, crypto.HashData))
	})

	t.Run("value change changes root", func(t *testing.T) {
		changed := [][2][]byte{pairs[0], pairs[1], {[]byte("charlie"), []byte("301")}}
		assert.NotEqual(t, Root(pairs, crypto.HashData), Root(changed, crypto.HashData))
	})

	t.Run("hash function is part of the root", func(t *testing.T) {
		assert.NotEqual(t, Root(pairs, crypto.HashData), Root(pairs, crypto.KeccakData))
	})
}

func TestOrderedRoot(t *testing.T) {
	values := [][]byte{[]byte("first"), []byte("second"), []byte("third")}

	expected := Root([][2][]byte{
		{scale.EncodeCompact(0), values[0]},
		{scale.EncodeCompact(1), values[1]},
		{scale.EncodeCompact(2), values[2]},
	}, crypto.HashData)
	assert.Equal(t, expected, OrderedRoot(values, crypto.HashData))

	swapped := [][]byte{values[1], values[0], values[2]}
	assert.NotEqual(t, expected, OrderedRoot(swapped, crypto.HashData))
	assert.Equal(t, crypto.Hash{}, OrderedRoot(nil, crypto.HashData))
}
