package digest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

func TestItemDiscriminants(t *testing.T) {
	root := crypto.Hash{0xaa, 0xbb}
	sig := SealSignature{1, 2, 3}

	testCases := []struct {
		name     string
		item     Item
		expected []byte
	}{
		{
			name:     "other",
			item:     Item{Other{1, 2, 3}},
			expected: []byte{0x00, 0x0c, 1, 2, 3},
		},
		{
			name:     "authorities change",
			item:     Item{AuthoritiesChange{{1}, {2}}},
			expected: append(append([]byte{0x01, 0x08}, AuthorityID{1}.bytes()...), AuthorityID{2}.bytes()...),
		},
		{
			name:     "changes trie root",
			item:     Item{ChangesTrieRoot(root)},
			expected: append([]byte{0x02}, root[:]...),
		},
		{
			name:     "seal",
			item:     Item{Seal{Slot: 5, Signature: sig}},
			expected: append([]byte{0x03, 5, 0, 0, 0, 0, 0, 0, 0}, sig[:]...),
		},
		{
			name:     "consensus",
			item:     Item{Consensus{EngineID: EngineID{'a', 'u', 'r', 'a'}, Data: []byte{9}}},
			expected: []byte{0x04, 'a', 'u', 'r', 'a', 0x04, 9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := scale.Marshal(tc.item)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, b)

			var decoded Item
			require.NoError(t, scale.Unmarshal(b, &decoded))
			assert.Equal(t, tc.item, decoded)
		})
	}
}

func (a AuthorityID) bytes() []byte {
	return a[:]
}

func TestItemAccessors(t *testing.T) {
	root := Item{ChangesTrieRoot{7}}
	h, ok := root.AsChangesTrieRoot()
	assert.True(t, ok)
	assert.Equal(t, crypto.Hash{7}, h)
	_, ok = root.AsOther()
	assert.False(t, ok)

	authorities, ok := Item{AuthoritiesChange{{1}}}.AsAuthoritiesChange()
	assert.True(t, ok)
	assert.Equal(t, []AuthorityID{{1}}, authorities)

	slot, sig, ok := Item{Seal{Slot: 3, Signature: SealSignature{4}}}.AsSeal()
	assert.True(t, ok)
	assert.Equal(t, uint64(3), slot)
	assert.Equal(t, SealSignature{4}, sig)

	engine, data, ok := Item{Consensus{EngineID{'b', 'a', 'b', 'e'}, []byte{1}}}.AsConsensus()
	assert.True(t, ok)
	assert.Equal(t, EngineID{'b', 'a', 'b', 'e'}, engine)
	assert.Equal(t, []byte{1}, data)

	other, ok := Item{Other{5}}.AsOther()
	assert.True(t, ok)
	assert.Equal(t, []byte{5}, other)
	_, ok = Item{Other{5}}.AsChangesTrieRoot()
	assert.False(t, ok)
}

func TestItemErrors(t *testing.T) {
	var decoded Item
	err := scale.Unmarshal([]byte{0x09, 0x00}, &decoded)
	assert.ErrorIs(t, err, ErrUnknownItemType)

	err = scale.Unmarshal([]byte{0x02, 0x01}, &decoded)
	assert.Error(t, err)

	_, err = scale.Marshal(Item{Inner: "not an item"})
	assert.ErrorIs(t, err, ErrUnsupportedItem)

	_, err = NewItem(42)
	assert.ErrorIs(t, err, ErrUnsupportedItem)

	item, err := NewItem(Other{1})
	require.NoError(t, err)
	assert.Equal(t, OtherType, item.Type())

	_, err = EncodeItem(ItemRef{Type: ChangesTrieRootType})
	assert.ErrorIs(t, err, ErrMissingPayload)
}

func TestItemRefEncodesLikeItem(t *testing.T) {
	item, err := NewItem(Other{1, 2, 3})
	require.NoError(t, err)

	expected, err := EncodeItem(item)
	require.NoError(t, err)
	actual, err := EncodeItem(item.Ref())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x0c, 1, 2, 3}, actual)
	assert.Equal(t, expected, actual)
}

// runtimeItem is a runtime specific digest item with its own authority type
// and an extra variant that maps onto Other.
type sr25519Authority [32]byte

type runtimeItem struct {
	authorities []sr25519Authority
	root        *crypto.Hash
	note        string
}

func (r runtimeItem) Ref() ItemRef {
	switch {
	case r.authorities != nil:
		return ItemRef{Type: AuthoritiesChangeType, Authorities: r.authorities}
	case r.root != nil:
		return ItemRef{Type: ChangesTrieRootType, ChangesTrieRoot: *r.root}
	default:
		return ItemRef{Type: OtherType, Data: []byte(r.note)}
	}
}

func TestRuntimeItemIsBinaryCompatible(t *testing.T) {
	root := crypto.Hash{3}
	testCases := []struct {
		runtime runtimeItem
		generic Item
	}{
		{runtimeItem{authorities: []sr25519Authority{{1}, {2}}}, Item{AuthoritiesChange{{1}, {2}}}},
		{runtimeItem{root: &root}, Item{ChangesTrieRoot(root)}},
		{runtimeItem{note: "hi"}, Item{Other("hi")}},
	}

	for _, tc := range testCases {
		b, err := EncodeItem(tc.runtime)
		require.NoError(t, err)

		expected, err := scale.Marshal(tc.generic)
		require.NoError(t, err)
		assert.Equal(t, expected, b)

		var decoded Item
		require.NoError(t, decoded.UnmarshalSCALE(bytes.NewReader(b)))
		assert.Equal(t, tc.generic, decoded)
	}
}

func TestItemJSON(t *testing.T) {
	b, err := Item{ChangesTrieRoot{1}}.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"ChangesTrieRoot"`)
	assert.Contains(t, string(b), `"value":"0x01`)
}
