package indices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/testutils"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

type accountID [4]byte

func TestAddressEncoding(t *testing.T) {
	testCases := []struct {
		name     string
		address  Address[accountID]
		expected string
	}{
		{name: "index 0", address: AddressFromIndex[accountID](0), expected: "00"},
		{name: "largest single byte", address: AddressFromIndex[accountID](0xef), expected: "ef"},
		{name: "smallest u16", address: AddressFromIndex[accountID](0xf0), expected: "fc f000"},
		{name: "largest u16", address: AddressFromIndex[accountID](0xffff), expected: "fc ffff"},
		{name: "smallest u32", address: AddressFromIndex[accountID](0x10000), expected: "fd 00000100"},
		{name: "id", address: AddressFromID(accountID{1, 2, 3, 4}), expected: "ff 01020304"},
		{name: "zero value", address: Address[accountID]{}, expected: "ff 00000000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := scale.Marshal(tc.address)
			require.NoError(t, err)
			testutils.RequireEqualBytes(t, testutils.MustDecodeHex(t, tc.expected), encoded)

			var decoded Address[accountID]
			require.NoError(t, scale.Unmarshal(encoded, &decoded))
			assert.Equal(t, tc.address, decoded)
		})
	}
}

func TestAddressRejectsNonMinimal(t *testing.T) {
	testCases := []struct {
		name    string
		encoded string
	}{
		{name: "u16 holding a single byte index", encoded: "fc ef00"},
		{name: "u32 holding a u16 index", encoded: "fd ffff0000"},
		{name: "u64 index", encoded: "fe 0000000001000000"},
		{name: "reserved marker", encoded: "f0"},
		{name: "reserved marker fb", encoded: "fb"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a Address[accountID]
			err := scale.Unmarshal(testutils.MustDecodeHex(t, tc.encoded), &a)
			require.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestAddressTruncated(t *testing.T) {
	for _, encoded := range []string{"", "fc 01", "fd 010203", "ff 0102"} {
		var a Address[accountID]
		require.Error(t, scale.Unmarshal(testutils.MustDecodeHex(t, encoded), &a), encoded)
	}
}

func TestAddressAccessors(t *testing.T) {
	a := AddressFromIndex[accountID](42)
	index, ok := a.Index()
	require.True(t, ok)
	assert.Equal(t, uint32(42), index)
	_, ok = a.ID()
	assert.False(t, ok)
	assert.Equal(t, "index:42", a.String())

	b := AddressFromID(accountID{0xde, 0xad, 0xbe, 0xef})
	id, ok := b.ID()
	require.True(t, ok)
	assert.Equal(t, accountID{0xde, 0xad, 0xbe, 0xef}, id)
	assert.Equal(t, "0xdeadbeef", b.String())
}
