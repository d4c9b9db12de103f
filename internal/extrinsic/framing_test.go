package extrinsic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

func TestEncodeWithLengthPrefix(t *testing.T) {
	testCases := []struct {
		size   int
		prefix []byte
	}{
		{size: 0, prefix: []byte{0x00}},
		{size: 63, prefix: []byte{0xfc}},
		{size: 64, prefix: []byte{0x01, 0x01}},
		{size: 16383, prefix: []byte{0xfd, 0xff}},
		{size: 16384, prefix: []byte{0x02, 0x00, 0x01, 0x00}},
	}

	for _, tc := range testCases {
		payload := bytes.Repeat([]byte{0x5a}, tc.size)
		out := EncodeWithLengthPrefix(payload)
		require.Len(t, out, len(tc.prefix)+tc.size)
		assert.Equal(t, tc.prefix, out[:len(tc.prefix)], "size %d", tc.size)
		assert.Equal(t, payload, out[len(tc.prefix):])

		r := bytes.NewReader(out)
		require.NoError(t, skipLengthPrefix(scale.NewDecoder(r)))
		assert.Equal(t, tc.size, r.Len())
	}
}

func TestVersionByteLayout(t *testing.T) {
	assert.Equal(t, byte(0x81), versionByte(true))
	assert.Equal(t, byte(0x01), versionByte(false))
}
