package scale

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCompact(t *testing.T) {
	testCases := []struct {
		input    uint64
		expected []byte
	}{
		// single byte
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{MaxSingleByteCompact, []byte{0xfc}},
		// two bytes
		{MaxSingleByteCompact + 1, []byte{0x01, 0x01}},
		{MaxTwoByteCompact, []byte{0xfd, 0xff}},
		// four bytes
		{MaxTwoByteCompact + 1, []byte{0x02, 0x00, 0x01, 0x00}},
		{MaxFourByteCompact, []byte{0xfe, 0xff, 0xff, 0xff}},
		// big integer
		{MaxFourByteCompact + 1, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{math.MaxUint32, []byte{0x03, 0xff, 0xff, 0xff, 0xff}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{math.MaxUint64, []byte{0x13, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("compact(%d)", tc.input), func(t *testing.T) {
			encoded := EncodeCompact(tc.input)
			assert.Equal(t, tc.expected, encoded)
			assert.Equal(t, len(tc.expected), CompactLength(tc.input))

			decoded, err := DecodeCompact(bytes.NewReader(encoded))
			require.NoError(t, err)
			assert.Equal(t, tc.input, decoded)
		})
	}
}

func TestDecodeCompactRejectsNonCanonical(t *testing.T) {
	testCases := map[string]struct {
		input []byte
		err   error
	}{
		"two byte mode holding a single byte value": {
			input: []byte{0x01, 0x00},
			err:   ErrNonCanonicalCompact,
		},
		"four byte mode holding a two byte value": {
			input: []byte{0x02, 0x00, 0x00, 0x00},
			err:   ErrNonCanonicalCompact,
		},
		"big integer mode holding a four byte value": {
			input: []byte{0x03, 0xff, 0xff, 0xff, 0x3f},
			err:   ErrNonCanonicalCompact,
		},
		"big integer mode with trailing zero byte": {
			input: []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x00},
			err:   ErrNonCanonicalCompact,
		},
		"more than eight bytes": {
			input: []byte{0x17, 0, 0, 0, 0, 0, 0, 0, 0, 1},
			err:   ErrCompactOverflow,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCompact(bytes.NewReader(tc.input))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecodeCompactTruncated(t *testing.T) {
	for _, input := range [][]byte{{}, {0x01}, {0x02, 0x00}, {0x03, 0x00, 0x00}} {
		_, err := DecodeCompact(bytes.NewReader(input))
		assert.Error(t, err)
	}
}
