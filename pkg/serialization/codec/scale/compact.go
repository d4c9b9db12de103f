package scale

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

const (
	// MaxSingleByteCompact is the largest value encoded in the single-byte compact mode.
	MaxSingleByteCompact = 0x3f
	// MaxTwoByteCompact is the largest value encoded in the two-byte compact mode.
	MaxTwoByteCompact = 0x3fff
	// MaxFourByteCompact is the largest value encoded in the four-byte compact mode.
	MaxFourByteCompact = 0x3fffffff

	compactModeMask       = 0b11
	compactModeSingleByte = 0b00
	compactModeTwoByte    = 0b01
	compactModeFourByte   = 0b10
	compactModeBigInteger = 0b11
)

// EncodeCompact serializes x with the variable width compact scheme. The two
// least significant bits of the first byte select the mode:
//
//	0b00: single byte, 6 bit value
//	0b01: two bytes, 14 bit value
//	0b10: four bytes, 30 bit value
//	0b11: upper six bits hold (number of following bytes - 4), value follows little endian
func EncodeCompact(x uint64) []byte {
	switch {
	case x <= MaxSingleByteCompact:
		return []byte{byte(x) << 2}
	case x <= MaxTwoByteCompact:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(x)<<2|compactModeTwoByte)
		return b
	case x <= MaxFourByteCompact:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(x)<<2|compactModeFourByte)
		return b
	default:
		n := (bits.Len64(x) + 7) / 8
		if n < 4 {
			n = 4
		}
		b := make([]byte, 1+n)
		b[0] = byte(n-4)<<2 | compactModeBigInteger
		for i := 0; i < n; i++ {
			b[1+i] = byte(x >> (8 * i))
		}
		return b
	}
}

// CompactLength returns the number of bytes EncodeCompact(x) produces.
func CompactLength(x uint64) int {
	switch {
	case x <= MaxSingleByteCompact:
		return 1
	case x <= MaxTwoByteCompact:
		return 2
	case x <= MaxFourByteCompact:
		return 4
	default:
		n := (bits.Len64(x) + 7) / 8
		if n < 4 {
			n = 4
		}
		return 1 + n
	}
}

// DecodeCompact reads a single compact integer from r. Encodings that are not
// minimal are rejected.
func DecodeCompact(r io.Reader) (uint64, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, fmt.Errorf(ErrReadingByte, err)
	}

	switch first[0] & compactModeMask {
	case compactModeSingleByte:
		return uint64(first[0] >> 2), nil
	case compactModeTwoByte:
		var rest [1]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return 0, fmt.Errorf(ErrReadingBytes, err)
		}
		v := uint64(binary.LittleEndian.Uint16([]byte{first[0], rest[0]}) >> 2)
		if v <= MaxSingleByteCompact {
			return 0, ErrNonCanonicalCompact
		}
		return v, nil
	case compactModeFourByte:
		buf := make([]byte, 4)
		buf[0] = first[0]
		if _, err := io.ReadFull(r, buf[1:]); err != nil {
			return 0, fmt.Errorf(ErrReadingBytes, err)
		}
		v := uint64(binary.LittleEndian.Uint32(buf) >> 2)
		if v <= MaxTwoByteCompact {
			return 0, ErrNonCanonicalCompact
		}
		return v, nil
	default:
		n := int(first[0]>>2) + 4
		if n > 8 {
			return 0, ErrCompactOverflow
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, fmt.Errorf(ErrReadingBytes, err)
		}
		var v uint64
		for i := 0; i < n; i++ {
			v |= uint64(buf[i]) << (8 * i)
		}
		if v <= MaxFourByteCompact || (n > 4 && buf[n-1] == 0) {
			return 0, ErrNonCanonicalCompact
		}
		return v, nil
	}
}
