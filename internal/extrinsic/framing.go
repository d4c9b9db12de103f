package extrinsic

import (
	"fmt"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

const (
	// TransactionVersion is carried in the low seven bits of the version byte
	// of mortal extrinsics.
	TransactionVersion uint8 = 1

	signedFlag  uint8 = 0x80
	versionMask uint8 = 0x7f
)

// EncodeWithLengthPrefix prepends the compact encoded length of payload.
func EncodeWithLengthPrefix(payload []byte) []byte {
	prefix := scale.EncodeCompact(uint64(len(payload)))
	out := make([]byte, 0, len(prefix)+len(payload))
	out = append(out, prefix...)
	return append(out, payload...)
}

// skipLengthPrefix consumes the length marker. The fields that follow are
// decoded one by one, the declared length is not used to bound them.
func skipLengthPrefix(d *scale.Decoder) error {
	if _, err := d.DecodeCompact(); err != nil {
		return fmt.Errorf("decoding extrinsic length: %w", err)
	}
	return nil
}

func versionByte(signed bool) byte {
	if signed {
		return TransactionVersion | signedFlag
	}
	return TransactionVersion
}

func readVersion(d *scale.Decoder) (signed bool, err error) {
	var v uint8
	if err := d.Decode(&v); err != nil {
		return false, fmt.Errorf("decoding extrinsic version: %w", err)
	}
	if v&versionMask != TransactionVersion {
		return false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v&versionMask)
	}
	return v&signedFlag != 0, nil
}
