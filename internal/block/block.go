package block

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// Block is a header together with the extrinsics it commits to, in order.
type Block[H, X any] struct {
	Header     H
	Extrinsics []X
}

func NewBlock[H, X any](header H, extrinsics []X) Block[H, X] {
	return Block[H, X]{Header: header, Extrinsics: extrinsics}
}

// Deconstruct returns the header and extrinsics of the block.
func (b Block[H, X]) Deconstruct() (H, []X) {
	return b.Header, b.Extrinsics
}

// SignedBlock is a block with an optional finality justification.
type SignedBlock[H, X any] struct {
	Block         Block[H, X]
	Justification *[]byte
}

// OpaqueExtrinsic is an extrinsic whose format is not known, kept as its
// encoded bytes. It encodes exactly as the extrinsic it wraps.
type OpaqueExtrinsic []byte

func (o OpaqueExtrinsic) MarshalSCALE() ([]byte, error) {
	return []byte(o), nil
}

// UnmarshalSCALE reads one length prefixed extrinsic and keeps it whole,
// prefix included.
func (o *OpaqueExtrinsic) UnmarshalSCALE(r io.Reader) error {
	length, err := scale.DecodeCompact(r)
	if err != nil {
		return fmt.Errorf("decoding opaque extrinsic length: %w", err)
	}
	if length > math.MaxUint32 {
		return scale.ErrExceedingByteArrayLimit
	}
	buf := bytes.NewBuffer(scale.EncodeCompact(length))
	n, err := io.CopyN(buf, r, int64(length))
	if err == io.EOF || (err == nil && uint64(n) != length) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return fmt.Errorf("reading opaque extrinsic: %w", err)
	}
	*o = buf.Bytes()
	return nil
}

type (
	OpaqueBlock       = Block[Header, OpaqueExtrinsic]
	SignedOpaqueBlock = SignedBlock[Header, OpaqueExtrinsic]
)

// ExtrinsicsBytes returns the encoding of every extrinsic, the leaves of the
// extrinsics root.
func ExtrinsicsBytes[X any](extrinsics []X) ([][]byte, error) {
	out := make([][]byte, 0, len(extrinsics))
	for i, xt := range extrinsics {
		b, err := scale.Marshal(xt)
		if err != nil {
			return nil, fmt.Errorf("encoding extrinsic %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

const (
	IDHashType   = 0
	IDNumberType = 1
)

// ID identifies a block either by hash or by number.
type ID struct {
	Inner any
}

func IDFromHash(h crypto.Hash) ID {
	return ID{Inner: h}
}

func IDFromNumber(n uint64) ID {
	return ID{Inner: n}
}

func (id ID) Hash() (crypto.Hash, bool) {
	h, ok := id.Inner.(crypto.Hash)
	return h, ok
}

func (id ID) Number() (uint64, bool) {
	n, ok := id.Inner.(uint64)
	return n, ok
}

func (id ID) IndexValue() (uint, any, error) {
	switch v := id.Inner.(type) {
	case crypto.Hash:
		return IDHashType, v, nil
	case uint64:
		return IDNumberType, v, nil
	}
	return 0, nil, scale.ErrUnsupportedEnumTypeValue
}

func (id *ID) ValueAt(index uint) (any, error) {
	switch index {
	case IDHashType:
		return crypto.Hash{}, nil
	case IDNumberType:
		return uint64(0), nil
	}
	return nil, scale.ErrUnknownEnumTypeValue
}

func (id *ID) SetValue(value any) error {
	switch v := value.(type) {
	case crypto.Hash, uint64:
		id.Inner = v
		return nil
	}
	return scale.ErrUnsupportedEnumTypeValue
}

func (id ID) String() string {
	if h, ok := id.Hash(); ok {
		return h.String()
	}
	if n, ok := id.Number(); ok {
		return fmt.Sprintf("#%d", n)
	}
	return "invalid"
}
