package scale

import "io"

// Marshaler is the interface implemented by types that can marshal themselves
// into valid SCALE encoded data.
type Marshaler interface {
	MarshalSCALE() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that decode themselves
// from a SCALE stream. Implementations must consume exactly the bytes they own.
type Unmarshaler interface {
	UnmarshalSCALE(r io.Reader) error
}

// EncodeEnum is implemented by sum types. The index is the wire discriminant
// and must never depend on declaration order.
type EncodeEnum interface {
	IndexValue() (index uint, value any, err error)
}

// EnumType is the decodable counterpart of EncodeEnum. ValueAt returns a zero
// value of the variant payload for the given discriminant (nil for unit variants).
type EnumType interface {
	EncodeEnum
	ValueAt(index uint) (value any, err error)
	SetValue(value any) error
}
