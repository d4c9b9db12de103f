package indices

import (
	"errors"
	"fmt"
	"io"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

const (
	maxSingleByteIndex = 0xef

	u16IndexMarker = 0xfc
	u32IndexMarker = 0xfd
	u64IndexMarker = 0xfe
	idMarker       = 0xff
)

var ErrInvalidAddress = errors.New("invalid address encoding")

// Address refers to an account either directly by id or by its short index.
// The zero value is the zero account id.
type Address[ID any] struct {
	id      ID
	index   uint32
	isIndex bool
}

func AddressFromID[ID any](id ID) Address[ID] {
	return Address[ID]{id: id}
}

func AddressFromIndex[ID any](index uint32) Address[ID] {
	return Address[ID]{index: index, isIndex: true}
}

func (a Address[ID]) ID() (ID, bool) {
	return a.id, !a.isIndex
}

func (a Address[ID]) Index() (uint32, bool) {
	return a.index, a.isIndex
}

// MarshalSCALE writes small indices as a single byte, larger ones behind a
// width marker, and account ids behind 0xff.
func (a Address[ID]) MarshalSCALE() ([]byte, error) {
	if !a.isIndex {
		id, err := scale.Marshal(a.id)
		if err != nil {
			return nil, err
		}
		return append([]byte{idMarker}, id...), nil
	}

	switch {
	case a.index > 0xffff:
		return append([]byte{u32IndexMarker}, scale.EncodeUint32(a.index)...), nil
	case a.index > maxSingleByteIndex:
		return append([]byte{u16IndexMarker}, scale.EncodeUint16(uint16(a.index))...), nil
	default:
		return []byte{byte(a.index)}, nil
	}
}

// UnmarshalSCALE rejects indices written wider than necessary.
func (a *Address[ID]) UnmarshalSCALE(r io.Reader) error {
	var marker [1]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return fmt.Errorf("reading address marker: %w", err)
	}

	switch m := marker[0]; {
	case m <= maxSingleByteIndex:
		*a = AddressFromIndex[ID](uint32(m))
	case m == u16IndexMarker:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return fmt.Errorf("reading address index: %w", err)
		}
		index := scale.DecodeUint16(buf[:])
		if index <= maxSingleByteIndex {
			return ErrInvalidAddress
		}
		*a = AddressFromIndex[ID](uint32(index))
	case m == u32IndexMarker:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return fmt.Errorf("reading address index: %w", err)
		}
		index := scale.DecodeUint32(buf[:])
		if index <= 0xffff {
			return ErrInvalidAddress
		}
		*a = AddressFromIndex[ID](index)
	case m == idMarker:
		var id ID
		if err := scale.NewDecoder(r).Decode(&id); err != nil {
			return fmt.Errorf("reading address id: %w", err)
		}
		*a = AddressFromID(id)
	case m == u64IndexMarker:
		return fmt.Errorf("%w: index wider than 32 bits", ErrInvalidAddress)
	default:
		return ErrInvalidAddress
	}
	return nil
}

func (a Address[ID]) String() string {
	if a.isIndex {
		return fmt.Sprintf("index:%d", a.index)
	}
	if s, ok := any(a.id).(fmt.Stringer); ok {
		return s.String()
	}
	b, err := scale.Marshal(a.id)
	if err != nil {
		return fmt.Sprintf("%v", a.id)
	}
	return fmt.Sprintf("0x%x", b)
}
