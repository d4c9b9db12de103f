package extrinsic

import (
	"bytes"
	"fmt"
	"io"

	"github.com/eigerco/primitives/internal/era"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// MortalCompactSignature is MortalSignature with a compact encoded index.
type MortalCompactSignature[A, S any] struct {
	Signed    A
	Signature S
	Index     uint64 `scale:"compact"`
	Era       era.Era
}

// UncheckedMortalCompact is UncheckedMortal with a compact encoded index, in
// the wire format and in the signing payload.
type UncheckedMortalCompact[A, ID any, S signature.Verify[ID], C any] struct {
	Signature *MortalCompactSignature[A, S]
	Function  C
}

func NewSignedMortalCompact[A, ID any, S signature.Verify[ID], C any](function C, signed A, sig S, index uint64, e era.Era) UncheckedMortalCompact[A, ID, S, C] {
	return UncheckedMortalCompact[A, ID, S, C]{
		Signature: &MortalCompactSignature[A, S]{Signed: signed, Signature: sig, Index: index, Era: e},
		Function:  function,
	}
}

func NewUnsignedMortalCompact[A, ID any, S signature.Verify[ID], C any](function C) UncheckedMortalCompact[A, ID, S, C] {
	return UncheckedMortalCompact[A, ID, S, C]{Function: function}
}

func (u UncheckedMortalCompact[A, ID, S, C]) IsSigned() bool {
	return u.Signature != nil
}

func (u UncheckedMortalCompact[A, ID, S, C]) MarshalSCALE() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte(versionByte(u.Signature != nil))
	e := scale.NewEncoder(buf)
	if u.Signature != nil {
		if err := e.Encode(*u.Signature); err != nil {
			return nil, fmt.Errorf("encoding signature: %w", err)
		}
	}
	if err := e.Encode(u.Function); err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	return EncodeWithLengthPrefix(buf.Bytes()), nil
}

func (u *UncheckedMortalCompact[A, ID, S, C]) UnmarshalSCALE(r io.Reader) error {
	d := scale.NewDecoder(r)
	if err := skipLengthPrefix(d); err != nil {
		return err
	}
	signed, err := readVersion(d)
	if err != nil {
		return err
	}
	var out UncheckedMortalCompact[A, ID, S, C]
	if signed {
		out.Signature = new(MortalCompactSignature[A, S])
		if err := d.Decode(out.Signature); err != nil {
			return fmt.Errorf("decoding signature: %w", err)
		}
	}
	if err := d.Decode(&out.Function); err != nil {
		return fmt.Errorf("decoding call: %w", err)
	}
	*u = out
	return nil
}

func (u UncheckedMortalCompact[A, ID, S, C]) Check(ctx Context[A, ID]) (Checked[ID, C], error) {
	if u.Signature == nil {
		return Checked[ID, C]{Function: u.Function}, nil
	}
	s := u.Signature
	return checkMortal[A, ID, S, C](ctx, s.Signed, s.Signature, s.Index, true, s.Era, u.Function)
}
