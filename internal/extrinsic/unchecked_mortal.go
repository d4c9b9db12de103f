package extrinsic

import (
	"bytes"
	"fmt"
	"io"

	"github.com/eigerco/primitives/internal/era"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// MortalSignature is the (address, signature, index, era) tuple of a signed
// mortal extrinsic.
type MortalSignature[A, S any] struct {
	Signed    A
	Signature S
	Index     uint64
	Era       era.Era
}

// UncheckedMortal is a versioned extrinsic whose signature commits to an era
// and to the hash of the era's birth block.
type UncheckedMortal[A, ID any, S signature.Verify[ID], C any] struct {
	Signature *MortalSignature[A, S]
	Function  C
}

func NewSignedMortal[A, ID any, S signature.Verify[ID], C any](function C, signed A, sig S, index uint64, e era.Era) UncheckedMortal[A, ID, S, C] {
	return UncheckedMortal[A, ID, S, C]{
		Signature: &MortalSignature[A, S]{Signed: signed, Signature: sig, Index: index, Era: e},
		Function:  function,
	}
}

func NewUnsignedMortal[A, ID any, S signature.Verify[ID], C any](function C) UncheckedMortal[A, ID, S, C] {
	return UncheckedMortal[A, ID, S, C]{Function: function}
}

func (u UncheckedMortal[A, ID, S, C]) IsSigned() bool {
	return u.Signature != nil
}

func (u UncheckedMortal[A, ID, S, C]) MarshalSCALE() ([]byte, error) {
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

func (u *UncheckedMortal[A, ID, S, C]) UnmarshalSCALE(r io.Reader) error {
	d := scale.NewDecoder(r)
	if err := skipLengthPrefix(d); err != nil {
		return err
	}
	signed, err := readVersion(d)
	if err != nil {
		return err
	}
	var out UncheckedMortal[A, ID, S, C]
	if signed {
		out.Signature = new(MortalSignature[A, S])
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

// Check resolves the signer, looks up the era's birth block and verifies the
// signature over (index, function, era, birth hash).
func (u UncheckedMortal[A, ID, S, C]) Check(ctx Context[A, ID]) (Checked[ID, C], error) {
	if u.Signature == nil {
		return Checked[ID, C]{Function: u.Function}, nil
	}
	s := u.Signature
	return checkMortal[A, ID, S, C](ctx, s.Signed, s.Signature, s.Index, false, s.Era, u.Function)
}
