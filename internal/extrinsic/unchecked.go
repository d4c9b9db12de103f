// Package extrinsic implements the wire formats of unchecked extrinsics and
// the Check step turning them into Checked extrinsics ready to be applied.
package extrinsic

import (
	"bytes"
	"fmt"
	"io"

	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// SignatureContent is the signature part of a plain extrinsic.
type SignatureContent[A, S any] struct {
	Signed    A
	Signature S
	Index     uint64
}

// Unchecked is the plain extrinsic: an optional signature followed by the
// call, without mortality or a version byte.
type Unchecked[A, ID any, S signature.Verify[ID], C any] struct {
	Signature *SignatureContent[A, S]
	Function  C
}

func NewSigned[A, ID any, S signature.Verify[ID], C any](function C, signed A, sig S, index uint64) Unchecked[A, ID, S, C] {
	return Unchecked[A, ID, S, C]{
		Signature: &SignatureContent[A, S]{Signed: signed, Signature: sig, Index: index},
		Function:  function,
	}
}

func NewUnsigned[A, ID any, S signature.Verify[ID], C any](function C) Unchecked[A, ID, S, C] {
	return Unchecked[A, ID, S, C]{Function: function}
}

func (u Unchecked[A, ID, S, C]) IsSigned() bool {
	return u.Signature != nil
}

func (u Unchecked[A, ID, S, C]) MarshalSCALE() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	e := scale.NewEncoder(buf)
	if err := e.Encode(u.Signature); err != nil {
		return nil, fmt.Errorf("encoding signature: %w", err)
	}
	if err := e.Encode(u.Function); err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}
	return EncodeWithLengthPrefix(buf.Bytes()), nil
}

func (u *Unchecked[A, ID, S, C]) UnmarshalSCALE(r io.Reader) error {
	d := scale.NewDecoder(r)
	if err := skipLengthPrefix(d); err != nil {
		return err
	}
	var out Unchecked[A, ID, S, C]
	if err := d.Decode(&out.Signature); err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}
	if err := d.Decode(&out.Function); err != nil {
		return fmt.Errorf("decoding call: %w", err)
	}
	*u = out
	return nil
}

// Check resolves the signer and verifies the signature over (index, function).
// Unsigned extrinsics pass through unchanged.
func (u Unchecked[A, ID, S, C]) Check(ctx Context[A, ID]) (Checked[ID, C], error) {
	if u.Signature == nil {
		return Checked[ID, C]{Function: u.Function}, nil
	}

	signer, err := ctx.Lookup(u.Signature.Signed)
	if err != nil {
		return Checked[ID, C]{}, err
	}

	payload, err := PlainPayload(u.Signature.Index, u.Function)
	if err != nil {
		return Checked[ID, C]{}, err
	}
	if !u.Signature.Signature.Verify(signature.RawMessage(payload), signer) {
		return Checked[ID, C]{}, ErrBadSignature
	}

	return Checked[ID, C]{
		Signed:   &SignedBy[ID]{Account: signer, Index: u.Signature.Index},
		Function: u.Function,
	}, nil
}
