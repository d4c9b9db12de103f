package extrinsic

import (
	"bytes"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/era"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// MaxUnhashedPayload is the largest signing payload that is signed as is.
// Longer payloads are replaced by their blake2-256 hash before signing and
// verifying. Signers and verifiers must agree on it.
const MaxUnhashedPayload = 256

// SigningMessage returns the bytes actually signed for an encoded payload.
func SigningMessage(payload []byte) []byte {
	if len(payload) > MaxUnhashedPayload {
		h := crypto.HashData(payload)
		return h[:]
	}
	return payload
}

// PlainPayload encodes (index, function), the payload of plain extrinsics.
// It is signed without hashing regardless of its length.
func PlainPayload[C any](index uint64, function C) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	e := scale.NewEncoder(buf)
	if err := e.Encode(index); err != nil {
		return nil, err
	}
	if err := e.Encode(function); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MortalPayload encodes (index, function, era, birthHash). With compactIndex
// the index is written in compact form.
func MortalPayload[C any](index uint64, compactIndex bool, function C, e era.Era, birthHash crypto.Hash) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	enc := scale.NewEncoder(buf)
	var err error
	if compactIndex {
		err = enc.EncodeCompact(index)
	} else {
		err = enc.Encode(index)
	}
	if err != nil {
		return nil, err
	}
	for _, v := range []any{function, e, birthHash} {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// lazyMortalMessage defers building the payload until the signature scheme
// asks for it.
func lazyMortalMessage[C any](index uint64, compactIndex bool, function C, e era.Era, birthHash crypto.Hash, encodeErr *error) *signature.LazyMessage {
	return signature.NewLazyMessage(func() []byte {
		payload, err := MortalPayload(index, compactIndex, function, e, birthHash)
		if err != nil {
			*encodeErr = err
			return nil
		}
		return SigningMessage(payload)
	})
}

// checkMortal runs the common part of Check for both mortal variants.
func checkMortal[A, ID any, S signature.Verify[ID], C any](
	ctx Context[A, ID], address A, sig S, index uint64, compactIndex bool, e era.Era, function C,
) (Checked[ID, C], error) {
	signer, err := ctx.Lookup(address)
	if err != nil {
		return Checked[ID, C]{}, err
	}

	birthHash, ok := ctx.BlockNumberToHash(e.Birth(ctx.CurrentHeight()))
	if !ok {
		return Checked[ID, C]{}, ErrAncientBirthBlock
	}

	var encodeErr error
	msg := lazyMortalMessage(index, compactIndex, function, e, birthHash, &encodeErr)
	verified := sig.Verify(msg, signer)
	if encodeErr != nil {
		return Checked[ID, C]{}, encodeErr
	}
	if !verified {
		return Checked[ID, C]{}, ErrBadSignature
	}

	return Checked[ID, C]{
		Signed:   &SignedBy[ID]{Account: signer, Index: index},
		Function: function,
	}, nil
}
