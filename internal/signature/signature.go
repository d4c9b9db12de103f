// Package signature defines the signature schemes transactions can be signed
// with and the Verify capability used when checking them.
package signature

import (
	"encoding/hex"
	"fmt"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/crypto/ed25519"
	"github.com/eigerco/primitives/internal/crypto/sr25519"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// Verify is implemented by signatures that can be checked against a signer of
// type P. Verification never fails with an error, an unusable key or a
// mismatched scheme simply does not verify.
type Verify[P any] interface {
	Verify(msg *LazyMessage, signer P) bool
}

type (
	Ed25519Public    [crypto.Ed25519PublicSize]byte
	Ed25519Signature [crypto.Ed25519SignatureSize]byte
	Sr25519Public    [crypto.Sr25519PublicSize]byte
	Sr25519Signature [crypto.Sr25519SignatureSize]byte
)

func (s Ed25519Signature) Verify(msg *LazyMessage, signer Ed25519Public) bool {
	return ed25519.Verify(signer, msg.Bytes(), s)
}

func (s Sr25519Signature) Verify(msg *LazyMessage, signer Sr25519Public) bool {
	return sr25519.Verify(signer, msg.Bytes(), s)
}

func (p Ed25519Public) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

func (p Sr25519Public) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// AnySignature is a 64 byte signature of an unknown scheme. It is checked as
// sr25519 first and as ed25519 over the same 32 byte key second.
type AnySignature [64]byte

func (s AnySignature) Verify(msg *LazyMessage, signer Sr25519Public) bool {
	return sr25519.Verify(signer, msg.Bytes(), s) ||
		ed25519.Verify(signer, msg.Bytes(), s)
}

// Discriminants shared by MultiSignature and MultiSigner.
const (
	Ed25519Type = 0
	Sr25519Type = 1
)

// MultiSignature is a signature of one of the supported schemes.
type MultiSignature struct {
	Inner any
}

func NewEd25519Signature(s Ed25519Signature) MultiSignature {
	return MultiSignature{Inner: s}
}

func NewSr25519Signature(s Sr25519Signature) MultiSignature {
	return MultiSignature{Inner: s}
}

// Verify checks the signature with the matching signer variant. Any scheme
// mismatch is false.
func (m MultiSignature) Verify(msg *LazyMessage, signer MultiSigner) bool {
	switch sig := m.Inner.(type) {
	case Ed25519Signature:
		pub, ok := signer.Inner.(Ed25519Public)
		return ok && sig.Verify(msg, pub)
	case Sr25519Signature:
		pub, ok := signer.Inner.(Sr25519Public)
		return ok && sig.Verify(msg, pub)
	}
	return false
}

func (m MultiSignature) IndexValue() (uint, any, error) {
	switch v := m.Inner.(type) {
	case Ed25519Signature:
		return Ed25519Type, v, nil
	case Sr25519Signature:
		return Sr25519Type, v, nil
	}
	return 0, nil, scale.ErrUnsupportedEnumTypeValue
}

func (m *MultiSignature) ValueAt(index uint) (any, error) {
	switch index {
	case Ed25519Type:
		return Ed25519Signature{}, nil
	case Sr25519Type:
		return Sr25519Signature{}, nil
	}
	return nil, scale.ErrUnknownEnumTypeValue
}

func (m *MultiSignature) SetValue(value any) error {
	switch v := value.(type) {
	case Ed25519Signature, Sr25519Signature:
		m.Inner = v
		return nil
	}
	return scale.ErrUnsupportedEnumTypeValue
}

// MultiSigner is a public key of one of the supported schemes. It doubles as
// an account id.
type MultiSigner struct {
	Inner any
}

func NewEd25519Signer(p Ed25519Public) MultiSigner {
	return MultiSigner{Inner: p}
}

func NewSr25519Signer(p Sr25519Public) MultiSigner {
	return MultiSigner{Inner: p}
}

func (m MultiSigner) IndexValue() (uint, any, error) {
	switch v := m.Inner.(type) {
	case Ed25519Public:
		return Ed25519Type, v, nil
	case Sr25519Public:
		return Sr25519Type, v, nil
	}
	return 0, nil, scale.ErrUnsupportedEnumTypeValue
}

func (m *MultiSigner) ValueAt(index uint) (any, error) {
	switch index {
	case Ed25519Type:
		return Ed25519Public{}, nil
	case Sr25519Type:
		return Sr25519Public{}, nil
	}
	return nil, scale.ErrUnknownEnumTypeValue
}

func (m *MultiSigner) SetValue(value any) error {
	switch v := value.(type) {
	case Ed25519Public, Sr25519Public:
		m.Inner = v
		return nil
	}
	return scale.ErrUnsupportedEnumTypeValue
}

func (m MultiSigner) String() string {
	switch v := m.Inner.(type) {
	case Ed25519Public:
		return "ed25519:" + v.String()
	case Sr25519Public:
		return "sr25519:" + v.String()
	}
	return fmt.Sprintf("unknown signer %T", m.Inner)
}
