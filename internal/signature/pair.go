package signature

import (
	"github.com/eigerco/primitives/internal/crypto/ed25519"
	"github.com/eigerco/primitives/internal/crypto/sr25519"
)

// Pair signs messages for a MultiSigner.
type Pair interface {
	Signer() MultiSigner
	Sign(msg []byte) (MultiSignature, error)
}

type Ed25519Pair struct {
	*ed25519.Keypair
}

func (p Ed25519Pair) Signer() MultiSigner {
	return NewEd25519Signer(p.Public())
}

func (p Ed25519Pair) Sign(msg []byte) (MultiSignature, error) {
	return NewEd25519Signature(p.Keypair.Sign(msg)), nil
}

type Sr25519Pair struct {
	*sr25519.Keypair
}

func (p Sr25519Pair) Signer() MultiSigner {
	return NewSr25519Signer(p.Public())
}

func (p Sr25519Pair) Sign(msg []byte) (MultiSignature, error) {
	sig, err := p.Keypair.Sign(msg)
	if err != nil {
		return MultiSignature{}, err
	}
	return NewSr25519Signature(sig), nil
}
