// Package ed25519 provides fixed size ed25519 keys and signatures
// with ZIP-215 compliant signature verification.
package ed25519

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/hdevalence/ed25519consensus"
)

const (
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
	SeedSize      = ed25519.SeedSize
)

// Keypair holds an ed25519 private key.
type Keypair struct {
	private ed25519.PrivateKey
}

// GenerateKeypair uses the standard library's key generation.
func GenerateKeypair(rand io.Reader) (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &Keypair{private: priv}, nil
}

// NewKeypairFromSeed derives the keypair from a 32 byte seed.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("invalid ed25519 seed length %d", len(seed))
	}
	return &Keypair{private: ed25519.NewKeyFromSeed(seed)}, nil
}

func (kp *Keypair) Public() [PublicKeySize]byte {
	return [PublicKeySize]byte(kp.private.Public().(ed25519.PublicKey))
}

func (kp *Keypair) Sign(msg []byte) [SignatureSize]byte {
	return [SignatureSize]byte(ed25519.Sign(kp.private, msg))
}

// Verify uses the hdevalence/ed25519consensus library for
// ZIP-215 compliant verification.
func Verify(public [PublicKeySize]byte, msg []byte, sig [SignatureSize]byte) bool {
	return ed25519consensus.Verify(public[:], msg, sig[:])
}
