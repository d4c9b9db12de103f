package sr25519

import (
	"fmt"

	"github.com/ChainSafe/go-schnorrkel"
)

const (
	PublicKeySize = 32
	SeedSize      = 32
	SignatureSize = 64
)

// SigningContext is the context for signatures used or created with substrate
var SigningContext = []byte("substrate")

// Keypair is a sr25519 public-private keypair
type Keypair struct {
	public *schnorrkel.PublicKey
	secret *schnorrkel.SecretKey
}

// GenerateKeypair returns a new random sr25519 keypair
func GenerateKeypair() (*Keypair, error) {
	secret, public, err := schnorrkel.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &Keypair{public: public, secret: secret}, nil
}

// NewKeypairFromSeed expands a 32 byte mini secret the same way substrate does
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("invalid sr25519 seed length %d", len(seed))
	}
	msc, err := schnorrkel.NewMiniSecretKeyFromRaw([SeedSize]byte(seed))
	if err != nil {
		return nil, err
	}
	return &Keypair{public: msc.Public(), secret: msc.ExpandEd25519()}, nil
}

func (kp *Keypair) Public() [PublicKeySize]byte {
	return kp.public.Encode()
}

// Sign signs msg under SigningContext
func (kp *Keypair) Sign(msg []byte) ([SignatureSize]byte, error) {
	t := schnorrkel.NewSigningContext(SigningContext, msg)
	sig, err := kp.secret.Sign(t)
	if err != nil {
		return [SignatureSize]byte{}, err
	}
	return sig.Encode(), nil
}

// Verify reports whether sig is a valid signature of msg by public. Malformed
// keys or signatures verify as false.
func Verify(public [PublicKeySize]byte, msg []byte, sig [SignatureSize]byte) bool {
	pub := &schnorrkel.PublicKey{}
	if err := pub.Decode(public); err != nil {
		return false
	}
	s := &schnorrkel.Signature{}
	if err := s.Decode(sig); err != nil {
		return false
	}
	ok, err := pub.Verify(s, schnorrkel.NewSigningContext(SigningContext, msg))
	return err == nil && ok
}
