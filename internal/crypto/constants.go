package crypto

const (
	HashSize = 32

	Ed25519PublicSize    = 32
	Ed25519SignatureSize = 64
	Sr25519PublicSize    = 32
	Sr25519SignatureSize = 64
)
