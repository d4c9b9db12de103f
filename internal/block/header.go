package block

import (
	"fmt"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/digest"
	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// Header is the block header. The block number is compact encoded on the wire.
type Header struct {
	ParentHash     crypto.Hash
	Number         uint64 `scale:"compact"`
	StateRoot      crypto.Hash
	ExtrinsicsRoot crypto.Hash
	Digest         digest.Digest[digest.Item]
}

// NewHeader creates a header from all of its fields.
func NewHeader(number uint64, extrinsicsRoot, stateRoot, parentHash crypto.Hash, d digest.Digest[digest.Item]) Header {
	return Header{
		ParentHash:     parentHash,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         d,
	}
}

func (h *Header) SetNumber(number uint64) {
	h.Number = number
}

func (h *Header) SetParentHash(hash crypto.Hash) {
	h.ParentHash = hash
}

func (h *Header) SetStateRoot(root crypto.Hash) {
	h.StateRoot = root
}

func (h *Header) SetExtrinsicsRoot(root crypto.Hash) {
	h.ExtrinsicsRoot = root
}

// DigestMut gives in place access to the digest while a block is authored.
func (h *Header) DigestMut() *digest.Digest[digest.Item] {
	return &h.Digest
}

func (h Header) Encode() ([]byte, error) {
	b, err := scale.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header: %w", err)
	}
	return b, nil
}

// Hash hashes the encoded header. It is recomputed on every call.
func (h Header) Hash(hasher hashing.Hasher) (crypto.Hash, error) {
	b, err := h.Encode()
	if err != nil {
		return crypto.Hash{}, err
	}
	return hasher.Hash(b), nil
}

// DecodeHeader decodes a header from its encoding.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	if err := scale.Unmarshal(b, &h); err != nil {
		return Header{}, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	return h, nil
}
