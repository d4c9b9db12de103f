package trie

import "github.com/eigerco/primitives/internal/crypto"

const (
	// NodeSize is the size of an encoded node in bytes.
	NodeSize = 64

	// LeafNodeFlag indicates a leaf node.
	LeafNodeFlag byte = 0b10000000

	// NotEmbeddedLeafFlag indicates a leaf holding the hash of its value.
	NotEmbeddedLeafFlag byte = 0b01000000

	// ValueSizeMask extracts the embedded value size.
	ValueSizeMask byte = 0b00111111

	EmbeddedValueMaxSize = 32

	// KeySize is the size of a hashed trie key in bytes.
	KeySize = 32
)

// Key is the hash of a raw key, the trie is keyed by these.
type Key [KeySize]byte

// Node is a single 64 byte trie node, either a branch or a leaf.
type Node [NodeSize]byte

// IsLeaf returns true if the first bit is set.
func (n Node) IsLeaf() bool {
	return n[0]&LeafNodeFlag != 0
}

func (n Node) IsBranch() bool {
	return n[0]&LeafNodeFlag == 0
}

// IsEmbeddedLeaf returns true for leaves that carry the value itself.
func (n Node) IsEmbeddedLeaf() bool {
	return n.IsLeaf() && n[0]&NotEmbeddedLeafFlag == 0
}

func (n Node) GetEmbeddedValueSize() (int, error) {
	if !n.IsEmbeddedLeaf() {
		return 0, ErrNotEmbeddedLeaf
	}
	return int(n[0] & ValueSizeMask), nil
}

// GetBranchHashes returns the child hashes of a branch node. The first bit of
// the left hash is lost to the node type flag.
func (n Node) GetBranchHashes() (crypto.Hash, crypto.Hash, error) {
	if !n.IsBranch() {
		return crypto.Hash{}, crypto.Hash{}, ErrNotBranchNode
	}

	var left, right crypto.Hash
	copy(left[:], n[:32])
	copy(right[:], n[32:])

	return left, right, nil
}

// GetLeafKey returns the first 31 bytes of the leaf key.
func (n Node) GetLeafKey() (Key, error) {
	if !n.IsLeaf() {
		return Key{}, ErrNotLeafNode
	}

	var key Key
	copy(key[:31], n[1:32])
	return key, nil
}

func (n Node) GetLeafValue() ([]byte, error) {
	size, err := n.GetEmbeddedValueSize()
	if err != nil {
		return nil, err
	}
	value := make([]byte, size)
	copy(value, n[32:32+size])
	return value, nil
}

func (n Node) GetLeafValueHash() (crypto.Hash, error) {
	if !n.IsLeaf() {
		return crypto.Hash{}, ErrNotLeafNode
	}
	if n.IsEmbeddedLeaf() {
		return crypto.Hash{}, ErrEmbeddedLeafInsteadOfRegular
	}
	var hash crypto.Hash
	copy(hash[:], n[32:])
	return hash, nil
}
