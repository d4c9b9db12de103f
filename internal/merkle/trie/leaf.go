package trie

import "github.com/eigerco/primitives/internal/crypto"

// EncodeLeafNode encodes a leaf node.
//
// The first bit is 1. The second bit is 0 when the value is embedded
// (at most 32 bytes), in which case the remaining six bits hold the value
// length and the last 32 bytes hold the zero padded value. Otherwise the last
// 32 bytes hold hash(value). Bytes 1..32 always carry the first 31 key bytes.
func EncodeLeafNode(key Key, value []byte, hash HashFunc) Node {
	var node Node

	if len(value) <= EmbeddedValueMaxSize {
		node[0] = LeafNodeFlag | byte(len(value))
		copy(node[1:32], key[:31])
		copy(node[32:], value)
	} else {
		node[0] = LeafNodeFlag | NotEmbeddedLeafFlag
		copy(node[1:32], key[:31])
		h := hash(value)
		copy(node[32:], h[:])
	}

	return node
}

// EncodeBranchNode encodes a branch node. The first bit is 0 and replaces the
// most significant bit of the left hash; the right hash is kept whole.
func EncodeBranchNode(left, right crypto.Hash) Node {
	var node Node

	node[0] = left[0] & 0b01111111
	copy(node[1:32], left[1:])
	copy(node[32:], right[:])

	return node
}
