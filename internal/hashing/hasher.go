// Package hashing provides the hashing algorithms a chain can be configured
// with. A Hasher hashes headers and computes trie roots.
package hashing

import (
	"fmt"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/merkle/trie"
)

type Hasher interface {
	Hash(data []byte) crypto.Hash
	// TrieRoot is the root of a trie holding the given key value pairs.
	TrieRoot(pairs [][2][]byte) crypto.Hash
	// OrderedTrieRoot is the root of a trie keyed by the compact encoded
	// position of every value.
	OrderedTrieRoot(values [][]byte) crypto.Hash
}

const (
	Blake2Name = "blake2"
	KeccakName = "keccak"
)

// Blake2 hashes with blake2b-256, the default.
type Blake2 struct{}

func (Blake2) Hash(data []byte) crypto.Hash {
	return crypto.HashData(data)
}

func (Blake2) TrieRoot(pairs [][2][]byte) crypto.Hash {
	return trie.Root(pairs, crypto.HashData)
}

func (Blake2) OrderedTrieRoot(values [][]byte) crypto.Hash {
	return trie.OrderedRoot(values, crypto.HashData)
}

// Keccak hashes with keccak-256.
type Keccak struct{}

func (Keccak) Hash(data []byte) crypto.Hash {
	return crypto.KeccakData(data)
}

func (Keccak) TrieRoot(pairs [][2][]byte) crypto.Hash {
	return trie.Root(pairs, crypto.KeccakData)
}

func (Keccak) OrderedTrieRoot(values [][]byte) crypto.Hash {
	return trie.OrderedRoot(values, crypto.KeccakData)
}

// ByName returns the hasher configured under name.
func ByName(name string) (Hasher, error) {
	switch name {
	case Blake2Name, "":
		return Blake2{}, nil
	case KeccakName:
		return Keccak{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// HashFunc adapts a Hasher to the trie node hashing signature.
func HashFunc(h Hasher) trie.HashFunc {
	return h.Hash
}
