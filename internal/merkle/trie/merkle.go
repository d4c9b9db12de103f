package trie

import (
	"bytes"
	"slices"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// HashFunc is the node hashing algorithm, it also hashes raw keys into trie keys.
type HashFunc func([]byte) crypto.Hash

type entry struct {
	key   Key
	value []byte
}

// Root computes the root of a binary Patricia-Merkle trie over the given pairs.
// Raw keys are hashed first. When a key repeats the last value wins. The empty
// trie has the zero hash as its root.
func Root(pairs [][2][]byte, hash HashFunc) crypto.Hash {
	root, _ := merklize(prepare(pairs, hash), 0, hash, nil)
	return root
}

// OrderedRoot computes the trie root of values keyed by the compact encoding of
// their position.
func OrderedRoot(values [][]byte, hash HashFunc) crypto.Hash {
	return Root(orderedPairs(values), hash)
}

func orderedPairs(values [][]byte) [][2][]byte {
	pairs := make([][2][]byte, len(values))
	for i, v := range values {
		pairs[i] = [2][]byte{scale.EncodeCompact(uint64(i)), v}
	}
	return pairs
}

func prepare(pairs [][2][]byte, hash HashFunc) []entry {
	entries := make([]entry, 0, len(pairs))
	for _, kv := range pairs {
		entries = append(entries, entry{key: Key(hash(kv[0])), value: kv[1]})
	}
	// stable so the later duplicate stays last
	slices.SortStableFunc(entries, func(a, b entry) int {
		return bytes.Compare(a.key[:], b.key[:])
	})
	return slices.CompactFunc(reverseDuplicates(entries), func(a, b entry) bool {
		return a.key == b.key
	})
}

// reverseDuplicates moves the last value of each run of equal keys to the front
// of the run so that CompactFunc keeps it.
func reverseDuplicates(entries []entry) []entry {
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].key == entries[start].key {
			end++
		}
		entries[start] = entries[end-1]
		start = end
	}
	return entries
}

// merklize computes the root of entries sorted and unique by key, splitting on
// bit i. Every node produced is handed to write when it is not nil.
func merklize(entries []entry, i int, hash HashFunc, write func(crypto.Hash, Node) error) (crypto.Hash, error) {
	if len(entries) == 0 {
		return crypto.Hash{}, nil
	}

	if len(entries) == 1 {
		leaf := EncodeLeafNode(entries[0].key, entries[0].value, hash)
		return commit(leaf, hash, write)
	}

	// sorted input splits into a contiguous left and right half
	split := len(entries)
	for j, e := range entries {
		if bit(e.key[:], i) {
			split = j
			break
		}
	}

	left, err := merklize(entries[:split], i+1, hash, write)
	if err != nil {
		return crypto.Hash{}, err
	}
	right, err := merklize(entries[split:], i+1, hash, write)
	if err != nil {
		return crypto.Hash{}, err
	}

	return commit(EncodeBranchNode(left, right), hash, write)
}

func commit(node Node, hash HashFunc, write func(crypto.Hash, Node) error) (crypto.Hash, error) {
	h := hash(node[:])
	if write != nil {
		if err := write(h, node); err != nil {
			return crypto.Hash{}, err
		}
	}
	return h, nil
}

// get a bit from the key
func bit(k []byte, i int) bool {
	return (k[i/8] & (1 << (7 - i%8))) != 0
}
