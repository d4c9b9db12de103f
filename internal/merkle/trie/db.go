package trie

import (
	"fmt"
	"sync"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/db"
)

// DB persists trie nodes keyed by their hash, under a fixed key prefix so it
// can share a store with other data.
type DB struct {
	store    db.KVStore
	prefix   []byte
	hash     HashFunc
	root     crypto.Hash
	rootLock sync.RWMutex
}

// NewDB creates a trie db writing nodes to store.
func NewDB(store db.KVStore, prefix []byte, hash HashFunc) *DB {
	return &DB{
		store:  store,
		prefix: prefix,
		hash:   hash,
	}
}

// MerklizeAndCommit computes the root of pairs and writes every node in a
// single batch.
func (s *DB) MerklizeAndCommit(pairs [][2][]byte) (crypto.Hash, error) {
	s.rootLock.Lock()
	defer s.rootLock.Unlock()

	batch := s.store.NewBatch()
	defer batch.Close()

	root, err := s.write(batch, pairs)
	if err != nil {
		return crypto.Hash{}, err
	}

	if err := batch.Commit(); err != nil {
		return crypto.Hash{}, fmt.Errorf(ErrFailedBatchCommit, err)
	}

	s.root = root
	return root, nil
}

// CommitOrdered stores the ordered trie of values, see OrderedRoot.
func (s *DB) CommitOrdered(values [][]byte) (crypto.Hash, error) {
	return s.MerklizeAndCommit(orderedPairs(values))
}

// WriteOrdered puts the nodes of the ordered trie of values into w without
// committing them. Root is left untouched.
func (s *DB) WriteOrdered(w db.Writer, values [][]byte) (crypto.Hash, error) {
	return s.write(w, orderedPairs(values))
}

func (s *DB) write(w db.Writer, pairs [][2][]byte) (crypto.Hash, error) {
	root, err := merklize(prepare(pairs, s.hash), 0, s.hash, func(hash crypto.Hash, node Node) error {
		return w.Put(s.key(hash), node[:])
	})
	if err != nil {
		return crypto.Hash{}, fmt.Errorf(ErrFailedNodeWrite, err)
	}
	return root, nil
}

func (s *DB) Get(hash crypto.Hash) (Node, error) {
	data, err := s.store.Get(s.key(hash))
	if err != nil {
		return Node{}, err
	}
	if len(data) != NodeSize {
		return Node{}, ErrInvalidNodeSize
	}
	return Node(data), nil
}

// Root is the root of the last committed trie.
func (s *DB) Root() crypto.Hash {
	s.rootLock.RLock()
	defer s.rootLock.RUnlock()
	return s.root
}

func (s *DB) key(hash crypto.Hash) []byte {
	return append(append(make([]byte, 0, len(s.prefix)+len(hash)), s.prefix...), hash[:]...)
}
