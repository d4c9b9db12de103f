package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/eigerco/primitives/internal/block"
	"github.com/eigerco/primitives/internal/constants"
	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/internal/merkle/trie"
	"github.com/eigerco/primitives/pkg/db"
	"github.com/eigerco/primitives/pkg/db/pebble"
	"github.com/eigerco/primitives/pkg/log"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

var (
	ErrBlockNotFound          = errors.New("block not found")
	ErrChainClosed            = errors.New("chain store is closed")
	ErrExtrinsicsRootMismatch = errors.New("extrinsics root mismatch")
	ErrMissingGenesis         = errors.New("chain has blocks but no genesis hash")
)

type Option func(*Chain)

// WithBlockHashCount sets how many recent block hashes are retained.
func WithBlockHashCount(n uint64) Option {
	return func(c *Chain) { c.window = n }
}

func WithCacheSize(n int64) Option {
	return func(c *Chain) { c.cacheSize = n }
}

// Chain indexes headers by hash and keeps the hashes of the most recent
// blocks by number, the window mortal transactions can be born in.
type Chain struct {
	db        db.KVStore
	hasher    hashing.Hasher
	trie      *trie.DB
	hashes    *ristretto.Cache[uint64, crypto.Hash]
	window    uint64
	cacheSize int64

	// mu serializes writers, readers go through the store and the cache
	mu     sync.Mutex
	best   atomic.Uint64
	closed atomic.Bool
}

// NewChain creates a new chain store using KVStore
func NewChain(store db.KVStore, hasher hashing.Hasher, opts ...Option) (*Chain, error) {
	c := &Chain{
		db:        store,
		hasher:    hasher,
		trie:      trie.NewDB(store, []byte{prefixTrieNode}, hashing.HashFunc(hasher)),
		window:    constants.BlockHashCount,
		cacheSize: constants.DefaultHashCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, crypto.Hash]{
		NumCounters: c.cacheSize * 10,
		MaxCost:     c.cacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create hash cache: %w", err)
	}
	c.hashes = cache

	best, err := c.loadBestNumber()
	if err != nil {
		cache.Close()
		return nil, err
	}
	c.best.Store(best)
	return c, nil
}

func (c *Chain) loadBestNumber() (uint64, error) {
	v, err := c.db.Get(keyBestNumber)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get best number: %w", err)
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("best number: unexpected length %d", len(v))
	}
	return binary.LittleEndian.Uint64(v), nil
}

// PutHeader stores a header under its hash and indexes its number. A header
// above the current best becomes the new best and older hashes falling out of
// the window are pruned.
func (c *Chain) PutHeader(h block.Header) (crypto.Hash, error) {
	return c.put(h, nil)
}

// put stores h in one batch together with the writes of also, which runs
// under the writer lock.
func (c *Chain) put(h block.Header, also func(db.Batch, crypto.Hash) error) (crypto.Hash, error) {
	if c.closed.Load() {
		return crypto.Hash{}, ErrChainClosed
	}

	encoded, err := h.Encode()
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("encode header: %w", err)
	}
	hash := c.hasher.Hash(encoded)

	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.db.NewBatch()
	defer batch.Close()

	if err := batch.Put(makeKey(prefixHeader, hash[:]), encoded); err != nil {
		return crypto.Hash{}, fmt.Errorf("store header: %w", err)
	}
	if err := batch.Put(numberKey(h.Number), hash[:]); err != nil {
		return crypto.Hash{}, fmt.Errorf("store block number: %w", err)
	}
	if also != nil {
		if err := also(batch, hash); err != nil {
			return crypto.Hash{}, err
		}
	}

	best := c.best.Load()
	var pruned []uint64
	if h.Number > best || (best == 0 && h.Number == 0) {
		best = h.Number
		if err := c.putBest(batch, best); err != nil {
			return crypto.Hash{}, err
		}
		if pruned, err = c.prune(batch, best); err != nil {
			return crypto.Hash{}, err
		}
	}

	if err := batch.Commit(); err != nil {
		return crypto.Hash{}, fmt.Errorf("commit batch: %w", err)
	}
	c.best.Store(best)
	c.hashes.Set(h.Number, hash, 1)
	c.evict(pruned)

	log.Chain.Debug().
		Uint64("number", h.Number).
		Stringer("hash", hash).
		Msg("stored header")
	return hash, nil
}

// PutBlock checks the extrinsics root of the header against the extrinsics and
// stores the extrinsics trie, the header and the block in one batch. Nothing
// is written on a root mismatch.
func (c *Chain) PutBlock(b block.OpaqueBlock) (crypto.Hash, error) {
	if c.closed.Load() {
		return crypto.Hash{}, ErrChainClosed
	}

	leaves, err := block.ExtrinsicsBytes(b.Extrinsics)
	if err != nil {
		return crypto.Hash{}, err
	}
	blockBytes, err := scale.Marshal(b)
	if err != nil {
		return crypto.Hash{}, fmt.Errorf("marshal block: %w", err)
	}

	return c.put(b.Header, func(batch db.Batch, hash crypto.Hash) error {
		root, err := c.trie.WriteOrdered(batch, leaves)
		if err != nil {
			return fmt.Errorf("write extrinsics trie: %w", err)
		}
		if root != b.Header.ExtrinsicsRoot {
			return fmt.Errorf("%w: header %s, computed %s", ErrExtrinsicsRootMismatch, b.Header.ExtrinsicsRoot, root)
		}
		if err := batch.Put(makeKey(prefixBlock, hash[:]), blockBytes); err != nil {
			return fmt.Errorf("store block: %w", err)
		}
		return nil
	})
}

// GetBlock retrieves a block by its header hash
func (c *Chain) GetBlock(hash crypto.Hash) (block.OpaqueBlock, error) {
	if c.closed.Load() {
		return block.OpaqueBlock{}, ErrChainClosed
	}

	blockBytes, err := c.db.Get(makeKey(prefixBlock, hash[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return block.OpaqueBlock{}, ErrBlockNotFound
		}
		return block.OpaqueBlock{}, fmt.Errorf("get block: %w", err)
	}

	var b block.OpaqueBlock
	if err := scale.Unmarshal(blockBytes, &b); err != nil {
		return block.OpaqueBlock{}, fmt.Errorf("decode block: %w", err)
	}
	return b, nil
}

// Header retrieves a header by its hash
func (c *Chain) Header(hash crypto.Hash) (block.Header, error) {
	if c.closed.Load() {
		return block.Header{}, ErrChainClosed
	}

	b, err := c.db.Get(makeKey(prefixHeader, hash[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return block.Header{}, ErrBlockNotFound
		}
		return block.Header{}, fmt.Errorf("get header: %w", err)
	}
	return block.DecodeHeader(b)
}

// FindChildren finds all stored headers whose parent is parentHash
func (c *Chain) FindChildren(parentHash crypto.Hash) ([]block.Header, error) {
	if c.closed.Load() {
		return nil, ErrChainClosed
	}

	var children []block.Header

	iter, err := c.db.NewIterator([]byte{prefixHeader}, []byte{prefixHeader + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	for iter.Next() {
		headerBytes, err := iter.Value()
		if err != nil {
			log.Chain.Warn().Err(err).Msg("read header value from iterator")
			continue
		}
		h, err := block.DecodeHeader(headerBytes)
		if err != nil {
			log.Chain.Warn().Err(err).Msg("parse header from bytes")
			continue
		}

		if h.ParentHash == parentHash {
			children = append(children, h)
		}
	}

	return children, nil
}

// HeaderSequence retrieves a sequence of headers.
// If ascending is true, returns descendants of the start header (exclusive),
// following the first child found at each height.
// If ascending is false, returns the start header and its ancestors (inclusive).
func (c *Chain) HeaderSequence(startHash crypto.Hash, ascending bool, maxHeaders uint32) ([]block.Header, error) {
	current, err := c.Header(startHash)
	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			return nil, fmt.Errorf("starting header not found: %w", err)
		}
		return nil, fmt.Errorf("get starting header: %w", err)
	}

	var headers []block.Header
	for uint32(len(headers)) < maxHeaders {
		if ascending {
			hash, err := current.Hash(c.hasher)
			if err != nil {
				return nil, fmt.Errorf("hash header: %w", err)
			}
			children, err := c.FindChildren(hash)
			if err != nil || len(children) == 0 {
				break
			}
			current = children[0]
			headers = append(headers, current)
			continue
		}

		headers = append(headers, current)
		if current.Number == 0 {
			break
		}
		current, err = c.Header(current.ParentHash)
		if err != nil {
			if errors.Is(err, ErrBlockNotFound) {
				break
			}
			return nil, fmt.Errorf("get header in sequence: %w", err)
		}
	}

	return headers, nil
}

// BlockHash returns the stored hash of block number, regardless of the
// window. Pruned numbers are not found.
func (c *Chain) BlockHash(number uint64) (crypto.Hash, error) {
	if c.closed.Load() {
		return crypto.Hash{}, ErrChainClosed
	}
	if h, ok := c.hashes.Get(number); ok {
		return h, nil
	}

	v, err := c.db.Get(numberKey(number))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return crypto.Hash{}, ErrBlockNotFound
		}
		return crypto.Hash{}, fmt.Errorf("get block hash: %w", err)
	}
	var h crypto.Hash
	copy(h[:], v)
	c.hashes.Set(number, h, 1)
	return h, nil
}

// SetBestNumber moves the head of the chain, e.g. on a reorg to a shorter
// fork. Moving forward prunes like PutHeader does.
func (c *Chain) SetBestNumber(number uint64) error {
	if c.closed.Load() {
		return ErrChainClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.db.NewBatch()
	defer batch.Close()
	if err := c.putBest(batch, number); err != nil {
		return err
	}
	var pruned []uint64
	if number > c.best.Load() {
		var err error
		if pruned, err = c.prune(batch, number); err != nil {
			return err
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	c.best.Store(number)
	c.evict(pruned)
	return nil
}

// CurrentHeight is the number of the best block.
func (c *Chain) CurrentHeight() uint64 {
	return c.best.Load()
}

// BlockNumberToHash returns hashes of the genesis block and of blocks within
// the retained window below the best block.
func (c *Chain) BlockNumberToHash(number uint64) (crypto.Hash, bool) {
	best := c.best.Load()
	if number > best {
		return crypto.Hash{}, false
	}
	if number != 0 && best-number >= c.window {
		return crypto.Hash{}, false
	}

	h, err := c.BlockHash(number)
	if err != nil {
		if number == 0 && best > 0 && errors.Is(err, ErrBlockNotFound) {
			panic(ErrMissingGenesis)
		}
		if !errors.Is(err, ErrBlockNotFound) {
			log.Chain.Error().Err(err).Uint64("number", number).Msg("block hash lookup failed")
		}
		return crypto.Hash{}, false
	}
	return h, true
}

func (c *Chain) putBest(w db.Writer, best uint64) error {
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], best)
	if err := w.Put(keyBestNumber, v[:]); err != nil {
		return fmt.Errorf("store best number: %w", err)
	}
	return nil
}

// prune deletes number to hash entries that fell out of the window. Genesis
// is kept for immortal transactions.
func (c *Chain) prune(batch db.Batch, best uint64) ([]uint64, error) {
	if best <= c.window {
		return nil, nil
	}
	cutoff := best - c.window

	iter, err := c.db.NewIterator(numberKey(1), numberKey(cutoff+1))
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var pruned []uint64
	for iter.Next() {
		key := append([]byte{}, iter.Key()...)
		if err := batch.Delete(key); err != nil {
			return nil, fmt.Errorf("prune block number: %w", err)
		}
		pruned = append(pruned, binary.BigEndian.Uint64(key[1:]))
	}
	if len(pruned) > 0 {
		log.Chain.Debug().Int("count", len(pruned)).Uint64("cutoff", cutoff).Msg("pruned block hashes")
	}
	return pruned, nil
}

// evict drops pruned numbers from the cache and waits for buffered writes,
// so a pending Set cannot resurrect them.
func (c *Chain) evict(numbers []uint64) {
	if len(numbers) == 0 {
		return
	}
	for _, n := range numbers {
		c.hashes.Del(n)
	}
	c.hashes.Wait()
}

// Close closes the chain store
func (c *Chain) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.hashes.Close()
	return c.db.Close()
}
