// Package indices assigns short account indices to account ids and resolves
// indices-aware addresses back to accounts.
package indices

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eigerco/primitives/pkg/db"
	"github.com/eigerco/primitives/pkg/db/pebble"
	"github.com/eigerco/primitives/pkg/log"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// EnumSetSize is the number of account ids stored together under one key.
const EnumSetSize = 64

var ErrInvalidAccountIndex = errors.New("invalid account index")

var (
	keyNextEnumSet = []byte("indices/next")
	prefixEnumSet  = []byte("indices/set/")
)

// ResolveHint suggests the index an account would like to reuse.
type ResolveHint[ID any] func(id ID) (uint32, bool)

// SimpleResolveHint derives a hint from the first two bytes of the encoded id.
func SimpleResolveHint[ID any](id ID) (uint32, bool) {
	b, err := scale.Marshal(id)
	if err != nil || len(b) < 2 {
		return 0, false
	}
	return uint32(b[0]) + uint32(b[1])*256, true
}

type Option[ID any] func(*Registry[ID])

func WithResolveHint[ID any](hint ResolveHint[ID]) Option[ID] {
	return func(r *Registry[ID]) { r.hint = hint }
}

// WithDeadAccounts lets new accounts take over the slot of a reaped account.
func WithDeadAccounts[ID any](isDead func(ID) bool) Option[ID] {
	return func(r *Registry[ID]) { r.isDead = isDead }
}

// Registry keeps account ids in enum sets of EnumSetSize entries. The index of
// an account is its set number times EnumSetSize plus its position.
type Registry[ID any] struct {
	db     db.KVStore
	mu     sync.Mutex
	hint   ResolveHint[ID]
	isDead func(ID) bool
}

func NewRegistry[ID any](store db.KVStore, opts ...Option[ID]) *Registry[ID] {
	r := &Registry[ID]{db: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NextEnumSet is the first set that may still have room.
func (r *Registry[ID]) NextEnumSet() (uint32, error) {
	v, err := r.db.Get(keyNextEnumSet)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get next enum set: %w", err)
	}
	var next uint32
	if err := scale.Unmarshal(v, &next); err != nil {
		return 0, fmt.Errorf("decode next enum set: %w", err)
	}
	return next, nil
}

// EnumSet returns the ids of set i, an empty set when it was never written.
func (r *Registry[ID]) EnumSet(i uint32) ([]ID, error) {
	v, err := r.db.Get(enumSetKey(i))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get enum set %d: %w", i, err)
	}
	var set []ID
	if err := scale.Unmarshal(v, &set); err != nil {
		return nil, fmt.Errorf("decode enum set %d: %w", i, err)
	}
	return set, nil
}

// OnNewAccount assigns an index to a newly created account and returns it.
// A hinted slot held by a dead account is reused, otherwise the id is appended
// to the first set with room.
func (r *Registry[ID]) OnNewAccount(id ID) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, ok, err := r.reclaim(id); err != nil || ok {
		return index, err
	}

	setIndex, err := r.NextEnumSet()
	if err != nil {
		return 0, err
	}
	var set []ID
	for {
		set, err = r.EnumSet(setIndex)
		if err != nil {
			return 0, err
		}
		if len(set) < EnumSetSize {
			break
		}
		setIndex++
	}

	index := setIndex*EnumSetSize + uint32(len(set))
	set = append(set, id)

	batch := r.db.NewBatch()
	defer batch.Close()
	if err := putEncoded(batch, enumSetKey(setIndex), set); err != nil {
		return 0, err
	}
	if len(set) == EnumSetSize {
		if err := putEncoded(batch, keyNextEnumSet, setIndex+1); err != nil {
			return 0, err
		}
	}
	if err := batch.Commit(); err != nil {
		return 0, fmt.Errorf("commit account index: %w", err)
	}

	log.Chain.Debug().Uint32("index", index).Msg("new account index")
	return index, nil
}

func (r *Registry[ID]) reclaim(id ID) (uint32, bool, error) {
	if r.hint == nil || r.isDead == nil {
		return 0, false, nil
	}
	index, ok := r.hint(id)
	if !ok {
		return 0, false, nil
	}
	setIndex, pos := index/EnumSetSize, index%EnumSetSize
	set, err := r.EnumSet(setIndex)
	if err != nil {
		return 0, false, err
	}
	if int(pos) >= len(set) || !r.isDead(set[pos]) {
		return 0, false, nil
	}

	set[pos] = id
	b, err := scale.Marshal(set)
	if err != nil {
		return 0, false, fmt.Errorf("encode enum set %d: %w", setIndex, err)
	}
	if err := r.db.Put(enumSetKey(setIndex), b); err != nil {
		return 0, false, fmt.Errorf("put enum set %d: %w", setIndex, err)
	}

	log.Chain.Debug().Uint32("index", index).Msg("reclaimed account index")
	return index, true, nil
}

// CanReclaim reports whether the account at index is dead and its slot may be
// handed to a new account.
func (r *Registry[ID]) CanReclaim(index uint32) (bool, error) {
	if r.isDead == nil {
		return false, nil
	}
	set, err := r.EnumSet(index / EnumSetSize)
	if err != nil {
		return false, err
	}
	pos := int(index % EnumSetSize)
	return pos < len(set) && r.isDead(set[pos]), nil
}

func (r *Registry[ID]) LookupIndex(index uint32) (ID, error) {
	var zero ID
	set, err := r.EnumSet(index / EnumSetSize)
	if err != nil {
		return zero, err
	}
	pos := int(index % EnumSetSize)
	if pos >= len(set) {
		return zero, ErrInvalidAccountIndex
	}
	return set[pos], nil
}

// Lookup resolves an address. Ids resolve to themselves.
func (r *Registry[ID]) Lookup(a Address[ID]) (ID, error) {
	if index, ok := a.Index(); ok {
		return r.LookupIndex(index)
	}
	id, _ := a.ID()
	return id, nil
}

// IdentityLookup is the lookup of runtimes addressing accounts by id only.
type IdentityLookup[ID any] struct{}

func (IdentityLookup[ID]) Lookup(id ID) (ID, error) {
	return id, nil
}

func enumSetKey(i uint32) []byte {
	return append(append([]byte{}, prefixEnumSet...), scale.EncodeUint32(i)...)
}

func putEncoded(w db.Writer, key []byte, v any) error {
	b, err := scale.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := w.Put(key, b); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}
