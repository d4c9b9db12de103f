package digest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// ItemType is the wire discriminant of a digest item. Values are fixed and
// never follow declaration order.
type ItemType byte

const (
	OtherType             ItemType = 0
	AuthoritiesChangeType ItemType = 1
	ChangesTrieRootType   ItemType = 2
	// SealType is deprecated, consensus engines seal with their own items.
	SealType      ItemType = 3
	ConsensusType ItemType = 4
)

func (t ItemType) String() string {
	switch t {
	case OtherType:
		return "Other"
	case AuthoritiesChangeType:
		return "AuthoritiesChange"
	case ChangesTrieRootType:
		return "ChangesTrieRoot"
	case SealType:
		return "Seal"
	case ConsensusType:
		return "Consensus"
	}
	return fmt.Sprintf("ItemType(%d)", byte(t))
}

type (
	EngineID      [4]byte
	AuthorityID   [32]byte
	SealSignature [64]byte
)

// Variants carried in Item.Inner.
type (
	Other             []byte
	AuthoritiesChange []AuthorityID
	ChangesTrieRoot   crypto.Hash
	Seal              struct {
		Slot      uint64
		Signature SealSignature
	}
	Consensus struct {
		EngineID EngineID
		Data     []byte
	}
)

// Item is the owning digest item. It is the only form that decodes.
type Item struct {
	Inner any
}

func NewItem(v any) (Item, error) {
	switch v.(type) {
	case Other, AuthoritiesChange, ChangesTrieRoot, Seal, Consensus:
		return Item{Inner: v}, nil
	}
	return Item{}, fmt.Errorf("%w: %T", ErrUnsupportedItem, v)
}

// Ref returns the non owning view used for encoding.
func (i Item) Ref() ItemRef {
	switch v := i.Inner.(type) {
	case Other:
		return ItemRef{Type: OtherType, Data: v}
	case AuthoritiesChange:
		return ItemRef{Type: AuthoritiesChangeType, Authorities: []AuthorityID(v)}
	case ChangesTrieRoot:
		return ItemRef{Type: ChangesTrieRootType, ChangesTrieRoot: crypto.Hash(v)}
	case Seal:
		return ItemRef{Type: SealType, SealSlot: v.Slot, SealSignature: v.Signature}
	case Consensus:
		return ItemRef{Type: ConsensusType, EngineID: v.EngineID, Data: v.Data}
	}
	return ItemRef{invalid: true}
}

func (i Item) Type() ItemType {
	return i.Ref().Type
}

func (i Item) MarshalSCALE() ([]byte, error) {
	return EncodeItem(i)
}

func (i *Item) UnmarshalSCALE(r io.Reader) error {
	d := scale.NewDecoder(r)

	var t ItemType
	if err := d.Decode(&t); err != nil {
		return fmt.Errorf(ErrDecodingItem, err)
	}

	var v any
	switch t {
	case OtherType:
		var data []byte
		if err := d.Decode(&data); err != nil {
			return fmt.Errorf(ErrDecodingItem, err)
		}
		v = Other(data)
	case AuthoritiesChangeType:
		var authorities []AuthorityID
		if err := d.Decode(&authorities); err != nil {
			return fmt.Errorf(ErrDecodingItem, err)
		}
		v = AuthoritiesChange(authorities)
	case ChangesTrieRootType:
		var root crypto.Hash
		if err := d.Decode(&root); err != nil {
			return fmt.Errorf(ErrDecodingItem, err)
		}
		v = ChangesTrieRoot(root)
	case SealType:
		var seal Seal
		if err := d.Decode(&seal); err != nil {
			return fmt.Errorf(ErrDecodingItem, err)
		}
		v = seal
	case ConsensusType:
		var c Consensus
		if err := d.Decode(&c); err != nil {
			return fmt.Errorf(ErrDecodingItem, err)
		}
		v = c
	default:
		return fmt.Errorf("%w: %d", ErrUnknownItemType, t)
	}

	i.Inner = v
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	value := i.Inner
	if root, ok := i.AsChangesTrieRoot(); ok {
		value = root
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{
		Type:  i.Type().String(),
		Value: value,
	})
}

func (i Item) AsAuthoritiesChange() ([]AuthorityID, bool) {
	v, ok := i.Inner.(AuthoritiesChange)
	return v, ok
}

func (i Item) AsChangesTrieRoot() (crypto.Hash, bool) {
	v, ok := i.Inner.(ChangesTrieRoot)
	return crypto.Hash(v), ok
}

func (i Item) AsSeal() (uint64, SealSignature, bool) {
	v, ok := i.Inner.(Seal)
	return v.Slot, v.Signature, ok
}

func (i Item) AsConsensus() (EngineID, []byte, bool) {
	v, ok := i.Inner.(Consensus)
	return v.EngineID, v.Data, ok
}

func (i Item) AsOther() ([]byte, bool) {
	v, ok := i.Inner.(Other)
	return v, ok
}

// ItemRef is a borrowed view over a digest item. Runtimes layering their own
// item type over Item, with their own authority or signature types, encode
// through it and stay byte compatible with Item. Only the fields selected by
// Type are encoded; Authorities, ChangesTrieRoot and SealSignature may hold any
// encodable value.
type ItemRef struct {
	Type            ItemType
	Authorities     any
	ChangesTrieRoot any
	SealSlot        uint64
	SealSignature   any
	EngineID        EngineID
	Data            []byte

	invalid bool
}

// Referencer is implemented by every digest item type that can be encoded.
type Referencer interface {
	Ref() ItemRef
}

var (
	_ Referencer = Item{}
	_ Referencer = ItemRef{}
)

// Ref returns r, a view is its own reference.
func (r ItemRef) Ref() ItemRef {
	return r
}

// EncodeItem encodes any digest item through its reference view.
func EncodeItem(item Referencer) ([]byte, error) {
	return item.Ref().MarshalSCALE()
}

func (r ItemRef) MarshalSCALE() ([]byte, error) {
	if r.invalid {
		return nil, ErrUnsupportedItem
	}

	buf := bytes.NewBuffer([]byte{byte(r.Type)})
	e := scale.NewEncoder(buf)

	var err error
	switch r.Type {
	case OtherType:
		err = e.Encode(r.Data)
	case AuthoritiesChangeType:
		err = encodeRequired(e, r.Authorities)
	case ChangesTrieRootType:
		err = encodeRequired(e, r.ChangesTrieRoot)
	case SealType:
		if err = e.Encode(r.SealSlot); err == nil {
			err = encodeRequired(e, r.SealSignature)
		}
	case ConsensusType:
		if err = e.Encode(r.EngineID); err == nil {
			err = e.Encode(r.Data)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownItemType, r.Type)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrEncodingItem, r.Type, err)
	}

	return buf.Bytes(), nil
}

func encodeRequired(e *scale.Encoder, v any) error {
	if v == nil {
		return ErrMissingPayload
	}
	return e.Encode(v)
}
