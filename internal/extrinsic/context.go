package extrinsic

import "github.com/eigerco/primitives/internal/crypto"

// Lookup resolves the address an extrinsic was signed with into the account
// it stands for.
type Lookup[A, ID any] interface {
	Lookup(address A) (ID, error)
}

// CurrentHeight reports the number of the block being built or validated on.
type CurrentHeight interface {
	CurrentHeight() uint64
}

// BlockNumberToHash returns the hash of a recent block. Blocks outside the
// retained window are reported as missing.
type BlockNumberToHash interface {
	BlockNumberToHash(number uint64) (crypto.Hash, bool)
}

// Context is everything Check needs from the chain.
type Context[A, ID any] interface {
	Lookup[A, ID]
	CurrentHeight
	BlockNumberToHash
}

// Checkable is implemented by every unchecked extrinsic.
type Checkable[A, ID, C any] interface {
	Check(ctx Context[A, ID]) (Checked[ID, C], error)
}

// Extrinsic is an unchecked extrinsic as seen by block execution: it can be
// checked, re-encoded and asked whether it carries a signature.
type Extrinsic[A, ID, C any] interface {
	Checkable[A, ID, C]
	IsSigned() bool
	MarshalSCALE() ([]byte, error)
}
