package store

import "github.com/eigerco/primitives/internal/extrinsic"

// ChainContext is the extrinsic.Context of a chain: heights and block hashes
// come from the chain index, addresses are resolved by Accounts.
type ChainContext[A, ID any] struct {
	*Chain
	Accounts extrinsic.Lookup[A, ID]
}

func NewChainContext[A, ID any](chain *Chain, accounts extrinsic.Lookup[A, ID]) ChainContext[A, ID] {
	return ChainContext[A, ID]{Chain: chain, Accounts: accounts}
}

func (c ChainContext[A, ID]) Lookup(address A) (ID, error) {
	return c.Accounts.Lookup(address)
}
