// Package executive validates transactions for the pool and applies checked
// extrinsics to a block.
package executive

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/eigerco/primitives/internal/block"
	"github.com/eigerco/primitives/internal/constants"
	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/extrinsic"
	"github.com/eigerco/primitives/internal/hashing"
	"github.com/eigerco/primitives/internal/indices"
	"github.com/eigerco/primitives/internal/validity"
	"github.com/eigerco/primitives/pkg/log"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// Dispatcher executes a call on behalf of origin, nil for unsigned calls.
// Returning ErrBlockFull aborts the extrinsic, any other error marks it as
// failed.
type Dispatcher[ID, C any] interface {
	Dispatch(ctx context.Context, call C, origin *ID) error
}

// Accounts tracks transaction indices of accounts.
type Accounts[ID any] interface {
	AccountNonce(id ID) (uint64, error)
	IncAccountNonce(id ID) error
}

// Payment charges the sender for including an extrinsic of the given size.
type Payment[ID any] interface {
	MakePayment(id ID, encodedLen int) error
}

// UnsignedValidator decides the validity of unsigned calls.
type UnsignedValidator[C any] interface {
	ValidateUnsigned(call C) validity.TransactionValidity
}

type Option[A, ID, C any] func(*Executive[A, ID, C])

func WithPayment[A, ID, C any](p Payment[ID]) Option[A, ID, C] {
	return func(e *Executive[A, ID, C]) { e.payment = p }
}

func WithUnsignedValidator[A, ID, C any](v UnsignedValidator[C]) Option[A, ID, C] {
	return func(e *Executive[A, ID, C]) { e.unsigned = v }
}

func WithMetrics[A, ID, C any](m *Metrics) Option[A, ID, C] {
	return func(e *Executive[A, ID, C]) { e.metrics = m }
}

// WithHasher selects the hasher of the extrinsics root, blake2 by default.
func WithHasher[A, ID, C any](h hashing.Hasher) Option[A, ID, C] {
	return func(e *Executive[A, ID, C]) { e.hasher = h }
}

// Executive checks extrinsics against a chain context and applies them
// through a Dispatcher. Applying is serialized, validation is not.
type Executive[A, ID, C any] struct {
	chain      extrinsic.Context[A, ID]
	accounts   Accounts[ID]
	dispatcher Dispatcher[ID, C]
	payment    Payment[ID]
	unsigned   UnsignedValidator[C]
	metrics    *Metrics
	hasher     hashing.Hasher

	mu            sync.Mutex
	extrinsicsLen int
	noted         [][]byte
}

func New[A, ID, C any](chain extrinsic.Context[A, ID], accounts Accounts[ID], dispatcher Dispatcher[ID, C], opts ...Option[A, ID, C]) *Executive[A, ID, C] {
	e := &Executive[A, ID, C]{
		chain:      chain,
		accounts:   accounts,
		dispatcher: dispatcher,
		hasher:     hashing.Blake2{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ValidateTransaction checks a transaction for the pool without applying it.
func (e *Executive[A, ID, C]) ValidateTransaction(ctx context.Context, xt extrinsic.Extrinsic[A, ID, C]) validity.TransactionValidity {
	v := e.validate(xt)
	if e.metrics != nil {
		e.metrics.validated.WithLabelValues(v.Outcome()).Inc()
	}
	log.Executive.Trace().Stringer("validity", v).Msg("validated transaction")
	return v
}

func (e *Executive[A, ID, C]) validate(xt extrinsic.Extrinsic[A, ID, C]) validity.TransactionValidity {
	encoded, err := xt.MarshalSCALE()
	if err != nil {
		return validity.NewInvalid(UnknownErrorCode)
	}

	checked, err := xt.Check(e.chain)
	switch {
	case err == nil:
	case errors.Is(err, indices.ErrInvalidAccountIndex):
		// The index may get assigned later.
		return validity.NewUnknown(InvalidIndexCode)
	case errors.Is(err, extrinsic.ErrBadSignature):
		return validity.NewInvalid(int8(BadSignature))
	default:
		return validity.NewInvalid(UnknownErrorCode)
	}

	sender, hasSender := checked.Sender()
	index, hasIndex := checked.Index()
	switch {
	case hasSender && hasIndex:
	case !hasSender && !hasIndex:
		if e.unsigned == nil {
			return validity.NewInvalid(MissingSenderCode)
		}
		return e.unsigned.ValidateUnsigned(checked.Call())
	case hasSender:
		return validity.NewInvalid(InvalidIndexCode)
	default:
		return validity.NewInvalid(MissingSenderCode)
	}

	if e.payment != nil {
		if err := e.payment.MakePayment(sender, len(encoded)); err != nil {
			return validity.NewInvalid(int8(CantPay))
		}
	}

	expected, err := e.accounts.AccountNonce(sender)
	if err != nil {
		return validity.NewInvalid(UnknownErrorCode)
	}
	if index < expected {
		return validity.NewInvalid(int8(Stale))
	}

	provides, err := tag(sender, index)
	if err != nil {
		return validity.NewInvalid(UnknownErrorCode)
	}
	var requires []validity.Tag
	if index > expected {
		prev, err := tag(sender, index-1)
		if err != nil {
			return validity.NewInvalid(UnknownErrorCode)
		}
		requires = []validity.Tag{prev}
	}

	return validity.NewValid(validity.Valid{
		Priority:  uint64(len(encoded)),
		Requires:  requires,
		Provides:  []validity.Tag{provides},
		Longevity: ^uint64(0),
	})
}

// tag is the encoded (sender, index) pair.
func tag[ID any](sender ID, index uint64) (validity.Tag, error) {
	b, err := scale.Marshal(struct {
		Sender ID
		Index  uint64
	}{sender, index})
	return b, err
}

// ValidateBatch validates xts concurrently on up to workers goroutines. The
// result has one entry per transaction in input order. A failing transaction
// never affects the others, only cancellation of ctx stops the batch.
func (e *Executive[A, ID, C]) ValidateBatch(ctx context.Context, xts []extrinsic.Extrinsic[A, ID, C], workers int) ([]validity.TransactionValidity, error) {
	if workers <= 0 {
		workers = constants.DefaultValidateWorkers
	}
	if e.metrics != nil {
		e.metrics.batch.Observe(float64(len(xts)))
	}

	results := make([]validity.TransactionValidity, len(xts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, xt := range xts {
		i, xt := i, xt
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.ValidateTransaction(gctx, xt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// InitializeBlock resets the per block bookkeeping.
func (e *Executive[A, ID, C]) InitializeBlock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extrinsicsLen = 0
	e.noted = nil
}

// ApplyExtrinsic checks and dispatches xt in the current block. Errors are
// ApplyError values, see AsApplyError, and leave no trace in the block.
func (e *Executive[A, ID, C]) ApplyExtrinsic(ctx context.Context, xt extrinsic.Extrinsic[A, ID, C]) (ApplyOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcome, err := e.apply(ctx, xt)
	if e.metrics != nil {
		result := outcome.String()
		if err != nil {
			ae, _ := AsApplyError(err)
			result = ae.Error()
		}
		e.metrics.applied.WithLabelValues(result).Inc()
	}
	return outcome, err
}

func (e *Executive[A, ID, C]) apply(ctx context.Context, xt extrinsic.Extrinsic[A, ID, C]) (ApplyOutcome, error) {
	encoded, err := xt.MarshalSCALE()
	if err != nil {
		return Fail, fmt.Errorf("%w: %w", BadSignature, err)
	}

	checked, err := xt.Check(e.chain)
	if err != nil {
		return Fail, fmt.Errorf("%w: %w", BadSignature, err)
	}

	if e.extrinsicsLen+len(encoded) > constants.MaxTransactionsSize {
		return Fail, FullBlock
	}

	sender, hasSender := checked.Sender()
	index, hasIndex := checked.Index()
	if hasSender && hasIndex {
		expected, err := e.accounts.AccountNonce(sender)
		if err != nil {
			return Fail, fmt.Errorf("reading account nonce: %w", err)
		}
		if index != expected {
			if index < expected {
				return Fail, Stale
			}
			return Fail, Future
		}
		if e.payment != nil {
			if err := e.payment.MakePayment(sender, len(encoded)); err != nil {
				return Fail, fmt.Errorf("%w: %w", CantPay, err)
			}
		}
		if err := e.accounts.IncAccountNonce(sender); err != nil {
			return Fail, fmt.Errorf("incrementing account nonce: %w", err)
		}
	}

	e.noted = append(e.noted, encoded)
	e.extrinsicsLen += len(encoded)

	signed, call := checked.Deconstruct()
	var origin *ID
	if signed != nil {
		origin = &signed.Account
	}
	if err := e.dispatcher.Dispatch(ctx, call, origin); err != nil {
		if errors.Is(err, ErrBlockFull) {
			return Fail, FullBlock
		}
		log.Executive.Debug().Err(err).Msg("dispatch failed")
		return Fail, nil
	}
	return Success, nil
}

// ExecuteBlock checks the parent hash and the extrinsics root of header and
// applies every extrinsic. Unlike ApplyExtrinsic, any extrinsic that cannot be
// applied fails the whole block.
func (e *Executive[A, ID, C]) ExecuteBlock(ctx context.Context, header block.Header, xts []extrinsic.Extrinsic[A, ID, C]) error {
	if header.Number > 0 {
		parent, ok := e.chain.BlockNumberToHash(header.Number - 1)
		if !ok || parent != header.ParentHash {
			return ErrParentHash
		}
	}

	leaves := make([][]byte, 0, len(xts))
	for i, xt := range xts {
		b, err := xt.MarshalSCALE()
		if err != nil {
			return fmt.Errorf("encoding extrinsic %d: %w", i, err)
		}
		leaves = append(leaves, b)
	}
	if root := ExtrinsicsRoot(e.hasher, leaves); root != header.ExtrinsicsRoot {
		return ErrExtrinsicsRoot
	}

	e.InitializeBlock()
	for i, xt := range xts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.ApplyExtrinsic(ctx, xt); err != nil {
			return fmt.Errorf("%w: extrinsic %d: %w", ErrExtrinsicRejected, i, err)
		}
	}

	log.Executive.Debug().Uint64("number", header.Number).Int("extrinsics", len(xts)).Msg("executed block")
	return nil
}

// FinalizeBlock returns the extrinsics root of everything applied since
// InitializeBlock.
func (e *Executive[A, ID, C]) FinalizeBlock() crypto.Hash {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ExtrinsicsRoot(e.hasher, e.noted)
}

// ExtrinsicsRoot is the ordered trie root of encoded extrinsics.
func ExtrinsicsRoot(hasher hashing.Hasher, encoded [][]byte) crypto.Hash {
	return hasher.OrderedTrieRoot(encoded)
}
