package executive

import (
	"errors"
	"fmt"
)

// ApplyError is why an extrinsic could not be applied at all. Its numeric
// value doubles as the Invalid code reported by ValidateTransaction.
type ApplyError uint8

const (
	BadSignature ApplyError = 0
	Stale        ApplyError = 1
	Future       ApplyError = 2
	CantPay      ApplyError = 3
	FullBlock    ApplyError = 255
)

func (e ApplyError) Error() string {
	switch e {
	case BadSignature:
		return "bad signature"
	case Stale:
		return "stale transaction index"
	case Future:
		return "future transaction index"
	case CantPay:
		return "sender cannot pay"
	case FullBlock:
		return "block full"
	}
	return fmt.Sprintf("apply error %d", uint8(e))
}

// AsApplyError extracts the ApplyError of an error returned by ApplyExtrinsic.
func AsApplyError(err error) (ApplyError, bool) {
	var ae ApplyError
	if errors.As(err, &ae) {
		return ae, true
	}
	return 0, false
}

// ApplyOutcome is the result of an applied extrinsic. A failed dispatch still
// counts as applied: the nonce is consumed.
type ApplyOutcome uint8

const (
	Success ApplyOutcome = 0
	Fail    ApplyOutcome = 1
)

func (o ApplyOutcome) String() string {
	if o == Success {
		return "success"
	}
	return "fail"
}

// Validity codes not covered by ApplyError.
const (
	InvalidIndexCode  int8 = -10
	MissingSenderCode int8 = -20
	UnknownErrorCode  int8 = -127
)

var (
	// ErrBlockFull is returned by a Dispatcher when the call does not fit the
	// block anymore.
	ErrBlockFull         = errors.New("block full")
	ErrParentHash        = errors.New("parent hash should be valid")
	ErrExtrinsicsRoot    = errors.New("transaction trie root must be valid")
	ErrExtrinsicRejected = errors.New("extrinsic rejected")
)
