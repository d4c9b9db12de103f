// Package validity describes the outcome of validating a transaction for the
// transaction pool.
package validity

import (
	"fmt"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

const (
	InvalidType = 0
	ValidType   = 1
	UnknownType = 2
)

// Invalid carries a module specific error code. The transaction will never be
// valid and can be dropped.
type Invalid int8

// Unknown means validity could not be determined yet, e.g. an account index
// that does not resolve. The transaction may become valid later.
type Unknown int8

// Tag is an opaque dependency marker between transactions.
type Tag []byte

// Valid describes how the pool should order and retain a valid transaction.
type Valid struct {
	Priority  uint64
	Requires  []Tag
	Provides  []Tag
	Longevity uint64
}

// TransactionValidity is one of Invalid, Valid or Unknown.
type TransactionValidity struct {
	Inner any
}

func NewInvalid(code int8) TransactionValidity {
	return TransactionValidity{Inner: Invalid(code)}
}

func NewValid(v Valid) TransactionValidity {
	return TransactionValidity{Inner: v}
}

func NewUnknown(code int8) TransactionValidity {
	return TransactionValidity{Inner: Unknown(code)}
}

func (v TransactionValidity) IsValid() bool {
	_, ok := v.Inner.(Valid)
	return ok
}

func (v TransactionValidity) AsValid() (Valid, bool) {
	valid, ok := v.Inner.(Valid)
	return valid, ok
}

func (v TransactionValidity) AsInvalid() (Invalid, bool) {
	code, ok := v.Inner.(Invalid)
	return code, ok
}

func (v TransactionValidity) AsUnknown() (Unknown, bool) {
	code, ok := v.Inner.(Unknown)
	return code, ok
}

// Outcome is a short label of the variant, used as a metrics label.
func (v TransactionValidity) Outcome() string {
	switch v.Inner.(type) {
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	case Unknown:
		return "unknown"
	}
	return "undefined"
}

func (v TransactionValidity) String() string {
	switch inner := v.Inner.(type) {
	case Invalid:
		return fmt.Sprintf("Invalid(%d)", int8(inner))
	case Unknown:
		return fmt.Sprintf("Unknown(%d)", int8(inner))
	case Valid:
		return fmt.Sprintf("Valid(priority=%d, requires=%d, provides=%d, longevity=%d)",
			inner.Priority, len(inner.Requires), len(inner.Provides), inner.Longevity)
	}
	return "Undefined"
}

func (v TransactionValidity) IndexValue() (uint, any, error) {
	switch inner := v.Inner.(type) {
	case Invalid:
		return InvalidType, inner, nil
	case Valid:
		return ValidType, inner, nil
	case Unknown:
		return UnknownType, inner, nil
	}
	return 0, nil, scale.ErrUnsupportedEnumTypeValue
}

func (v *TransactionValidity) ValueAt(index uint) (any, error) {
	switch index {
	case InvalidType:
		return Invalid(0), nil
	case ValidType:
		return Valid{}, nil
	case UnknownType:
		return Unknown(0), nil
	}
	return nil, scale.ErrUnknownEnumTypeValue
}

func (v *TransactionValidity) SetValue(value any) error {
	switch inner := value.(type) {
	case Invalid, Valid, Unknown:
		v.Inner = inner
		return nil
	}
	return scale.ErrUnsupportedEnumTypeValue
}
