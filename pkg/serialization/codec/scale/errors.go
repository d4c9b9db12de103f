package scale

import (
	"errors"
)

var (
	ErrInvalidPointer           = errors.New("invalid option marker")
	ErrDecodingBool             = errors.New("error decoding boolean")
	ErrExceedingByteArrayLimit  = errors.New("byte array length exceeds max value of uint32")
	ErrNonCanonicalCompact      = errors.New("compact integer is not minimally encoded")
	ErrCompactOverflow          = errors.New("compact integer does not fit into 64 bits")
	ErrUnsupportedEnumTypeValue = errors.New("unsupported enum type value")
	ErrUnknownEnumTypeValue     = errors.New("unknown enum type value")
	ErrNilValue                 = errors.New("cannot encode nil value")

	ErrUnsupportedType                   = "unsupported type: %v"
	ErrReadingBytes                      = "error reading bytes: %w"
	ErrReadingByte                       = "error reading byte: %w"
	ErrDecodingCompact                   = "error decoding compact: %w"
	ErrEncodingMapFieldKeyType           = "error encoding map field: unsupported map key type %v"
	ErrDecodingMapLength                 = "error decoding map length: %w"
	ErrDecodingMapKey                    = "error decoding map key: %w"
	ErrDecodingMapValue                  = "error decoding map value: %w"
	ErrEncodingStructField               = "encoding struct field '%s': %w"
	ErrDecodingStructField               = "decoding struct field '%s': %w"
	ErrUnSuportedFieldForCompactEncoding = "unsupported field kind for compact encoding: %v"
)
