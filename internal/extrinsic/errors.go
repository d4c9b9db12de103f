package extrinsic

import "errors"

var (
	// ErrBadSignature is returned when a signed extrinsic does not verify
	// against the account it claims to come from.
	ErrBadSignature       = errors.New("bad signature in extrinsic")
	ErrAncientBirthBlock  = errors.New("transaction birth block ancient")
	ErrUnsupportedVersion = errors.New("unsupported extrinsic version")
)
