package digest

import "errors"

var (
	ErrUnknownItemType = errors.New("unknown digest item type")
	ErrUnsupportedItem = errors.New("unsupported digest item")
	ErrMissingPayload  = errors.New("digest item reference is missing its payload")
)

const (
	ErrEncodingItem = "encoding %s digest item: %w"
	ErrDecodingItem = "decoding digest item: %w"
)
