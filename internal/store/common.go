package store

import "encoding/binary"

// Prefix constants for all store types
const (
	prefixHeader byte = iota + 1
	prefixBlock
	prefixNumber
	prefixTrieNode
	prefixMeta
)

var keyBestNumber = []byte{prefixMeta, 'b', 'e', 's', 't'}

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixHeader:
		return "header"
	case prefixBlock:
		return "block"
	case prefixNumber:
		return "number"
	case prefixTrieNode:
		return "trieNode"
	case prefixMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and hash
func makeKey(prefix byte, hash []byte) []byte {
	key := make([]byte, 1+len(hash))
	key[0] = prefix
	copy(key[1:], hash)
	return key
}

// numberKey is big endian so that iteration follows block order.
func numberKey(number uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], number)
	return makeKey(prefixNumber, b[:])
}
