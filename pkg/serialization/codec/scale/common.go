package scale

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// tagName is the struct tag consulted by the codec, e.g. `scale:"compact"` or `scale:"-"`.
const tagName = "scale"

func IntLength(in any) (uint, error) {
	switch in.(type) {
	case uint8, int8:
		return 1, nil
	case uint16, int16:
		return 2, nil
	case uint32, int32:
		return 4, nil
	case uint64, int64:
		return 8, nil
	default:
		return 0, fmt.Errorf(ErrUnsupportedType, in)
	}
}

func parseTag(tag string) map[string]bool {
	result := make(map[string]bool)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result[part] = true
		}
	}
	return result
}

func EncodeUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func EncodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func DecodeUint16(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

func DecodeUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func DecodeUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
