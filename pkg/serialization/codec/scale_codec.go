package codec

import (
	"bytes"

	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// SCALECodec implements the Codec interface for SCALE encoding and decoding.
type SCALECodec struct{}

func (s *SCALECodec) Marshal(v interface{}) ([]byte, error) {
	return scale.Marshal(v)
}

func (s *SCALECodec) MarshalCompact(x uint64) ([]byte, error) {
	return scale.EncodeCompact(x), nil
}

func (s *SCALECodec) Unmarshal(data []byte, v interface{}) error {
	return scale.Unmarshal(data, v)
}

func (s *SCALECodec) UnmarshalCompact(data []byte, v *uint64) error {
	x, err := scale.DecodeCompact(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*v = x
	return nil
}
