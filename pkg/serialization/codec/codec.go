package codec

// Codec is implemented by the wire formats a Serializer can drive.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	MarshalCompact(x uint64) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	UnmarshalCompact(data []byte, v *uint64) error
}
