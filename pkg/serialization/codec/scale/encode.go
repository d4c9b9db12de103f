package scale

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// Marshal returns the SCALE encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	es := byteWriter{
		Writer: buffer,
	}
	err := es.marshal(v)
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{byteWriter{w}}
}

type Encoder struct {
	byteWriter
}

// Encode writes the SCALE encoding of v.
func (e *Encoder) Encode(v any) error {
	return e.marshal(v)
}

// EncodeCompact writes x in compact form.
func (e *Encoder) EncodeCompact(x uint64) error {
	return e.encodeCompact(x)
}

type byteWriter struct {
	io.Writer
}

func (bw *byteWriter) marshal(in interface{}) error {
	if in == nil {
		return ErrNilValue
	}

	// Pointers are options; the hooks below apply to the pointee only.
	if reflect.TypeOf(in).Kind() != reflect.Ptr {
		// Custom encoding takes precedence over everything else
		if marshaler, ok := in.(Marshaler); ok {
			b, err := marshaler.MarshalSCALE()
			if err != nil {
				return err
			}
			_, err = bw.Write(b)
			return err
		}

		if v, ok := in.(EncodeEnum); ok {
			return bw.encodeEnumType(v)
		}
	}

	switch v := in.(type) {
	case int:
		return bw.encodeCompact(uint64(v))
	case uint:
		return bw.encodeCompact(uint64(v))
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return bw.encodeFixedWidth(reflect.ValueOf(v))
	case []byte:
		return bw.encodeBytes(v)
	case string:
		return bw.encodeBytes([]byte(v))
	case bool:
		return bw.encodeBool(v)
	default:
		return bw.handleReflectTypes(v)
	}
}

func (bw *byteWriter) handleReflectTypes(in interface{}) error {
	val := reflect.ValueOf(in)
	switch val.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.String:
		return bw.encodeCustomPrimitive(val)
	case reflect.Ptr:
		// Pointers are options: 0x00 for none, 0x01 followed by the value
		err := bw.writeOptionMarker(val.IsNil())
		if err != nil {
			return err
		}
		if val.IsNil() {
			return nil
		}
		return bw.marshal(val.Elem().Interface())
	case reflect.Struct:
		return bw.encodeStruct(val)
	case reflect.Array:
		return bw.encodeArray(val)
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return bw.encodeBytes(val.Bytes())
		}
		return bw.encodeSlice(val)
	case reflect.Map:
		return bw.encodeMap(val)
	default:
		return fmt.Errorf(ErrUnsupportedType, in)
	}
}

func (bw *byteWriter) encodeCustomPrimitive(val reflect.Value) error {
	switch val.Kind() {
	case reflect.Bool:
		return bw.encodeBool(val.Bool())
	case reflect.Int, reflect.Uint:
		return bw.marshal(val.Convert(reflect.TypeOf(uint(0))).Interface())
	case reflect.String:
		return bw.encodeBytes([]byte(val.String()))
	default:
		return bw.encodeFixedWidth(val)
	}
}

func (bw *byteWriter) encodeEnumType(enum EncodeEnum) error {
	index, value, err := enum.IndexValue()
	if err != nil {
		return err
	}

	_, err = bw.Write([]byte{byte(index)})
	if err != nil {
		return err
	}

	if value == nil {
		return nil
	}

	return bw.marshal(value)
}

func (bw *byteWriter) encodeSlice(v reflect.Value) error {
	err := bw.encodeLength(v.Len())
	if err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		err = bw.marshal(v.Index(i).Interface())
		if err != nil {
			return err
		}
	}
	return nil
}

func (bw *byteWriter) encodeArray(v reflect.Value) error {
	// Byte arrays are written verbatim
	if v.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(b), v)
		_, err := bw.Write(b)
		return err
	}
	for i := 0; i < v.Len(); i++ {
		err := bw.marshal(v.Index(i).Interface())
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeMap encodes a map as a sequence of key-value pairs ordered by key
func (bw *byteWriter) encodeMap(v reflect.Value) error {
	keys := v.MapKeys()

	if len(keys) == 0 {
		return bw.encodeLength(0)
	}

	if err := bw.sortMapKeys(keys); err != nil {
		return err
	}

	if err := bw.encodeLength(len(keys)); err != nil {
		return err
	}

	for _, key := range keys {
		if err := bw.marshal(key.Interface()); err != nil {
			return err
		}
		if err := bw.marshal(v.MapIndex(key).Interface()); err != nil {
			return err
		}
	}

	return nil
}

// sortMapKeys sorts map keys based on their type
func (bw *byteWriter) sortMapKeys(keys []reflect.Value) error {
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].Int() < keys[j].Int()
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].Uint() < keys[j].Uint()
		})
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
	case reflect.Array:
		if keys[0].Type().Elem().Kind() == reflect.Uint8 {
			sort.Slice(keys, func(i, j int) bool {
				return compareByteArrays(keys[i], keys[j])
			})
		} else {
			return fmt.Errorf("unsupported array type: %v", keys[0].Type())
		}
	default:
		return fmt.Errorf(ErrEncodingMapFieldKeyType, keys[0].Kind())
	}

	return nil
}

// compareByteArrays compares two reflect.Value byte arrays lexicographically
func compareByteArrays(a, b reflect.Value) bool {
	return bytes.Compare(reflectToByteSlice(a), reflectToByteSlice(b)) < 0
}

func reflectToByteSlice(v reflect.Value) []byte {
	byteSlice := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(byteSlice), v)
	return byteSlice
}

func (bw *byteWriter) encodeBool(l bool) error {
	var err error
	switch l {
	case true:
		_, err = bw.Write([]byte{0x01})
	case false:
		_, err = bw.Write([]byte{0x00})
	}

	return err
}

func (bw *byteWriter) encodeBytes(b []byte) error {
	err := bw.encodeLength(len(b))
	if err != nil {
		return err
	}

	_, err = bw.Write(b)
	return err
}

// encodeFixedWidth writes integers little endian using their natural width
func (bw *byteWriter) encodeFixedWidth(val reflect.Value) error {
	var buf []byte
	switch val.Kind() {
	case reflect.Uint8:
		buf = []byte{uint8(val.Uint())}
	case reflect.Int8:
		buf = []byte{uint8(val.Int())}
	case reflect.Uint16:
		buf = binary.LittleEndian.AppendUint16(nil, uint16(val.Uint()))
	case reflect.Int16:
		buf = binary.LittleEndian.AppendUint16(nil, uint16(val.Int()))
	case reflect.Uint32:
		buf = binary.LittleEndian.AppendUint32(nil, uint32(val.Uint()))
	case reflect.Int32:
		buf = binary.LittleEndian.AppendUint32(nil, uint32(val.Int()))
	case reflect.Uint64:
		buf = binary.LittleEndian.AppendUint64(nil, val.Uint())
	case reflect.Int64:
		buf = binary.LittleEndian.AppendUint64(nil, uint64(val.Int()))
	default:
		return fmt.Errorf(ErrUnsupportedType, val.Interface())
	}
	_, err := bw.Write(buf)
	return err
}

func (bw *byteWriter) writeOptionMarker(isNil bool) error {
	marker := byte(0x00)
	if !isNil {
		marker = byte(0x01)
	}
	_, err := bw.Write([]byte{marker})
	return err
}

func (bw *byteWriter) encodeStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanInterface() {
			continue
		}
		if tag, ok := fieldType.Tag.Lookup(tagName); ok {
			if tag == "-" {
				continue
			}

			// Handle compact encoding for unsigned integers if specified via struct tag
			if parseTag(tag)["compact"] {
				switch field.Kind() {
				case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
					if err := bw.encodeCompact(field.Uint()); err != nil {
						return fmt.Errorf(ErrEncodingStructField, fieldType.Name, err)
					}
					continue
				default:
					return fmt.Errorf(ErrUnSuportedFieldForCompactEncoding, field.Kind())
				}
			}
		}

		err := bw.marshal(field.Interface())
		if err != nil {
			return fmt.Errorf(ErrEncodingStructField, fieldType.Name, err)
		}
	}

	return nil
}

func (bw *byteWriter) encodeLength(l int) error {
	return bw.encodeCompact(uint64(l))
}

func (bw *byteWriter) encodeCompact(i uint64) error {
	_, err := bw.Write(EncodeCompact(i))
	return err
}
