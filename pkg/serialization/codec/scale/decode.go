package scale

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
)

// Unmarshal decodes data into dst, which must be a non-nil pointer.
func Unmarshal(data []byte, dst interface{}) error {
	dstv := reflect.ValueOf(dst)
	if dstv.Kind() != reflect.Ptr || dstv.IsNil() {
		return fmt.Errorf(ErrUnsupportedType, dst)
	}

	ds := byteReader{}
	ds.Reader = bytes.NewReader(data)

	return ds.unmarshal(dstv.Elem())
}

func NewDecoder(reader io.Reader) *Decoder {
	return &Decoder{
		byteReader{reader},
	}
}

// Decoder reads consecutive values from a single stream. It never reads ahead,
// so custom Unmarshaler implementations can share the underlying reader.
type Decoder struct {
	byteReader
}

func (d *Decoder) Decode(dst any) error {
	dstv := reflect.ValueOf(dst)
	if dstv.Kind() != reflect.Ptr || dstv.IsNil() {
		return fmt.Errorf(ErrUnsupportedType, dst)
	}

	return d.unmarshal(dstv.Elem())
}

// DecodeCompact reads a compact integer.
func (d *Decoder) DecodeCompact() (uint64, error) {
	return DecodeCompact(d.Reader)
}

type byteReader struct {
	io.Reader
}

func (br *byteReader) unmarshal(value reflect.Value) error {
	if value.Kind() != reflect.Ptr && value.CanAddr() {
		addr := value.Addr()
		if u, ok := addr.Interface().(Unmarshaler); ok {
			return u.UnmarshalSCALE(br.Reader)
		}
		if vdt, ok := addr.Interface().(EnumType); ok {
			return br.decodeEnum(vdt)
		}
	}

	switch value.Kind() {
	case reflect.Int, reflect.Uint:
		return br.decodeUint(value)
	case reflect.Int8, reflect.Uint8, reflect.Int16, reflect.Uint16,
		reflect.Int32, reflect.Uint32, reflect.Int64, reflect.Uint64:
		return br.decodeFixedWidth(value)
	case reflect.Bool:
		return br.decodeBool(value)
	case reflect.String:
		return br.decodeString(value)
	case reflect.Ptr:
		return br.decodePointer(value)
	case reflect.Struct:
		return br.decodeStruct(value)
	case reflect.Array:
		return br.decodeArray(value)
	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			return br.decodeBytes(value)
		}
		return br.decodeSlice(value)
	case reflect.Map:
		return br.decodeMap(value)
	default:
		return fmt.Errorf(ErrUnsupportedType, value.Type())
	}
}

func (br *byteReader) ReadOctet() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(br.Reader, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (br *byteReader) decodeEnum(enum EnumType) error {
	b, err := br.ReadOctet()
	if err != nil {
		return fmt.Errorf(ErrReadingByte, err)
	}

	val, err := enum.ValueAt(uint(b))
	if err != nil {
		return err
	}

	if val == nil {
		return enum.SetValue(b)
	}

	tempVal := reflect.New(reflect.TypeOf(val))
	tempVal.Elem().Set(reflect.ValueOf(val))

	if err := br.unmarshal(tempVal.Elem()); err != nil {
		return err
	}

	return enum.SetValue(tempVal.Elem().Interface())
}

func (br *byteReader) decodePointer(value reflect.Value) error {
	isNil, err := br.readOptionMarker()
	if err != nil {
		return err
	}

	if isNil {
		value.Set(reflect.Zero(value.Type()))
		return nil
	}

	elem := reflect.New(value.Type().Elem())
	if err := br.unmarshal(elem.Elem()); err != nil {
		return err
	}
	value.Set(elem)
	return nil
}

func (br *byteReader) decodeSlice(value reflect.Value) error {
	l, err := br.decodeLength()
	if err != nil {
		return err
	}
	// Grow as items arrive rather than trusting the length prefix for allocation
	temp := reflect.Zero(value.Type())
	for i := uint64(0); i < l; i++ {
		tempElem := reflect.New(value.Type().Elem()).Elem()
		if err = br.unmarshal(tempElem); err != nil {
			return err
		}
		temp = reflect.Append(temp, tempElem)
	}
	value.Set(temp)

	return nil
}

func (br *byteReader) decodeArray(value reflect.Value) error {
	temp := reflect.New(value.Type()).Elem()
	if value.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, temp.Len())
		if _, err := io.ReadFull(br.Reader, b); err != nil {
			return fmt.Errorf(ErrReadingBytes, err)
		}
		reflect.Copy(temp, reflect.ValueOf(b))
		value.Set(temp)
		return nil
	}
	for i := 0; i < temp.Len(); i++ {
		if err := br.unmarshal(temp.Index(i)); err != nil {
			return err
		}
	}
	value.Set(temp)

	return nil
}

func (br *byteReader) decodeMap(value reflect.Value) error {
	mapType := value.Type()

	length, err := br.decodeLength()
	if err != nil {
		return fmt.Errorf(ErrDecodingMapLength, err)
	}

	tempMap := reflect.MakeMap(mapType)
	for i := uint64(0); i < length; i++ {
		key := reflect.New(mapType.Key()).Elem()
		if err := br.unmarshal(key); err != nil {
			return fmt.Errorf(ErrDecodingMapKey, err)
		}

		elem := reflect.New(mapType.Elem()).Elem()
		if err := br.unmarshal(elem); err != nil {
			return fmt.Errorf(ErrDecodingMapValue, err)
		}

		tempMap.SetMapIndex(key, elem)
	}

	value.Set(tempMap)

	return nil
}

func (br *byteReader) decodeStruct(value reflect.Value) error {
	t := value.Type()

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}
		if tag, ok := fieldType.Tag.Lookup(tagName); ok {
			if tag == "-" {
				continue
			}
			if parseTag(tag)["compact"] {
				if err := br.decodeCompactField(field); err != nil {
					return fmt.Errorf(ErrDecodingStructField, fieldType.Name, err)
				}
				continue
			}
		}

		if err := br.unmarshal(field); err != nil {
			return fmt.Errorf(ErrDecodingStructField, fieldType.Name, err)
		}
	}

	return nil
}

func (br *byteReader) decodeCompactField(field reflect.Value) error {
	switch field.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return fmt.Errorf(ErrUnSuportedFieldForCompactEncoding, field.Kind())
	}
	v, err := DecodeCompact(br.Reader)
	if err != nil {
		return fmt.Errorf(ErrDecodingCompact, err)
	}
	if field.OverflowUint(v) {
		return ErrCompactOverflow
	}
	field.SetUint(v)
	return nil
}

func (br *byteReader) decodeBool(value reflect.Value) error {
	rb, err := br.ReadOctet()
	if err != nil {
		return fmt.Errorf(ErrReadingByte, err)
	}

	switch rb {
	case 0x00:
		value.SetBool(false)
	case 0x01:
		value.SetBool(true)
	default:
		return ErrDecodingBool
	}

	return nil
}

// decodeUint decodes a compact integer into an int or uint destination
func (br *byteReader) decodeUint(value reflect.Value) error {
	v, err := DecodeCompact(br.Reader)
	if err != nil {
		return fmt.Errorf(ErrDecodingCompact, err)
	}

	if value.Kind() == reflect.Int {
		if v > math.MaxInt64 || value.OverflowInt(int64(v)) {
			return ErrCompactOverflow
		}
		value.SetInt(int64(v))
		return nil
	}
	if value.OverflowUint(v) {
		return ErrCompactOverflow
	}
	value.SetUint(v)

	return nil
}

// decodeLength reads the compact length prefix of a sequence
func (br *byteReader) decodeLength() (uint64, error) {
	l, err := DecodeCompact(br.Reader)
	if err != nil {
		return 0, fmt.Errorf(ErrDecodingCompact, err)
	}
	if l > math.MaxUint32 {
		return 0, ErrExceedingByteArrayLimit
	}
	return l, nil
}

// readBytes reads exactly length bytes without preallocating the whole length,
// so a forged length prefix fails on EOF instead of exhausting memory
func (br *byteReader) readBytes(length uint64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	buf := bytes.NewBuffer(nil)
	n, err := io.CopyN(buf, br.Reader, int64(length))
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf(ErrReadingBytes, err)
	}
	if uint64(n) != length {
		return nil, fmt.Errorf(ErrReadingBytes, io.ErrUnexpectedEOF)
	}
	return buf.Bytes(), nil
}

func (br *byteReader) decodeBytes(dstv reflect.Value) error {
	length, err := br.decodeLength()
	if err != nil {
		return err
	}
	b, err := br.readBytes(length)
	if err != nil {
		return err
	}
	dstv.Set(reflect.ValueOf(b).Convert(dstv.Type()))
	return nil
}

func (br *byteReader) decodeString(dstv reflect.Value) error {
	length, err := br.decodeLength()
	if err != nil {
		return err
	}
	b, err := br.readBytes(length)
	if err != nil {
		return err
	}
	dstv.SetString(string(b))
	return nil
}

// decodeFixedWidth reads integers little endian using their natural width
func (br *byteReader) decodeFixedWidth(dstv reflect.Value) error {
	size := int(dstv.Type().Size())
	buf := make([]byte, size)
	if _, err := io.ReadFull(br.Reader, buf); err != nil {
		return fmt.Errorf(ErrReadingBytes, err)
	}

	var u uint64
	for i := 0; i < size; i++ {
		u |= uint64(buf[i]) << (8 * i)
	}

	switch dstv.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dstv.SetUint(u)
	case reflect.Int8:
		dstv.SetInt(int64(int8(u)))
	case reflect.Int16:
		dstv.SetInt(int64(int16(u)))
	case reflect.Int32:
		dstv.SetInt(int64(int32(u)))
	case reflect.Int64:
		dstv.SetInt(int64(u))
	default:
		return fmt.Errorf(ErrUnsupportedType, dstv.Type())
	}

	return nil
}

func (br *byteReader) readOptionMarker() (bool, error) {
	marker, err := br.ReadOctet()
	if err != nil {
		return false, fmt.Errorf(ErrReadingByte, err)
	}

	switch marker {
	case 0x00:
		return true, nil
	case 0x01:
		return false, nil
	default:
		return false, ErrInvalidPointer
	}
}
