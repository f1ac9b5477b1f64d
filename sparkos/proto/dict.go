package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TupleType is the value encoding of one dictionary entry.
type TupleType uint8

const (
	TupleBytes TupleType = iota
	TupleCString
	TupleUint
	TupleInt
)

func (t TupleType) String() string {
	switch t {
	case TupleBytes:
		return "bytes"
	case TupleCString:
		return "cstring"
	case TupleUint:
		return "uint"
	case TupleInt:
		return "int"
	default:
		return "unknown"
	}
}

var (
	ErrDictTruncated = errors.New("dict: truncated")
	ErrDictTooLarge  = errors.New("dict: too large")
	ErrDictBadTuple  = errors.New("dict: bad tuple")
)

// Tuple is one key/value entry of a sync dictionary.
//
// Value holds the raw little-endian integer bytes for TupleUint/TupleInt and the
// string bytes without the trailing NUL for TupleCString.
type Tuple struct {
	Key   uint32
	Type  TupleType
	Value []byte
}

// UintTuple builds a TupleUint entry using the narrowest width that fits.
func UintTuple(key uint32, v uint32) Tuple {
	switch {
	case v <= 0xFF:
		return Tuple{Key: key, Type: TupleUint, Value: []byte{byte(v)}}
	case v <= 0xFFFF:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return Tuple{Key: key, Type: TupleUint, Value: b}
	default:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return Tuple{Key: key, Type: TupleUint, Value: b}
	}
}

// BoolTuple is UintTuple(key, 0|1).
func BoolTuple(key uint32, v bool) Tuple {
	if v {
		return UintTuple(key, 1)
	}
	return UintTuple(key, 0)
}

// IntTuple builds a 4-byte TupleInt entry.
func IntTuple(key uint32, v int32) Tuple {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return Tuple{Key: key, Type: TupleInt, Value: b}
}

// CStringTuple builds a TupleCString entry.
func CStringTuple(key uint32, s string) Tuple {
	return Tuple{Key: key, Type: TupleCString, Value: []byte(s)}
}

// Int returns the integer value of a TupleUint or TupleInt entry.
func (t Tuple) Int() (int64, bool) {
	if t.Type != TupleUint && t.Type != TupleInt {
		return 0, false
	}
	signed := t.Type == TupleInt
	switch len(t.Value) {
	case 1:
		if signed {
			return int64(int8(t.Value[0])), true
		}
		return int64(t.Value[0]), true
	case 2:
		v := binary.LittleEndian.Uint16(t.Value)
		if signed {
			return int64(int16(v)), true
		}
		return int64(v), true
	case 4:
		v := binary.LittleEndian.Uint32(t.Value)
		if signed {
			return int64(int32(v)), true
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// Str returns the value of a TupleCString entry.
func (t Tuple) Str() (string, bool) {
	if t.Type != TupleCString {
		return "", false
	}
	return string(t.Value), true
}

func (t Tuple) String() string {
	switch t.Type {
	case TupleCString:
		return fmt.Sprintf("%d=%q", t.Key, t.Value)
	case TupleUint, TupleInt:
		v, _ := t.Int()
		return fmt.Sprintf("%d=%d", t.Key, v)
	default:
		return fmt.Sprintf("%d=%x", t.Key, t.Value)
	}
}

// Equal reports whether two tuples carry the same key, type and bytes.
func (t Tuple) Equal(o Tuple) bool {
	return t.Key == o.Key && t.Type == o.Type && string(t.Value) == string(o.Value)
}

const tupleHeaderBytes = 4 + 1 + 2

// EncodeDict encodes tuples into the sync dictionary wire format.
//
// Layout (little-endian):
//   - u8: tuple count
//   - per tuple: u32 key, u8 type, u16 length, value bytes
//
// CString values are written with a trailing NUL, which counts in the length.
func EncodeDict(tuples []Tuple) ([]byte, error) {
	if len(tuples) > 0xFF {
		return nil, fmt.Errorf("%w: %d tuples", ErrDictTooLarge, len(tuples))
	}
	size := 1
	for _, t := range tuples {
		n := len(t.Value)
		if t.Type == TupleCString {
			n++
		}
		if n > 0xFFFF {
			return nil, fmt.Errorf("%w: key %d value %d bytes", ErrDictTooLarge, t.Key, n)
		}
		size += tupleHeaderBytes + n
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(len(tuples)))
	for _, t := range tuples {
		n := len(t.Value)
		if t.Type == TupleCString {
			n++
		}
		buf = binary.LittleEndian.AppendUint32(buf, t.Key)
		buf = append(buf, byte(t.Type))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(n))
		buf = append(buf, t.Value...)
		if t.Type == TupleCString {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

// DecodeDict decodes a sync dictionary. Values alias b.
//
// CString values are cut at the first NUL. Integer values must be 1, 2 or 4 bytes.
func DecodeDict(b []byte) ([]Tuple, error) {
	if len(b) < 1 {
		return nil, ErrDictTruncated
	}
	count := int(b[0])
	b = b[1:]

	out := make([]Tuple, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < tupleHeaderBytes {
			return nil, fmt.Errorf("%w: tuple %d header", ErrDictTruncated, i)
		}
		t := Tuple{
			Key:  binary.LittleEndian.Uint32(b[0:4]),
			Type: TupleType(b[4]),
		}
		n := int(binary.LittleEndian.Uint16(b[5:7]))
		b = b[tupleHeaderBytes:]
		if len(b) < n {
			return nil, fmt.Errorf("%w: tuple %d value", ErrDictTruncated, i)
		}
		t.Value = b[:n:n]
		b = b[n:]

		switch t.Type {
		case TupleBytes:
		case TupleCString:
			for j, c := range t.Value {
				if c == 0 {
					t.Value = t.Value[:j:j]
					break
				}
			}
		case TupleUint, TupleInt:
			if n != 1 && n != 2 && n != 4 {
				return nil, fmt.Errorf("%w: key %d int width %d", ErrDictBadTuple, t.Key, n)
			}
		default:
			return nil, fmt.Errorf("%w: key %d type %d", ErrDictBadTuple, t.Key, t.Type)
		}
		out = append(out, t)
	}
	return out, nil
}

// SyncTuplePayload encodes a MsgSyncTuple payload: a dictionary holding the new
// tuple followed by the previous value for the same key, when one is known.
func SyncTuplePayload(newT Tuple, old *Tuple) ([]byte, error) {
	if old == nil {
		return EncodeDict([]Tuple{newT})
	}
	return EncodeDict([]Tuple{newT, *old})
}

// DecodeSyncTuplePayload decodes a SyncTuplePayload.
func DecodeSyncTuplePayload(b []byte) (newT Tuple, old Tuple, hasOld bool, err error) {
	tuples, err := DecodeDict(b)
	if err != nil {
		return Tuple{}, Tuple{}, false, err
	}
	switch len(tuples) {
	case 1:
		return tuples[0], Tuple{}, false, nil
	case 2:
		return tuples[0], tuples[1], true, nil
	default:
		return Tuple{}, Tuple{}, false, fmt.Errorf("%w: sync tuple carries %d entries", ErrDictBadTuple, len(tuples))
	}
}
