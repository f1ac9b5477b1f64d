// Package persist keeps small typed values in one flash erase block.
//
// Block layout (little-endian):
//   - 4 bytes: magic "SWKV"
//   - u8: version
//   - u16: record count
//   - records: u32 key, u8 type, u16 length, value
//   - u32: CRC-32 (IEEE) of every preceding byte
//
// A blank or corrupt block loads as an empty store. Every write rewrites the
// whole block.
package persist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"sync"

	"sparkwatch/hal"
)

// DefaultOffset is the flash offset of the watch preference block.
const DefaultOffset uint32 = 0

const (
	magic   = "SWKV"
	version = 1

	headerBytes = 4 + 1 + 2
	recordBytes = 4 + 1 + 2
	crcBytes    = 4
)

type valueType uint8

const (
	typeBool valueType = iota + 1
	typeInt
	typeString
)

var (
	ErrNoSpace = errors.New("persist: block full")
	ErrNoFlash = errors.New("persist: no flash")
)

type record struct {
	typ   valueType
	value []byte
}

// Store is a key/value view of one flash block.
type Store struct {
	mu    sync.Mutex
	flash hal.Flash
	off   uint32
	size  uint32

	recs map[uint32]record
}

// Open loads the store at flash offset off. The region spans one erase block.
//
// A blank or corrupt block is not an error; the store starts empty.
func Open(flash hal.Flash, off uint32) (*Store, error) {
	if flash == nil {
		return nil, ErrNoFlash
	}
	size := flash.EraseBlockBytes()
	if size == 0 || off%size != 0 || off+size > flash.SizeBytes() {
		return nil, fmt.Errorf("persist open at %d: bad block geometry", off)
	}
	s := &Store{flash: flash, off: off, size: size, recs: make(map[uint32]record)}

	buf := make([]byte, size)
	if _, err := flash.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("persist read: %w", err)
	}
	if recs, ok := decodeBlock(buf); ok {
		s.recs = recs
	}
	return s, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

// Exists reports whether key holds a value.
func (s *Store) Exists(key uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recs[key]
	return ok
}

// ReadBool returns the stored bool for key, or def when missing or of another type.
func (s *Store) ReadBool(key uint32, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[key]
	if !ok || r.typ != typeBool || len(r.value) != 1 {
		return def
	}
	return r.value[0] != 0
}

// ReadInt returns the stored int32 for key, or def.
func (s *Store) ReadInt(key uint32, def int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[key]
	if !ok || r.typ != typeInt || len(r.value) != 4 {
		return def
	}
	return int32(binary.LittleEndian.Uint32(r.value))
}

// ReadString returns the stored string for key, or def.
func (s *Store) ReadString(key uint32, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[key]
	if !ok || r.typ != typeString {
		return def
	}
	return string(r.value)
}

func (s *Store) WriteBool(key uint32, v bool) error {
	b := []byte{0}
	if v {
		b[0] = 1
	}
	return s.write(key, record{typ: typeBool, value: b})
}

func (s *Store) WriteInt(key uint32, v int32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return s.write(key, record{typ: typeInt, value: b})
}

func (s *Store) WriteString(key uint32, v string) error {
	if len(v) > 0xFFFF {
		return fmt.Errorf("persist write %d: %w", key, ErrNoSpace)
	}
	return s.write(key, record{typ: typeString, value: []byte(v)})
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[key]; !ok {
		return nil
	}
	next := s.cloneLocked()
	delete(next, key)
	return s.commitLocked(next)
}

func (s *Store) write(key uint32, r record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.recs[key]; ok && cur.typ == r.typ && string(cur.value) == string(r.value) {
		return nil
	}
	next := s.cloneLocked()
	next[key] = r
	if err := s.commitLocked(next); err != nil {
		return fmt.Errorf("persist write %d: %w", key, err)
	}
	return nil
}

func (s *Store) cloneLocked() map[uint32]record {
	next := make(map[uint32]record, len(s.recs)+1)
	for k, v := range s.recs {
		next[k] = v
	}
	return next
}

// commitLocked encodes recs, rewrites the block and adopts recs on success.
func (s *Store) commitLocked(recs map[uint32]record) error {
	block, err := encodeBlock(recs, int(s.size))
	if err != nil {
		return err
	}
	if err := s.flash.Erase(s.off, s.size); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	if _, err := s.flash.WriteAt(block, s.off); err != nil {
		return fmt.Errorf("program: %w", err)
	}
	s.recs = recs
	return nil
}

func encodeBlock(recs map[uint32]record, limit int) ([]byte, error) {
	if len(recs) > 0xFFFF {
		return nil, ErrNoSpace
	}
	keys := make([]uint32, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	buf := make([]byte, 0, headerBytes+crcBytes+len(recs)*(recordBytes+4))
	buf = append(buf, magic...)
	buf = append(buf, version)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(recs)))
	for _, k := range keys {
		r := recs[k]
		buf = binary.LittleEndian.AppendUint32(buf, k)
		buf = append(buf, byte(r.typ))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(r.value)))
		buf = append(buf, r.value...)
	}
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	if len(buf) > limit {
		return nil, ErrNoSpace
	}
	return buf, nil
}

func decodeBlock(b []byte) (map[uint32]record, bool) {
	if len(b) < headerBytes+crcBytes || string(b[:4]) != magic || b[4] != version {
		return nil, false
	}
	count := int(binary.LittleEndian.Uint16(b[5:7]))
	recs := make(map[uint32]record, count)
	p := headerBytes
	for i := 0; i < count; i++ {
		if len(b)-p < recordBytes {
			return nil, false
		}
		key := binary.LittleEndian.Uint32(b[p : p+4])
		typ := valueType(b[p+4])
		n := int(binary.LittleEndian.Uint16(b[p+5 : p+7]))
		p += recordBytes
		if len(b)-p < n || typ < typeBool || typ > typeString {
			return nil, false
		}
		v := make([]byte, n)
		copy(v, b[p:p+n])
		p += n
		recs[key] = record{typ: typ, value: v}
	}
	if len(b)-p < crcBytes {
		return nil, false
	}
	if crc32.ChecksumIEEE(b[:p]) != binary.LittleEndian.Uint32(b[p:p+crcBytes]) {
		return nil, false
	}
	return recs, true
}
