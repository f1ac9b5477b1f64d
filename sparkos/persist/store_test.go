package persist

import (
	"bytes"
	"errors"
	"testing"
)

var errNeedsErase = errors.New("write requires erase")

// memFlash is a NOR-style flash in RAM: Erase sets 0xFF, WriteAt can only clear bits.
type memFlash struct {
	data      []byte
	block     uint32
	erases    int
	failWrite bool
}

func newMemFlash(size, block uint32) *memFlash {
	f := &memFlash{data: bytes.Repeat([]byte{0xFF}, int(size)), block: block}
	return f
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.data)) }
func (f *memFlash) EraseBlockBytes() uint32 { return f.block }

func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	return copy(p, f.data[off:]), nil
}

func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) {
	if f.failWrite {
		return 0, errors.New("injected")
	}
	for i, b := range p {
		if f.data[int(off)+i]&b != b {
			return 0, errNeedsErase
		}
	}
	return copy(f.data[off:], p), nil
}

func (f *memFlash) Erase(off, size uint32) error {
	f.erases++
	for i := off; i < off+size; i++ {
		f.data[i] = 0xFF
	}
	return nil
}

func TestBlankBlockLoadsEmpty(t *testing.T) {
	s, err := Open(newMemFlash(8192, 4096), 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	if got := s.ReadBool(1, false); got {
		t.Fatalf("ReadBool(missing) = %v, want false", got)
	}
	if got := s.ReadBool(1, true); !got {
		t.Fatalf("ReadBool(missing, true) = %v, want true", got)
	}
}

func TestRoundTripThroughFlash(t *testing.T) {
	fl := newMemFlash(8192, 4096)
	s, err := Open(fl, 4096)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.WriteBool(0, true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := s.WriteBool(2, false); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := s.WriteInt(7, -12); err != nil {
		t.Fatalf("WriteInt: %v", err)
	}
	if err := s.WriteString(9, "Rain"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	// Overwrite in place must survive NOR semantics.
	if err := s.WriteBool(0, false); err != nil {
		t.Fatalf("WriteBool overwrite: %v", err)
	}

	re, err := Open(fl, 4096)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := re.ReadBool(0, true); got {
		t.Fatalf("ReadBool(0) = %v, want false", got)
	}
	if !re.Exists(2) || re.ReadBool(2, true) {
		t.Fatalf("key 2 = %v (exists=%v), want false", re.ReadBool(2, true), re.Exists(2))
	}
	if got := re.ReadInt(7, 0); got != -12 {
		t.Fatalf("ReadInt(7) = %d, want -12", got)
	}
	if got := re.ReadString(9, ""); got != "Rain" {
		t.Fatalf("ReadString(9) = %q, want %q", got, "Rain")
	}
	if got := re.ReadBool(9, true); !got {
		t.Fatalf("ReadBool on string key = %v, want default", got)
	}
	for i := 0; i < 4096; i++ {
		if fl.data[i] != 0xFF {
			t.Fatalf("block 0 byte %d = %#x, want untouched", i, fl.data[i])
		}
	}
}

func TestUnchangedWriteSkipsErase(t *testing.T) {
	fl := newMemFlash(4096, 4096)
	s, _ := Open(fl, 0)
	_ = s.WriteBool(5, true)
	before := fl.erases
	if err := s.WriteBool(5, true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if fl.erases != before {
		t.Fatalf("erases = %d, want %d", fl.erases, before)
	}
}

func TestDeleteSurvivesReopen(t *testing.T) {
	fl := newMemFlash(4096, 4096)
	s, err := Open(fl, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.WriteBool(0, true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := s.WriteString(3, "21C"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := s.Delete(0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	erases := fl.erases
	if err := s.Delete(0); err != nil {
		t.Fatalf("Delete(missing): %v", err)
	}
	if fl.erases != erases {
		t.Fatalf("Delete(missing) erased flash")
	}

	s, err = Open(fl, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s.Exists(0) {
		t.Fatal("Exists(0) = true after Delete")
	}
	if got := s.ReadString(3, ""); got != "21C" {
		t.Fatalf("ReadString(3) = %q, want 21C", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestCorruptBlockLoadsEmpty(t *testing.T) {
	fl := newMemFlash(4096, 4096)
	s, _ := Open(fl, 0)
	if err := s.WriteBool(1, true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	fl.data[headerBytes+recordBytes] ^= 0x01

	re, err := Open(fl, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if re.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", re.Len())
	}
}

func TestFailedWriteKeepsMemoryState(t *testing.T) {
	fl := newMemFlash(4096, 4096)
	s, _ := Open(fl, 0)
	_ = s.WriteBool(1, true)
	fl.failWrite = true
	if err := s.WriteBool(1, false); err == nil {
		t.Fatal("WriteBool err = nil, want error")
	}
	if got := s.ReadBool(1, false); !got {
		t.Fatalf("ReadBool(1) = %v, want true", got)
	}
}

func TestBlockFull(t *testing.T) {
	fl := newMemFlash(4096, 4096)
	s, _ := Open(fl, 0)
	big := string(bytes.Repeat([]byte{'x'}, 4000))
	if err := s.WriteString(1, big); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := s.WriteString(2, big); !errors.Is(err, ErrNoSpace) {
		t.Fatalf("WriteString err = %v, want ErrNoSpace", err)
	}
	if s.Exists(2) {
		t.Fatal("key 2 exists after failed write")
	}
}

func TestOpenRejectsMisalignedOffset(t *testing.T) {
	if _, err := Open(newMemFlash(8192, 4096), 100); err == nil {
		t.Fatal("Open(100) err = nil, want error")
	}
	if _, err := Open(nil, 0); !errors.Is(err, ErrNoFlash) {
		t.Fatalf("Open(nil) err = %v, want ErrNoFlash", err)
	}
}
