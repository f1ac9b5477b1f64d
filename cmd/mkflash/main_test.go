package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sparkwatch/hal"
	"sparkwatch/sparkos/persist"
	"sparkwatch/sparkos/tasks/watchface"
)

type imageFlash struct{ data []byte }

func (f *imageFlash) SizeBytes() uint32       { return uint32(len(f.data)) }
func (f *imageFlash) EraseBlockBytes() uint32 { return defaultEraseSize }
func (f *imageFlash) ReadAt(p []byte, off uint32) (int, error) {
	return copy(p, f.data[off:]), nil
}
func (f *imageFlash) WriteAt(p []byte, off uint32) (int, error) { return 0, hal.ErrNotImplemented }
func (f *imageFlash) Erase(off, size uint32) error             { return hal.ErrNotImplemented }

func TestRunWritesPreferences(t *testing.T) {
	out := filepath.Join(t.TempDir(), "watch.flash")
	if err := run(out, 64*1024, defaultEraseSize, prefs{invert: true, hourlyVibe: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if len(b) != 64*1024 {
		t.Fatalf("image size = %d", len(b))
	}
	if b[len(b)-1] != 0xFF {
		t.Fatalf("tail not erased: %#x", b[len(b)-1])
	}

	st, err := persist.Open(&imageFlash{data: b}, persist.DefaultOffset)
	if err != nil {
		t.Fatalf("persist.Open: %v", err)
	}
	want := map[watchface.Key]bool{
		watchface.KeyInvert:        true,
		watchface.KeyBluetoothVibe: false,
		watchface.KeyHourlyVibe:    true,
		watchface.KeyMinimal:       false,
	}
	for k, v := range want {
		if !st.Exists(uint32(k)) {
			t.Fatalf("%s not stored", k)
		}
		if got := st.ReadBool(uint32(k), !v); got != v {
			t.Fatalf("%s = %v, want %v", k, got, v)
		}
	}
}

func TestFlashFileRejectsProgrammingSetBits(t *testing.T) {
	ff, err := openFlashFile(filepath.Join(t.TempDir(), "f"), 8192, 4096)
	if err != nil {
		t.Fatalf("openFlashFile: %v", err)
	}
	defer ff.Close()

	if _, err := ff.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := ff.WriteAt([]byte{0xF0}, 10); !errors.Is(err, hal.ErrFlashWriteRequiresErase) {
		t.Fatalf("expected erase error, got %v", err)
	}
	if err := ff.Erase(0, 4096); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, err := ff.WriteAt([]byte{0xF0}, 10); err != nil {
		t.Fatalf("WriteAt after erase: %v", err)
	}
}

func TestOpenFlashFileGeometry(t *testing.T) {
	dir := t.TempDir()
	if _, err := openFlashFile(filepath.Join(dir, "a"), 4096, 100); err == nil {
		t.Fatal("expected error for erase size 100")
	}
	if _, err := openFlashFile(filepath.Join(dir, "b"), 5000, 4096); err == nil {
		t.Fatal("expected error for unaligned size")
	}
}
