//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath      = "spark.flash"
	hostFlashDefaultSizeBytes = 256 * 1024
	hostFlashEraseBlockBytes  = 4096
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

type hostFlash struct {
	mu      sync.Mutex
	f       *os.File
	size    uint32
	scratch [hostFlashEraseBlockBytes]byte
}

// newHostFlash opens (or creates) a flash image backed by a regular file.
//
// A failed open still returns a usable *hostFlash whose operations report
// ErrNotImplemented, so the device boots without persistence.
func newHostFlash(path string) (*hostFlash, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return &hostFlash{}, fmt.Errorf("flash open %q: %w", path, err)
	}

	size := uint32(hostFlashDefaultSizeBytes)
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return &hostFlash{}, fmt.Errorf("flash stat %q: %w", path, err)
	}
	switch {
	case st.Size() > int64(^uint32(0)):
		_ = f.Close()
		return &hostFlash{}, fmt.Errorf("flash %q: image too large", path)
	case st.Size() > 0:
		size = uint32(st.Size())
	default:
		if err := fillErased(f, size); err != nil {
			_ = f.Close()
			return &hostFlash{}, fmt.Errorf("flash format %q: %w", path, err)
		}
	}

	hf := &hostFlash{f: f, size: size}
	for i := range hf.scratch {
		hf.scratch[i] = 0xFF
	}
	return hf, nil
}

// fillErased sizes a fresh image and sets every byte to the erased value.
func fillErased(f *os.File, size uint32) error {
	block := make([]byte, hostFlashEraseBlockBytes)
	for i := range block {
		block[i] = 0xFF
	}
	for off := uint32(0); off < size; off += hostFlashEraseBlockBytes {
		if _, err := f.WriteAt(block, int64(off)); err != nil {
			return err
		}
	}
	return nil
}

func (f *hostFlash) SizeBytes() uint32 { return f.size }
func (f *hostFlash) EraseBlockBytes() uint32 {
	return hostFlashEraseBlockBytes
}

func (f *hostFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	buf := make([]byte, len(p))
	if _, err := f.f.ReadAt(buf, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	// NOR semantics: programming can only clear bits.
	for i := range p {
		if buf[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *hostFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	if size == 0 {
		return nil
	}
	if off%hostFlashEraseBlockBytes != 0 || size%hostFlashEraseBlockBytes != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}

	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch[:], int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
		size -= hostFlashEraseBlockBytes
	}
	return nil
}

func (f *hostFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}
