package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// Clock provides local wall-clock time and the user's clock style.
type Clock interface {
	Now() time.Time
	Is24Hour() bool
}

// BatteryState is a snapshot of the charge controller.
type BatteryState struct {
	Percent  uint8
	Charging bool
	Plugged  bool
}

// Power reports battery and phone-link state. Both calls are cheap peeks.
type Power interface {
	Battery() BatteryState
	BluetoothConnected() bool
}

// VibePattern selects a canned vibration motor pattern.
type VibePattern uint8

const (
	VibeShort VibePattern = iota + 1
	VibeLong
	VibeDouble
)

func (p VibePattern) String() string {
	switch p {
	case VibeShort:
		return "short"
	case VibeLong:
		return "long"
	case VibeDouble:
		return "double"
	default:
		return "unknown"
	}
}

// Vibe drives the vibration motor.
type Vibe interface {
	Pulse(p VibePattern) error
}

// Network provides a low-level packet transport to the paired phone.
//
// Recv blocks until a packet arrives or the transport is closed.
type Network interface {
	Send(pkt []byte) error
	Recv(pkt []byte) (int, error)
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Flash() Flash
	Time() Time
	Clock() Clock
	Power() Power
	Vibe() Vibe
	Network() Network
}
