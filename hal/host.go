//go:build !tinygo

package hal

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// Pebble-class watch panel.
	hostDefaultWidth  = 144
	hostDefaultHeight = 168

	hostDefaultSyncAddr = "127.0.0.1:9844"
)

// HostConfig configures the emulated device.
type HostConfig struct {
	Width  int
	Height int
	Scale  int

	FlashPath string
	SyncAddr  string

	Clock24h bool
	// ClockOffset shifts the emulated wall clock (useful to preview midnight or DST).
	ClockOffset time.Duration

	Battery   BatteryState
	Bluetooth bool

	LogLevel  string
	LogOutput io.Writer
}

func (c HostConfig) withDefaults() HostConfig {
	if c.Width <= 0 {
		c.Width = hostDefaultWidth
	}
	if c.Height <= 0 {
		c.Height = hostDefaultHeight
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.SyncAddr == "" {
		c.SyncAddr = hostDefaultSyncAddr
	}
	if c.FlashPath == "" {
		c.FlashPath = os.Getenv("SPARK_FLASH_PATH")
	}
	if c.FlashPath == "" {
		c.FlashPath = hostFlashDefaultPath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

type hostHAL struct {
	cfg HostConfig

	log    hclog.Logger
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	clock  *hostClock
	power  *hostPower
	vibe   *hostVibe
	flash  *hostFlash
	net    Network
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	cfg = cfg.withDefaults()
	log := newHostLog(cfg.LogLevel, cfg.LogOutput)

	var nw Network = nullNetwork{}
	if un, err := newUDPNetwork(cfg.SyncAddr); err != nil {
		log.Warn("sync transport unavailable", "addr", cfg.SyncAddr, "error", err)
	} else {
		log.Info("sync transport listening", "addr", un.LocalAddr())
		nw = un
	}

	flash, err := newHostFlash(cfg.FlashPath)
	if err != nil {
		log.Warn("flash unavailable", "path", cfg.FlashPath, "error", err)
	}

	return &hostHAL{
		cfg:    cfg,
		log:    log,
		logger: &hostLogger{log: log},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
		clock:  &hostClock{h24: cfg.Clock24h, offset: cfg.ClockOffset},
		power:  newHostPower(cfg.Battery, cfg.Bluetooth),
		vibe:   &hostVibe{log: log.Named("vibe")},
		flash:  flash,
		net:    nw,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Power() Power     { return h.power }
func (h *hostHAL) Vibe() Vibe       { return h.vibe }
func (h *hostHAL) Network() Network { return h.net }

// Close releases host resources (sync socket, flash file).
func (h *hostHAL) Close() error {
	var firstErr error
	if c, ok := h.net.(io.Closer); ok {
		if err := c.Close(); err != nil {
			firstErr = err
		}
	}
	if err := h.flash.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

func newHostLog(level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "sparkwatch",
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("SPARK_JSON_LOG") == "1",
		Output:     w,
		TimeFormat: "2006-01-02T15:04:05.000",
	})
}

// hostLogger adapts hclog to the line-oriented hal.Logger used by the logger service.
type hostLogger struct {
	log hclog.Logger
}

func (l *hostLogger) WriteLineString(s string) {
	l.log.Info(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.log.Info(string(b))
}

type hostVibe struct {
	log hclog.Logger
}

func (v *hostVibe) Pulse(p VibePattern) error {
	v.log.Info("pulse", "pattern", p.String())
	return nil
}
