//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
}

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, cfg HostConfig, newApp func(HAL) Runner, hc HeadlessConfig) error {
	if hc.Hz <= 0 {
		hc.Hz = 60
	}
	d := time.Second / time.Duration(hc.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hc.Hz)
	}

	h := newHost(cfg)
	defer h.Close()
	r := newApp(h)
	defer r.Shutdown()

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step()
			if err := r.Step(); err != nil {
				return err
			}
			tick++
			if hc.Ticks > 0 && tick >= hc.Ticks {
				return nil
			}
		}
	}
}
