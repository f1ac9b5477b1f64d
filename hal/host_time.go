//go:build !tinygo

package hal

import "time"

const hostTickDuration = time.Millisecond

// hostTime converts host frame steps into the kernel tick stream.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
	now  func() time.Time
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step advances the tick counter by the wall time elapsed since the previous call.
// The very first call emits a single tick so subscribers see the boot instant.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / hostTickDuration)
	if n == 0 {
		return
	}
	t.acc %= hostTickDuration
	t.emit(n)
}

// emit publishes only the newest sequence number; consumers care about "now", not
// about every intermediate millisecond.
func (t *hostTime) emit(n uint64) {
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}

type hostClock struct {
	h24    bool
	offset time.Duration
}

func (c *hostClock) Now() time.Time { return time.Now().Add(c.offset) }
func (c *hostClock) Is24Hour() bool { return c.h24 }
