package timesvc

import (
	"time"

	"sparkwatch/hal"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/proto"
)

const maxSubscribers = 8

// Service turns the kernel timebase into minute-granular wall-clock ticks.
//
// Subscribers register with MsgTickSubscribe, passing a send capability in
// msg.Cap. Every kernel tick the service samples hal.Clock; when the local minute
// differs from the last sample it sends MsgTick with the changed-units mask to
// every subscriber.
type Service struct {
	clock hal.Clock
	ep    kernel.Capability

	subs []kernel.Capability
	last time.Time
}

func New(clock hal.Clock, ep kernel.Capability) *Service {
	return &Service{clock: clock, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	var tick uint64
	for {
		tick = ctx.WaitTick(tick)
		if ctx.Stopped() {
			return
		}
		s.drain(ctx)
		s.poll(ctx)
	}
}

func (s *Service) drain(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			return
		}
		if proto.Kind(msg.Kind) != proto.MsgTickSubscribe || !msg.Cap.Valid() {
			continue
		}
		if len(s.subs) >= maxSubscribers {
			_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError),
				proto.ErrorPayload(proto.ErrOverflow, proto.MsgTickSubscribe, nil), kernel.Capability{})
			continue
		}
		s.subs = append(s.subs, msg.Cap)
	}
}

func (s *Service) poll(ctx *kernel.Context) {
	if s.clock == nil {
		return
	}
	now := s.clock.Now()
	if s.last.IsZero() {
		s.last = now
		return
	}
	if sameMinute(s.last, now) {
		return
	}
	units := proto.ChangedUnits(s.last, now)
	s.last = now

	payload := proto.TickPayload(now, units, s.clock.Is24Hour())
	kept := s.subs[:0]
	for _, sub := range s.subs {
		// A full queue drops this tick; the next minute carries the current time anyway.
		if res := ctx.SendToCapResult(sub, uint16(proto.MsgTick), payload, kernel.Capability{}); res == kernel.SendErrNoEndpoint {
			continue
		}
		kept = append(kept, sub)
	}
	s.subs = kept
}

func sameMinute(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}
