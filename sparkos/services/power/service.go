package power

import (
	"sparkwatch/hal"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/proto"
)

const maxSubscribers = 8

// Service publishes battery and phone-link state.
//
// MsgPowerSubscribe (with a send capability in msg.Cap) is answered right away
// with the current MsgBatteryState and MsgBluetoothState. Afterwards hal.Power is
// polled once per kernel tick and only changes are sent.
type Service struct {
	pw hal.Power
	ep kernel.Capability

	subs []kernel.Capability

	battery   hal.BatteryState
	connected bool
	sampled   bool
}

func New(pw hal.Power, ep kernel.Capability) *Service {
	return &Service{pw: pw, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	var tick uint64
	for {
		tick = ctx.WaitTick(tick)
		if ctx.Stopped() {
			return
		}
		s.poll(ctx)
		s.drain(ctx)
	}
}

func (s *Service) drain(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			return
		}
		if proto.Kind(msg.Kind) != proto.MsgPowerSubscribe || !msg.Cap.Valid() {
			continue
		}
		if len(s.subs) >= maxSubscribers {
			_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError),
				proto.ErrorPayload(proto.ErrOverflow, proto.MsgPowerSubscribe, nil), kernel.Capability{})
			continue
		}
		s.subs = append(s.subs, msg.Cap)
		s.sendBattery(ctx, msg.Cap)
		s.sendBluetooth(ctx, msg.Cap)
	}
}

func (s *Service) poll(ctx *kernel.Context) {
	if s.pw == nil {
		return
	}
	b := s.pw.Battery()
	c := s.pw.BluetoothConnected()
	first := !s.sampled
	batteryChanged := b != s.battery
	btChanged := c != s.connected
	s.battery, s.connected, s.sampled = b, c, true
	if first {
		return
	}

	for _, sub := range s.subs {
		if batteryChanged {
			s.sendBattery(ctx, sub)
		}
		if btChanged {
			s.sendBluetooth(ctx, sub)
		}
	}
}

func (s *Service) sendBattery(ctx *kernel.Context, to kernel.Capability) {
	payload := proto.BatteryPayload(s.battery.Percent, s.battery.Charging, s.battery.Plugged)
	_ = ctx.SendToCapRetry(to, uint16(proto.MsgBatteryState), payload, kernel.Capability{}, 2)
}

func (s *Service) sendBluetooth(ctx *kernel.Context, to kernel.Capability) {
	_ = ctx.SendToCapRetry(to, uint16(proto.MsgBluetoothState), proto.BluetoothPayload(s.connected), kernel.Capability{}, 2)
}
