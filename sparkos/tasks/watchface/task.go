package watchface

import (
	"fmt"

	"sparkwatch/hal"
	logclient "sparkwatch/sparkos/client/logger"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/proto"
)

// FlagStore persists the boolean preferences. *persist.Store satisfies it.
type FlagStore interface {
	ReadBool(key uint32, def bool) bool
	WriteBool(key uint32, v bool) error
}

// Config wires the watchface to the device and to the services it subscribes to.
type Config struct {
	Display hal.Display
	Clock   hal.Clock
	Vibe    hal.Vibe
	Store   FlagStore

	// Endpoint is the watchface inbox; it needs both rights so the task can hand
	// out a send capability when subscribing.
	Endpoint kernel.Capability
	LogCap   kernel.Capability
	TimeCap  kernel.Capability
	PowerCap kernel.Capability
	SyncCap  kernel.Capability

	BluetoothDisplay BluetoothDisplay
}

type Task struct {
	cfg Config

	state    State
	screen   *Screen
	renderer *Renderer
	fb       hal.Framebuffer
}

func New(cfg Config) *Task {
	return &Task{cfg: cfg, state: NewState(cfg.BluetoothDisplay), screen: NewScreen()}
}

// InitialTuples is the dictionary the watchface starts from: empty weather
// strings and the stored flags.
func InitialTuples(store FlagStore) []proto.Tuple {
	out := []proto.Tuple{
		proto.CStringTuple(uint32(KeyCondition), ""),
		proto.CStringTuple(uint32(KeyTemperature), ""),
	}
	for _, k := range FlagKeys {
		v := false
		if store != nil {
			v = store.ReadBool(uint32(k), false)
		}
		out = append(out, proto.BoolTuple(uint32(k), v))
	}
	return out
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.cfg.Endpoint.Restrict(kernel.RightRecv))
	if !ok {
		return
	}
	if t.cfg.Display == nil {
		t.logf(ctx, "watchface: no display")
		return
	}
	t.fb = t.cfg.Display.Framebuffer()
	if t.fb == nil {
		t.logf(ctx, "watchface: no framebuffer")
		return
	}
	t.renderer = NewRenderer(t.fb)

	t.start(ctx)

	for msg := range ch {
		if proto.Kind(msg.Kind) == proto.MsgAppShutdown {
			t.dispatch(ctx, Shutdown{})
			return
		}
		t.handleMessage(ctx, msg)
	}
}

// start mirrors the boot order of the face: initial values, subscriptions,
// Started, then a forced refresh.
func (t *Task) start(ctx *kernel.Context) {
	initial := InitialTuples(t.cfg.Store)
	for _, tup := range initial {
		t.dispatch(ctx, Sync{Tuple: tup})
	}

	self := t.cfg.Endpoint.Restrict(kernel.RightSend)
	t.subscribe(ctx, t.cfg.TimeCap, proto.MsgTickSubscribe, nil, self)
	t.subscribe(ctx, t.cfg.PowerCap, proto.MsgPowerSubscribe, nil, self)
	if payload, err := proto.SyncInitPayload(initial); err != nil {
		t.logf(ctx, "watchface: sync init: %v", err)
	} else {
		t.subscribe(ctx, t.cfg.SyncCap, proto.MsgSyncInit, payload, self)
	}

	t.dispatch(ctx, Started{})
	if t.cfg.Clock != nil {
		t.dispatch(ctx, Tick{Now: t.cfg.Clock.Now(), Clock24h: t.cfg.Clock.Is24Hour()})
	}
}

func (t *Task) subscribe(ctx *kernel.Context, to kernel.Capability, kind proto.Kind, payload []byte, self kernel.Capability) {
	if !to.Valid() {
		return
	}
	if res := ctx.SendToCapRetry(to, uint16(kind), payload, self, 16); res != kernel.SendOK {
		t.logf(ctx, "watchface: %s: %s", kind, res)
	}
}

func (t *Task) handleMessage(ctx *kernel.Context, msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgTick:
		now, units, h24, ok := proto.DecodeTickPayload(msg.Payload())
		if !ok {
			t.logf(ctx, "watchface: bad tick payload")
			return
		}
		t.dispatch(ctx, Tick{Now: now, Units: units, Clock24h: h24})

	case proto.MsgBatteryState:
		pct, charging, _, ok := proto.DecodeBatteryPayload(msg.Payload())
		if !ok {
			t.logf(ctx, "watchface: bad battery payload")
			return
		}
		t.dispatch(ctx, Battery{Percent: pct, Charging: charging})

	case proto.MsgBluetoothState:
		connected, ok := proto.DecodeBluetoothPayload(msg.Payload())
		if !ok {
			t.logf(ctx, "watchface: bad bluetooth payload")
			return
		}
		t.dispatch(ctx, Bluetooth{Connected: connected})

	case proto.MsgSyncTuple:
		newT, _, _, err := proto.DecodeSyncTuplePayload(msg.Payload())
		if err != nil {
			t.logf(ctx, "watchface: sync tuple: %v", err)
			return
		}
		t.dispatch(ctx, Sync{Tuple: newT})

	case proto.MsgError:
		code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			return
		}
		t.logf(ctx, "watchface: %s error: %s %s", ref, code, detail)
	}
}

// dispatch runs one event to completion: transition, effects, redraw.
func (t *Task) dispatch(ctx *kernel.Context, ev Event) {
	next, effects := Apply(t.state, ev)
	t.state = next

	dirty := false
	for _, e := range effects {
		switch e := e.(type) {
		case SetText, SetHidden, SetOverlay:
			if t.screen.Apply(e) {
				dirty = true
			}
		case Vibe:
			if t.cfg.Vibe == nil {
				continue
			}
			if err := t.cfg.Vibe.Pulse(e.Pattern); err != nil {
				t.logf(ctx, "watchface: vibe %s: %v", e.Pattern, err)
			}
		case Persist:
			if t.cfg.Store == nil {
				continue
			}
			if err := t.cfg.Store.WriteBool(uint32(e.Key), e.Value); err != nil {
				t.logf(ctx, "watchface: persist %s: %v", e.Key, err)
			}
		case Log:
			t.logf(ctx, "watchface: %v", e.Err)
		}
	}

	if dirty && t.renderer != nil {
		t.renderer.Draw(t.screen)
		if err := t.fb.Present(); err != nil {
			t.logf(ctx, "watchface: present: %v", err)
		}
	}
}

func (t *Task) logf(ctx *kernel.Context, format string, args ...any) {
	if !t.cfg.LogCap.Valid() {
		return
	}
	_ = logclient.Log(ctx, t.cfg.LogCap, fmt.Sprintf(format, args...))
}
