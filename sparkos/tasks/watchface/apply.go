package watchface

import (
	"fmt"

	"sparkwatch/hal"
	"sparkwatch/sparkos/proto"
)

// Apply is the watchface transition function. It never mutates its input and
// has no side effects; the returned effects are executed by the caller in order.
func Apply(s State, ev Event) (State, []Effect) {
	if s.Phase == PhaseShuttingDown {
		return s, nil
	}
	switch e := ev.(type) {
	case Tick:
		return applyTick(s, e)
	case Battery:
		s.BatteryPercent = e.Percent
		s.Charging = e.Charging
		return s, setText(nil, FieldBattery, FormatBattery(e.Percent, e.Charging))
	case Bluetooth:
		return applyBluetooth(s, e)
	case Sync:
		return applySync(s, e.Tuple)
	case Started:
		if s.Phase == PhaseUninitialized {
			s.Phase = PhaseRunning
		}
		return s, nil
	case Shutdown:
		s.Phase = PhaseShuttingDown
		if s.Overlay {
			s.Overlay = false
			return s, []Effect{SetOverlay{On: false}}
		}
		return s, nil
	default:
		return s, []Effect{Log{Err: fmt.Errorf("unhandled event %T", ev)}}
	}
}

func applyTick(s State, e Tick) (State, []Effect) {
	var out []Effect
	if day := DayID(e.Now); day != s.DayID {
		s.DayID = day
		out = setText(out, FieldDate, FormatDate(e.Now))
		out = setText(out, FieldWeek, FormatWeek(e.Now))
	}

	text, ampm := FormatTime(e.Now, e.Clock24h)
	if !e.Clock24h {
		out = setText(out, FieldAMPM, ampm)
	}
	out = setText(out, FieldTime, text)

	if e.Units&proto.HourUnit != 0 && s.running() && s.Prefs.HourlyVibe {
		out = append(out, Vibe{Pattern: hal.VibeShort})
	}
	return s, out
}

func applyBluetooth(s State, e Bluetooth) (State, []Effect) {
	s.Connected = e.Connected
	out := setText(nil, FieldBluetooth, bluetoothText(s))
	if s.running() && s.Prefs.BluetoothVibe && !e.Connected {
		out = append(out, Vibe{Pattern: hal.VibeLong})
	}
	return s, out
}

func applySync(s State, t proto.Tuple) (State, []Effect) {
	key := Key(t.Key)
	switch key {
	case KeyTemperature, KeyCondition:
		str, ok := t.Str()
		if !ok {
			return s, badPayload(key, t)
		}
		field := FieldTemperature
		if key == KeyCondition {
			field = FieldCondition
		}
		text, err := fitField(field, str)
		if key == KeyTemperature {
			s.Prefs.Temperature = text
		} else {
			s.Prefs.Condition = text
		}
		out := []Effect{SetText{Field: field, Text: text}}
		if err != nil {
			out = append(out, Log{Err: err})
		}
		return s, out

	case KeyInvert, KeyBluetoothVibe, KeyHourlyVibe, KeyMinimal:
		n, ok := t.Int()
		if !ok {
			return s, badPayload(key, t)
		}
		v := n != 0
		s.Prefs.setFlag(key, v)
		out := []Effect{Persist{Key: key, Value: v}}

		switch key {
		case KeyInvert:
			if v != s.Overlay {
				s.Overlay = v
				out = append(out, SetOverlay{On: v})
			}
		case KeyMinimal:
			fields := make([]Field, len(minimalFields))
			copy(fields, minimalFields)
			out = append(out, SetHidden{Fields: fields, Hidden: v})
		}
		return s, out

	default:
		return s, []Effect{Log{Err: fmt.Errorf("%w: %d", ErrUnknownPreferenceKey, t.Key)}}
	}
}

func badPayload(key Key, t proto.Tuple) []Effect {
	return []Effect{Log{Err: fmt.Errorf("%s: %w: %s value", key, ErrBadPayload, t.Type)}}
}

// setText appends a SetText effect, plus a Log effect if the text had to be cut.
func setText(out []Effect, f Field, text string) []Effect {
	text, err := fitField(f, text)
	out = append(out, SetText{Field: f, Text: text})
	if err != nil {
		out = append(out, Log{Err: err})
	}
	return out
}
