package watchface

import "fmt"

// Phase is the watchface lifecycle.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseRunning
	PhaseShuttingDown
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRunning:
		return "running"
	case PhaseShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// BluetoothDisplay selects what the Bluetooth field shows.
type BluetoothDisplay uint8

const (
	// BluetoothConnectivity shows the real link state.
	BluetoothConnectivity BluetoothDisplay = iota
	// BluetoothVibeGated shows "NOT Connected" only while the loss alert is armed
	// (running with bluetoothvibe on).
	BluetoothVibeGated
)

func (d BluetoothDisplay) String() string {
	switch d {
	case BluetoothConnectivity:
		return "connectivity"
	case BluetoothVibeGated:
		return "vibe-gated"
	default:
		return "unknown"
	}
}

// ParseBluetoothDisplay parses "connectivity" or "vibe-gated". Empty means the default.
func ParseBluetoothDisplay(s string) (BluetoothDisplay, error) {
	switch s {
	case "", "connectivity":
		return BluetoothConnectivity, nil
	case "vibe-gated":
		return BluetoothVibeGated, nil
	default:
		return 0, fmt.Errorf("bluetooth display %q: want connectivity or vibe-gated", s)
	}
}

// Prefs are the synced user preferences.
type Prefs struct {
	Invert        bool
	BluetoothVibe bool
	HourlyVibe    bool
	Minimal       bool

	Temperature string
	Condition   string
}

// Flag returns the boolean preference for a flag key.
func (p Prefs) Flag(k Key) bool {
	switch k {
	case KeyInvert:
		return p.Invert
	case KeyBluetoothVibe:
		return p.BluetoothVibe
	case KeyHourlyVibe:
		return p.HourlyVibe
	case KeyMinimal:
		return p.Minimal
	}
	return false
}

func (p *Prefs) setFlag(k Key, v bool) {
	switch k {
	case KeyInvert:
		p.Invert = v
	case KeyBluetoothVibe:
		p.BluetoothVibe = v
	case KeyHourlyVibe:
		p.HourlyVibe = v
	case KeyMinimal:
		p.Minimal = v
	}
}

// State is everything the watchface knows. It is passed and returned by value.
type State struct {
	Phase Phase
	Prefs Prefs

	// DayID caches Year*1000+YearDay of the last rendered date; 0 means none.
	DayID int

	BatteryPercent uint8
	Charging       bool
	Connected      bool

	Overlay bool

	BluetoothDisplay BluetoothDisplay
}

// NewState returns the state of a watchface that has not started yet.
func NewState(display BluetoothDisplay) State {
	return State{BluetoothDisplay: display}
}

func (s State) running() bool { return s.Phase == PhaseRunning }
