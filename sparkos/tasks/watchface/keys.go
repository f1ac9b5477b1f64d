package watchface

import "fmt"

// Key identifies a synced preference. The numeric values are shared with the
// phone and with the persist store.
type Key uint32

const (
	KeyInvert        Key = 0
	KeyBluetoothVibe Key = 1
	KeyHourlyVibe    Key = 2
	KeyTemperature   Key = 3
	KeyCondition     Key = 4
	KeyMinimal       Key = 5
)

// FlagKeys lists the persisted boolean preferences in load order.
var FlagKeys = [...]Key{KeyInvert, KeyBluetoothVibe, KeyHourlyVibe, KeyMinimal}

func (k Key) String() string {
	switch k {
	case KeyInvert:
		return "invert"
	case KeyBluetoothVibe:
		return "bluetoothvibe"
	case KeyHourlyVibe:
		return "hourlyvibe"
	case KeyTemperature:
		return "temp"
	case KeyCondition:
		return "condition"
	case KeyMinimal:
		return "mmode"
	default:
		return fmt.Sprintf("key(%d)", uint32(k))
	}
}

// IsFlag reports whether k carries a persisted boolean.
func (k Key) IsFlag() bool {
	switch k {
	case KeyInvert, KeyBluetoothVibe, KeyHourlyVibe, KeyMinimal:
		return true
	}
	return false
}
