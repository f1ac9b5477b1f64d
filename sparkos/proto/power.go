package proto

const (
	batteryFlagCharging = 1 << 0
	batteryFlagPlugged  = 1 << 1
)

// BatteryPayload encodes a MsgBatteryState payload.
//
// Layout:
//   - u8: charge percent (0..100)
//   - u8: flags (bit0 = charging, bit1 = plugged)
func BatteryPayload(percent uint8, charging, plugged bool) []byte {
	var flags byte
	if charging {
		flags |= batteryFlagCharging
	}
	if plugged {
		flags |= batteryFlagPlugged
	}
	return []byte{percent, flags}
}

// DecodeBatteryPayload decodes a BatteryPayload.
func DecodeBatteryPayload(b []byte) (percent uint8, charging, plugged bool, ok bool) {
	if len(b) != 2 || b[0] > 100 {
		return 0, false, false, false
	}
	return b[0], b[1]&batteryFlagCharging != 0, b[1]&batteryFlagPlugged != 0, true
}

// BluetoothPayload encodes a MsgBluetoothState payload.
//
// Payload format:
//
//	b[0] == 0 => disconnected
//	b[0] != 0 => connected
func BluetoothPayload(connected bool) []byte {
	if connected {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBluetoothPayload(b []byte) (connected bool, ok bool) {
	if len(b) != 1 {
		return false, false
	}
	return b[0] != 0, true
}
