//go:build !tinygo

package hal

import "sync"

// hostPower simulates the charge controller and the phone link.
//
// The window exposes keys to change it; tests drive it directly.
type hostPower struct {
	mu        sync.Mutex
	battery   BatteryState
	connected bool
}

func newHostPower(battery BatteryState, connected bool) *hostPower {
	if battery.Percent > 100 {
		battery.Percent = 100
	}
	return &hostPower{battery: battery, connected: connected}
}

func (p *hostPower) Battery() BatteryState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.battery
}

func (p *hostPower) BluetoothConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *hostPower) toggleBluetooth() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = !p.connected
	return p.connected
}

func (p *hostPower) toggleCharging() BatteryState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.battery.Charging = !p.battery.Charging
	p.battery.Plugged = p.battery.Charging
	return p.battery
}

// adjustBattery moves the charge level by delta percent, clamped to 0..100.
func (p *hostPower) adjustBattery(delta int) BatteryState {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := int(p.battery.Percent) + delta
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	p.battery.Percent = uint8(v)
	return p.battery
}
