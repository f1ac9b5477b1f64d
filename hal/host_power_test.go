//go:build !tinygo

package hal

import "testing"

func TestHostPowerClampsAndToggles(t *testing.T) {
	p := newHostPower(BatteryState{Percent: 150}, true)
	if got := p.Battery().Percent; got != 100 {
		t.Fatalf("Percent = %d, want 100", got)
	}
	if got := p.adjustBattery(10).Percent; got != 100 {
		t.Fatalf("Percent = %d, want 100", got)
	}
	if got := p.adjustBattery(-130).Percent; got != 0 {
		t.Fatalf("Percent = %d, want 0", got)
	}

	if p.toggleBluetooth() || p.BluetoothConnected() {
		t.Fatal("expected bluetooth off after toggle")
	}
	st := p.toggleCharging()
	if !st.Charging || !st.Plugged {
		t.Fatalf("toggleCharging = %+v, want charging and plugged", st)
	}
}
