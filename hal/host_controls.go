//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pollControls maps simulator keys onto the emulated power state:
//
//	B      toggle the phone link
//	C      toggle charging
//	+ / -  battery level up / down by 10%
func pollControls(h *hostHAL) {
	p := h.power
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		h.log.Info("sim: bluetooth", "connected", p.toggleBluetooth())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		st := p.toggleCharging()
		h.log.Info("sim: charger", "charging", st.Charging)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		st := p.adjustBattery(10)
		h.log.Info("sim: battery", "percent", st.Percent)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		st := p.adjustBattery(-10)
		h.log.Info("sim: battery", "percent", st.Percent)
	}
}
