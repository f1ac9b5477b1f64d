package watchface

import (
	"time"

	"sparkwatch/sparkos/proto"
)

// Event is an input to Apply.
type Event interface {
	isEvent()
}

// Tick carries local wall time and the units that changed since the previous
// tick. Units is zero for a forced refresh.
type Tick struct {
	Now      time.Time
	Units    proto.TimeUnits
	Clock24h bool
}

// Battery is a charge controller report.
type Battery struct {
	Percent  uint8
	Charging bool
}

// Bluetooth is a phone-link report.
type Bluetooth struct {
	Connected bool
}

// Sync is one key/value update from the phone.
type Sync struct {
	Tuple proto.Tuple
}

// Started marks the end of initialization.
type Started struct{}

// Shutdown ends the watchface. Every later event is ignored.
type Shutdown struct{}

func (Tick) isEvent()      {}
func (Battery) isEvent()   {}
func (Bluetooth) isEvent() {}
func (Sync) isEvent()      {}
func (Started) isEvent()   {}
func (Shutdown) isEvent()  {}
