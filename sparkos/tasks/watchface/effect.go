package watchface

import (
	"fmt"

	"sparkwatch/hal"
)

// Effect is an output of Apply, executed by the task.
type Effect interface {
	isEffect()
}

// SetText replaces the text of a field.
type SetText struct {
	Field Field
	Text  string
}

// SetHidden hides or shows a group of fields.
type SetHidden struct {
	Fields []Field
	Hidden bool
}

// SetOverlay creates (On) or destroys the full-screen inversion overlay.
type SetOverlay struct {
	On bool
}

// Vibe pulses the vibration motor.
type Vibe struct {
	Pattern hal.VibePattern
}

// Persist stores a boolean preference.
type Persist struct {
	Key   Key
	Value bool
}

// Log reports a non-fatal error.
type Log struct {
	Err error
}

func (SetText) isEffect()    {}
func (SetHidden) isEffect()  {}
func (SetOverlay) isEffect() {}
func (Vibe) isEffect()       {}
func (Persist) isEffect()    {}
func (Log) isEffect()        {}

func (e SetText) String() string   { return fmt.Sprintf("set %s %q", e.Field, e.Text) }
func (e SetHidden) String() string { return fmt.Sprintf("hidden %v %v", e.Fields, e.Hidden) }
func (e SetOverlay) String() string {
	if e.On {
		return "overlay on"
	}
	return "overlay off"
}
func (e Vibe) String() string    { return "vibe " + e.Pattern.String() }
func (e Persist) String() string { return fmt.Sprintf("persist %s=%v", e.Key, e.Value) }
func (e Log) String() string     { return "log " + e.Err.Error() }
