package watchface

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrUnknownPreferenceKey = errors.New("unknown preference key")
	ErrPayloadTooLong       = errors.New("payload too long")
	ErrBadPayload           = errors.New("bad payload")
)

// Field is one text element of the watchface.
type Field uint8

const (
	FieldTime Field = iota
	FieldDate
	FieldWeek
	FieldAMPM
	FieldBattery
	FieldBluetooth
	FieldTemperature
	FieldCondition

	fieldCount
)

// syncTextCapacity is the longest cstring appsync forwards in one message:
// 128 bytes minus the dictionary count, tuple header and NUL. Longer weather
// text is wrapped and clipped by the renderer before it reaches this limit.
const syncTextCapacity = 128 - 1 - 7 - 1

// Capacity is the maximum length of the field text, in characters.
func (f Field) Capacity() int {
	switch f {
	case FieldTime:
		return 5
	case FieldDate:
		return 19
	case FieldWeek:
		return 13
	case FieldAMPM:
		return 2
	case FieldBattery:
		return 5
	case FieldBluetooth:
		return 13
	case FieldTemperature, FieldCondition:
		return syncTextCapacity
	default:
		return 0
	}
}

func (f Field) String() string {
	switch f {
	case FieldTime:
		return "time"
	case FieldDate:
		return "date"
	case FieldWeek:
		return "week"
	case FieldAMPM:
		return "ampm"
	case FieldBattery:
		return "battery"
	case FieldBluetooth:
		return "bluetooth"
	case FieldTemperature:
		return "temp"
	case FieldCondition:
		return "condition"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}

// minimalFields are hidden together in minimal mode.
var minimalFields = []Field{FieldCondition, FieldBluetooth, FieldDate, FieldWeek}

// fitField cuts s to the field capacity at a rune boundary. The error is
// ErrPayloadTooLong when anything was cut.
func fitField(f Field, s string) (string, error) {
	limit := f.Capacity()
	if utf8.RuneCountInString(s) <= limit {
		return s, nil
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], fmt.Errorf("%s: %w: %d > %d characters", f, ErrPayloadTooLong, utf8.RuneCountInString(s), limit)
		}
		n++
	}
	return s, nil
}
