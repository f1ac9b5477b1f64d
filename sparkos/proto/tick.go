package proto

import (
	"encoding/binary"
	"strings"
	"time"
)

// TimeUnits is a bitset of calendar units that changed since the previous tick.
type TimeUnits uint8

const (
	SecondUnit TimeUnits = 1 << iota
	MinuteUnit
	HourUnit
	DayUnit
	MonthUnit
	YearUnit
)

func (u TimeUnits) String() string {
	if u == 0 {
		return "none"
	}
	names := [...]string{"second", "minute", "hour", "day", "month", "year"}
	var parts []string
	for i, n := range names {
		if u&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// ChangedUnits reports which units differ between prev and now.
// A zero prev means "first tick": every unit counts as changed.
func ChangedUnits(prev, now time.Time) TimeUnits {
	if prev.IsZero() {
		return SecondUnit | MinuteUnit | HourUnit | DayUnit | MonthUnit | YearUnit
	}
	var u TimeUnits
	if prev.Second() != now.Second() {
		u |= SecondUnit
	}
	if prev.Minute() != now.Minute() {
		u |= MinuteUnit
	}
	if prev.Hour() != now.Hour() {
		u |= HourUnit
	}
	if prev.Day() != now.Day() {
		u |= DayUnit
	}
	if prev.Month() != now.Month() {
		u |= MonthUnit
	}
	if prev.Year() != now.Year() {
		u |= YearUnit
	}
	return u
}

const tickFlag24h = 1 << 0

// TickPayload encodes a MsgTick payload.
//
// Layout (little-endian):
//   - i64: unix seconds
//   - i32: UTC offset seconds of the local zone
//   - u8:  units changed
//   - u8:  flags (bit0 = 24h clock style)
func TickPayload(now time.Time, units TimeUnits, clock24h bool) []byte {
	_, off := now.Zone()
	buf := make([]byte, 14)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(now.Unix()))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(off)))
	buf[12] = byte(units)
	if clock24h {
		buf[13] |= tickFlag24h
	}
	return buf
}

// DecodeTickPayload decodes a TickPayload. The returned time carries a fixed zone
// with the sender's offset so calendar fields match the sender's local time.
func DecodeTickPayload(payload []byte) (now time.Time, units TimeUnits, clock24h bool, ok bool) {
	if len(payload) < 14 {
		return time.Time{}, 0, false, false
	}
	sec := int64(binary.LittleEndian.Uint64(payload[0:8]))
	off := int32(binary.LittleEndian.Uint32(payload[8:12]))
	now = time.Unix(sec, 0).In(time.FixedZone("", int(off)))
	return now, TimeUnits(payload[12]), payload[13]&tickFlag24h != 0, true
}
