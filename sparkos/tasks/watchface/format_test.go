package watchface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrdinalSuffix(t *testing.T) {
	want := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 24: "th", 30: "th", 31: "st",
	}
	for day, sfx := range want {
		assert.Equal(t, sfx, OrdinalSuffix(day), "day %d", day)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mon, 21st of Jun", FormatDate(time.Date(2027, time.June, 21, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Wed,  3rd of Jun", FormatDate(time.Date(2026, time.June, 3, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Sat, 12th of Dec", FormatDate(time.Date(2026, time.December, 12, 8, 0, 0, 0, time.UTC)))
	for d := 1; d <= 31; d++ {
		s := FormatDate(time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC))
		assert.LessOrEqual(t, len(s), FieldDate.Capacity(), s)
	}
}

func TestFormatWeek(t *testing.T) {
	assert.Equal(t, "Week 07, 2026", FormatWeek(time.Date(2026, time.February, 12, 0, 0, 0, 0, time.UTC)))
	// 1 Jan 2027 is a Friday and belongs to ISO week 53 of 2026; the year shown is
	// the calendar year.
	assert.Equal(t, "Week 53, 2027", FormatWeek(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		hour, min int
		h24       bool
		text      string
		ampm      string
	}{
		{9, 5, true, "09:05", ""},
		{23, 59, true, "23:59", ""},
		{0, 0, true, "00:00", ""},
		{9, 5, false, "9:05", "AM"},
		{12, 5, false, "12:05", "PM"},
		{0, 30, false, "12:30", "AM"},
		{21, 7, false, "9:07", "PM"},
		{22, 15, false, "10:15", "PM"},
	}
	for _, tc := range cases {
		now := time.Date(2026, time.May, 1, tc.hour, tc.min, 0, 0, time.UTC)
		text, ampm := FormatTime(now, tc.h24)
		assert.Equal(t, tc.text, text, "%02d:%02d h24=%v", tc.hour, tc.min, tc.h24)
		assert.Equal(t, tc.ampm, ampm, "%02d:%02d h24=%v", tc.hour, tc.min, tc.h24)
	}
}

func TestFormatBattery(t *testing.T) {
	assert.Equal(t, "+42%", FormatBattery(42, true))
	assert.Equal(t, "7%", FormatBattery(7, false))
	assert.Equal(t, "+100%", FormatBattery(100, true))
}

func TestBluetoothStatuses(t *testing.T) {
	assert.Equal(t, "Connected", ConnectivityStatus(true))
	assert.Equal(t, "NOT Connected", ConnectivityStatus(false))

	assert.Equal(t, "NOT Connected", VibeGatedStatus(true, true, false))
	assert.Equal(t, "Connected", VibeGatedStatus(true, false, false))
	assert.Equal(t, "Connected", VibeGatedStatus(false, true, false))
	assert.Equal(t, "Connected", VibeGatedStatus(true, true, true))
}

func TestDayID(t *testing.T) {
	assert.Equal(t, 2026001, DayID(time.Date(2026, time.January, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 2026365, DayID(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
