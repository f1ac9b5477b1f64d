package watchface

import (
	"fmt"
	"time"
)

// OrdinalSuffix returns the English ordinal suffix for a day of month.
func OrdinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}

// DayID identifies a calendar day: Year*1000 + YearDay.
func DayID(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

// FormatDate renders "Mon, 21st of Jun". The day of month is space padded to two
// columns, so single-digit days read "Wed,  3rd of Jun".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %2d%s of %s", t.Format("Mon"), t.Day(), OrdinalSuffix(t.Day()), t.Format("Jan"))
}

// FormatWeek renders the ISO week number with the calendar year: "Week 07, 2026".
func FormatWeek(t time.Time) string {
	_, week := t.ISOWeek()
	return fmt.Sprintf("Week %02d, %d", week, t.Year())
}

// FormatTime renders the clock text. In 12h mode the hour is space padded and
// then one leading space or zero is dropped ("9:05"), and ampm is "AM" or "PM".
// In 24h mode ampm is empty.
func FormatTime(t time.Time, clock24h bool) (text, ampm string) {
	if clock24h {
		return t.Format("15:04"), ""
	}
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	text = fmt.Sprintf("%2d:%02d", h, t.Minute())
	if text[0] == ' ' || text[0] == '0' {
		text = text[1:]
	}
	ampm = "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	return text, ampm
}

// FormatBattery renders "+42%" while charging and "42%" otherwise.
func FormatBattery(percent uint8, charging bool) string {
	if charging {
		return fmt.Sprintf("+%d%%", percent)
	}
	return fmt.Sprintf("%d%%", percent)
}

const (
	textConnected    = "Connected"
	textNotConnected = "NOT Connected"
)

// ConnectivityStatus reports the real link state.
func ConnectivityStatus(connected bool) string {
	if connected {
		return textConnected
	}
	return textNotConnected
}

// VibeGatedStatus shows "NOT Connected" only when the watchface is running, the
// loss alert is enabled and the link is down. Otherwise it reads "Connected".
func VibeGatedStatus(started, bluetoothVibe, connected bool) string {
	if started && bluetoothVibe && !connected {
		return textNotConnected
	}
	return textConnected
}

func bluetoothText(s State) string {
	if s.BluetoothDisplay == BluetoothVibeGated {
		return VibeGatedStatus(s.running(), s.Prefs.BluetoothVibe, s.Connected)
	}
	return ConnectivityStatus(s.Connected)
}
