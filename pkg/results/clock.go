package results

import (
	"time"

	"github.com/aarondl/opt/null"
)

// ClockLayout is the clock format of chip and split times (HH:MM:SS, hour 00-23).
const ClockLayout = "15:04:05"

// ParseClock converts a clock string to seconds since midnight.
// ok is false for anything that is not exactly a valid HH:MM:SS time,
// including the empty string, "24:00:00" and fractional seconds.
func ParseClock(s string) (seconds int, ok bool) {
	// time.Parse tolerates a trailing fraction after the seconds field.
	if s == "" || len(s) > len(ClockLayout) {
		return 0, false
	}

	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, false
	}

	return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
}

// ClockSeconds is ParseClock as a nullable value; parse failures become null.
func ClockSeconds(s string) null.Val[int] {
	seconds, ok := ParseClock(s)
	return null.FromCond(seconds, ok)
}
