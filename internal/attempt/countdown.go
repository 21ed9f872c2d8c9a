package attempt

import (
	"fmt"
	"time"
)

// UrgencyThreshold is the remaining time below which clients should render
// the countdown in its urgent state.
const UrgencyThreshold = 5 * time.Minute

// InitialRemaining computes the starting countdown of a new attempt:
//
//	min(duration, max(0, endTime-now))
//
// A student who starts late relative to the exam's absolute window gets less
// than the nominal duration, but never more. This is the single authoritative
// formula — the deadline derived from it is shared by the reaper tick and
// every submit path.
func InitialRemaining(durationMinutes int, endTime, now time.Time) time.Duration {
	nominal := time.Duration(durationMinutes) * time.Minute
	untilEnd := endTime.Sub(now)
	if untilEnd < 0 {
		untilEnd = 0
	}
	if untilEnd < nominal {
		return untilEnd
	}
	return nominal
}

// FormatClock renders a remaining duration as MM:SS with zero-padded
// seconds. Negative durations render as 00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Urgent reports whether the countdown display should switch to its urgent
// state.
func Urgent(remaining time.Duration) bool {
	return remaining < UrgencyThreshold
}
