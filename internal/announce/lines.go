package announce

import (
	"fmt"
	"time"
)

// TimeLine builds the spoken time announcement. Child mode gets friendlier
// phrasing; the plain mode stays terse for adults.
func TimeLine(t time.Time, childMode bool) string {
	hour := t.Hour()
	minute := t.Minute()

	if !childMode {
		return fmt.Sprintf("it's %02d:%02d", hour, minute)
	}

	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	period := childPeriod(hour)
	if minute == 0 {
		return fmt.Sprintf("ding dong! It's %d o'clock in the %s", h12, period)
	}
	return fmt.Sprintf("ding dong! It's %d %02d in the %s", h12, minute, period)
}

// childPeriod names the part of day for child-mode announcements.
func childPeriod(hour int) string {
	switch {
	case hour < 6:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// WithNamePrefix prepends the configured display name to a message.
// Empty names leave the message untouched.
func WithNamePrefix(name, msg string) string {
	if name == "" || msg == "" {
		return msg
	}
	return name + ", " + msg
}
