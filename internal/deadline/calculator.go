// Package deadline converts "HH:MM" clock-time deadlines into absolute
// instants and produces spoken reminder text with urgency bands.
package deadline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// rolloverThreshold decides when a clock time that already passed today is
// reinterpreted as tomorrow. A deadline more than 6 hours in the past is
// assumed to mean the next day (e.g. now 23:51, deadline 00:58); anything
// closer is a legitimately overdue same-day deadline.
const rolloverThreshold = 6 * time.Hour

// DefaultApproachingThreshold is the minutes-left mark at which a deadline
// counts as "approaching".
const DefaultApproachingThreshold = 15

// Parse splits an "HH:MM" string into hour and minute.
func Parse(clock string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hour, minute, nil
}

// Target combines now's calendar date with the given clock time, applying
// the midnight-rollover rule.
func Target(clock string, now time.Time) (time.Time, error) {
	hour, minute, err := Parse(clock)
	if err != nil {
		return time.Time{}, err
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Sub(target) > rolloverThreshold {
		target = target.AddDate(0, 0, 1)
	}
	return target, nil
}

// MinutesUntil returns the signed number of minutes from now until the
// deadline, rounded to the nearest minute. Negative means overdue.
func MinutesUntil(clock string, now time.Time) (int, error) {
	target, err := Target(clock, now)
	if err != nil {
		return 0, err
	}
	return int(target.Sub(now).Round(time.Minute) / time.Minute), nil
}

// IsOverdue reports whether the deadline has passed.
func IsOverdue(clock string, now time.Time) bool {
	m, err := MinutesUntil(clock, now)
	return err == nil && m < 0
}

// IsApproaching reports whether the deadline is within threshold minutes.
// Overdue deadlines are always approaching.
func IsApproaching(clock string, now time.Time, threshold int) bool {
	m, err := MinutesUntil(clock, now)
	return err == nil && m <= threshold
}

// ReminderText builds the spoken reminder for a named deadline. The phrasing
// escalates as the deadline gets closer.
func ReminderText(name, clock string, now time.Time) string {
	m, err := MinutesUntil(clock, now)
	if err != nil {
		return ""
	}
	switch {
	case m < 0:
		return fmt.Sprintf("%s is already %d minutes overdue", name, -m)
	case m == 0:
		return fmt.Sprintf("%s, time is up", name)
	case m <= 5:
		return fmt.Sprintf("hurry, only %d minutes left for %s", m, name)
	case m <= DefaultApproachingThreshold:
		return fmt.Sprintf("%d minutes left for %s, get ready", m, name)
	default:
		return fmt.Sprintf("%d minutes left for %s", m, name)
	}
}
