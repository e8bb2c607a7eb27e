// Package domain defines the core types and interfaces for the chime assistant.
// All other packages depend on domain; domain depends on nothing.
package domain

// ClockSettings controls the periodic time announcements.
type ClockSettings struct {
	IntervalMinutes int    // whole minutes between announcements, 1-60
	Enabled         bool
	VoiceID         string // TTS voice name, empty = default
	ChildMode       bool   // friendlier phrasing
	ChildName       string // optional name prefix on spoken messages
}

// DefaultClockSettings returns the settings used when nothing is stored yet.
func DefaultClockSettings() ClockSettings {
	return ClockSettings{
		IntervalMinutes: 30,
		Enabled:         true,
	}
}

// Normalize clamps stored values into valid ranges. Partial or corrupt
// stored settings degrade to defaults rather than breaking the scheduler.
func (s ClockSettings) Normalize() ClockSettings {
	if s.IntervalMinutes < 1 || s.IntervalMinutes > 60 {
		s.IntervalMinutes = DefaultClockSettings().IntervalMinutes
	}
	return s
}

// Task is a single to-do item. Tasks without a duration never enter the
// active-task state machine; they only show up as "next is ..." hints.
type Task struct {
	ID              string
	Text            string
	DurationMinutes int // 0 = untimed
	Completed       bool
	Order           int
	Deadline        string // "HH:MM", empty when undated
}

// Timed reports whether the task can be started as an active timed task.
func (t Task) Timed() bool { return t.DurationMinutes > 0 }

// Goal is a deadline-style target like "leave by 07:50". TaskIDs reference
// existing tasks in execution order; their summed durations determine the
// latest start time.
type Goal struct {
	ID                string
	Name              string
	TargetTime        string // "HH:MM"
	Enabled           bool
	TaskIDs           []string
	ReminderIntervals []int // minutes-before-target marks, e.g. [30, 15, 5]
}
