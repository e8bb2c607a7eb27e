package domain

import "time"

// ActiveTaskState tracks the single in-progress timed task. At most one
// instance exists at a time; it is created on start, mutated on
// pause/resume/checkpoint-announce, and destroyed on completion.
type ActiveTaskState struct {
	TaskID                  string
	Status                  TaskStatus
	StartedAt               time.Time
	AccumulatedTime         time.Duration // elapsed time frozen across pauses
	LastAnnouncedCheckpoint string        // checkpoint ID, empty when none yet
	TimeUpAnnounced         bool
}

// TaskStatus tracks the lifecycle of the active task.
type TaskStatus int

const (
	TaskActive TaskStatus = iota
	TaskPaused
)

// String returns a human-readable task status.
func (s TaskStatus) String() string {
	switch s {
	case TaskActive:
		return "active"
	case TaskPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Checkpoint is a scheduled spoken reminder point tied to remaining minutes
// within a timed task. Checkpoints are derived from a task's duration and
// never persisted.
type Checkpoint struct {
	ID                   string
	TimeRemainingMinutes int
	Kind                 CheckpointKind
}

// CheckpointKind classifies a checkpoint for message selection.
type CheckpointKind int

const (
	CheckpointStart CheckpointKind = iota
	CheckpointProgress
	CheckpointWarning
	CheckpointComplete
)

// String returns a human-readable checkpoint kind.
func (k CheckpointKind) String() string {
	switch k {
	case CheckpointStart:
		return "start"
	case CheckpointProgress:
		return "progress"
	case CheckpointWarning:
		return "warning"
	case CheckpointComplete:
		return "complete"
	default:
		return "unknown"
	}
}
