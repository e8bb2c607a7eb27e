// Package task implements the timed-task checkpoint schedule and the
// single-active-task state machine with pause/resume semantics.
package task

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
)

// BuildCheckpoints derives the ordered reminder schedule for a task of the
// given duration. The list always begins with a start checkpoint
// (remaining = duration) and ends with complete (remaining = 0).
func BuildCheckpoints(durationMinutes int) []domain.Checkpoint {
	cps := []domain.Checkpoint{
		{ID: "start", TimeRemainingMinutes: durationMinutes, Kind: domain.CheckpointStart},
	}

	switch {
	case durationMinutes <= 10:
		cps = append(cps, domain.Checkpoint{ID: "warn-2", TimeRemainingMinutes: 2, Kind: domain.CheckpointWarning})
	case durationMinutes <= 30:
		cps = append(cps,
			domain.Checkpoint{ID: "half", TimeRemainingMinutes: durationMinutes / 2, Kind: domain.CheckpointProgress},
			domain.Checkpoint{ID: "warn-5", TimeRemainingMinutes: 5, Kind: domain.CheckpointWarning},
		)
	default:
		cps = append(cps,
			domain.Checkpoint{ID: "half", TimeRemainingMinutes: durationMinutes / 2, Kind: domain.CheckpointProgress},
			domain.Checkpoint{ID: "warn-10", TimeRemainingMinutes: 10, Kind: domain.CheckpointWarning},
			domain.Checkpoint{ID: "warn-5", TimeRemainingMinutes: 5, Kind: domain.CheckpointWarning},
		)
	}

	return append(cps, domain.Checkpoint{ID: "complete", TimeRemainingMinutes: 0, Kind: domain.CheckpointComplete})
}

// Elapsed returns how long the task has effectively been running. While
// paused, elapsed time is frozen at the accumulated snapshot.
func Elapsed(state *domain.ActiveTaskState, now time.Time) time.Duration {
	if state.Status == domain.TaskPaused {
		return state.AccumulatedTime
	}
	return state.AccumulatedTime + now.Sub(state.StartedAt)
}

// Remaining returns the time left for the task, floored at zero.
func Remaining(state *domain.ActiveTaskState, durationMinutes int, now time.Time) time.Duration {
	total := time.Duration(durationMinutes) * time.Minute
	left := total - Elapsed(state, now)
	if left < 0 {
		return 0
	}
	return left
}

// RemainingMinutes returns the remaining time in whole minutes, rounded up
// so that a checkpoint fires the moment its minute mark is reached.
func RemainingMinutes(state *domain.ActiveTaskState, durationMinutes int, now time.Time) int {
	left := Remaining(state, durationMinutes, now)
	return int((left + time.Minute - 1) / time.Minute)
}

// ProgressPercent returns how far through the task we are, capped at 100.
func ProgressPercent(state *domain.ActiveTaskState, durationMinutes int, now time.Time) int {
	total := time.Duration(durationMinutes) * time.Minute
	if total <= 0 {
		return 0
	}
	pct := int(Elapsed(state, now) * 100 / total)
	if pct > 100 {
		return 100
	}
	return pct
}

// NextCheckpoint scans forward from the last announced checkpoint and
// returns the first one already reached or passed. Returns nil when every
// checkpoint up to complete has been announced, or none is due yet.
func NextCheckpoint(state *domain.ActiveTaskState, durationMinutes int, now time.Time) *domain.Checkpoint {
	cps := BuildCheckpoints(durationMinutes)
	lastIdx := checkpointIndex(cps, state.LastAnnouncedCheckpoint)
	remaining := RemainingMinutes(state, durationMinutes, now)

	for i := lastIdx + 1; i < len(cps); i++ {
		if cps[i].TimeRemainingMinutes >= remaining {
			cp := cps[i]
			return &cp
		}
	}
	return nil
}

// ShouldAnnounce reports whether a checkpoint is due to be spoken. Never
// true while paused, and never for a checkpoint at or before the last
// announced position — checkpoints only move forward.
func ShouldAnnounce(cp domain.Checkpoint, state *domain.ActiveTaskState, durationMinutes int, now time.Time) bool {
	if state.Status == domain.TaskPaused {
		return false
	}
	cps := BuildCheckpoints(durationMinutes)
	if checkpointIndex(cps, cp.ID) <= checkpointIndex(cps, state.LastAnnouncedCheckpoint) {
		return false
	}
	return RemainingMinutes(state, durationMinutes, now) <= cp.TimeRemainingMinutes
}

// checkpointIndex returns the position of a checkpoint ID in the schedule,
// -1 when unset or unknown.
func checkpointIndex(cps []domain.Checkpoint, id string) int {
	if id == "" {
		return -1
	}
	for i, cp := range cps {
		if cp.ID == id {
			return i
		}
	}
	return -1
}

// checkpointLine builds the spoken reminder for a due checkpoint.
func checkpointLine(cp domain.Checkpoint, taskText string, remainingMinutes int) string {
	switch cp.Kind {
	case domain.CheckpointProgress:
		return fmt.Sprintf("halfway there, %d minutes left for %s", remainingMinutes, taskText)
	case domain.CheckpointWarning:
		return fmt.Sprintf("only %d minutes left for %s, almost done", remainingMinutes, taskText)
	default:
		return fmt.Sprintf("%d minutes left for %s", remainingMinutes, taskText)
	}
}
