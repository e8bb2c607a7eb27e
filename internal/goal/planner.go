// Package goal computes deadline-goal schedules: latest start times from
// summed task durations, next-upcoming selection, and staged reminders.
package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/chime/internal/deadline"
	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Planner answers questions about deadline goals. It holds no goal state
// of its own; everything is recomputed from the repositories.
type Planner struct {
	goals domain.GoalRepository
	tasks domain.TaskRepository
	log   *logger.Logger
}

// NewPlanner creates a goal planner.
func NewPlanner(goals domain.GoalRepository, tasks domain.TaskRepository, log *logger.Logger) *Planner {
	return &Planner{goals: goals, tasks: tasks, log: log}
}

// TotalDuration sums the durations of the goal's tasks in execution order.
// Unknown task IDs are skipped — a goal referencing a deleted task should
// not break scheduling.
func (p *Planner) TotalDuration(ctx context.Context, g domain.Goal) time.Duration {
	var total time.Duration
	for _, id := range g.TaskIDs {
		t, err := p.tasks.Get(ctx, id)
		if err != nil {
			p.log.Warn("planner: goal %s references missing task %s", g.ID, id)
			continue
		}
		total += time.Duration(t.DurationMinutes) * time.Minute
	}
	return total
}

// StartTime returns the latest instant the goal's task sequence must begin
// to finish by the target time.
func (p *Planner) StartTime(ctx context.Context, g domain.Goal, now time.Time) (time.Time, error) {
	target, err := deadline.Target(g.TargetTime, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("goal %s target: %w", g.ID, err)
	}
	return target.Add(-p.TotalDuration(ctx, g)), nil
}

// NextUpcoming returns the enabled goal with the nearest target, using the
// same midnight-rollover interpretation as the deadline calculator. The
// most overdue goal sorts first — it needs attention most. Returns nil
// when no enabled goal has a parseable target.
func (p *Planner) NextUpcoming(ctx context.Context, now time.Time) (*domain.Goal, error) {
	goals, err := p.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	var best *domain.Goal
	bestMinutes := 0
	for i := range goals {
		g := goals[i]
		if !g.Enabled {
			continue
		}
		m, err := deadline.MinutesUntil(g.TargetTime, now)
		if err != nil {
			p.log.Warn("planner: goal %s has invalid target %q", g.ID, g.TargetTime)
			continue
		}
		if best == nil || m < bestMinutes {
			best = &goals[i]
			bestMinutes = m
		}
	}
	return best, nil
}

// ReminderThreshold returns the widest reminder window configured for the
// goal, falling back to the calculator default when none is set.
func ReminderThreshold(g domain.Goal) int {
	threshold := 0
	for _, m := range g.ReminderIntervals {
		if m > threshold {
			threshold = m
		}
	}
	if threshold == 0 {
		threshold = deadline.DefaultApproachingThreshold
	}
	return threshold
}

// DueReminderText returns the spoken reminder for the next upcoming goal
// when it is inside its reminder window, or "" when nothing is due.
func (p *Planner) DueReminderText(ctx context.Context, now time.Time) string {
	g, err := p.NextUpcoming(ctx, now)
	if err != nil {
		p.log.Error("planner: next upcoming: %v", err)
		return ""
	}
	if g == nil {
		return ""
	}
	if !deadline.IsApproaching(g.TargetTime, now, ReminderThreshold(*g)) {
		return ""
	}
	return deadline.ReminderText(g.Name, g.TargetTime, now)
}
