package announce

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/goal"
	"github.com/hammamikhairi/chime/internal/logger"
	"github.com/hammamikhairi/chime/internal/task"
)

// ComposerOption configures the composer.
type ComposerOption func(*Composer)

// WithComposerClock overrides the time source. Used in tests.
func WithComposerClock(now func() time.Time) ComposerOption {
	return func(c *Composer) {
		c.now = now
	}
}

// Composer picks the single follow-up message spoken after a time
// announcement, in fixed priority order: running task, approaching goal
// deadline, next pending task, or nothing.
type Composer struct {
	machine  *task.Machine
	planner  *goal.Planner
	tasks    domain.TaskRepository
	settings domain.SettingsRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewComposer creates a follow-up composer.
func NewComposer(machine *task.Machine, planner *goal.Planner, tasks domain.TaskRepository, settings domain.SettingsRepository, log *logger.Logger, opts ...ComposerOption) *Composer {
	c := &Composer{
		machine:  machine,
		planner:  planner,
		tasks:    tasks,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose returns the follow-up message, or "" when there is nothing worth
// saying. The configured child name is prepended to whichever message wins.
func (c *Composer) Compose(ctx context.Context) string {
	msg := c.pick(ctx)
	if msg == "" {
		return ""
	}

	name := ""
	if cfg, err := c.settings.Load(ctx); err == nil {
		name = cfg.ChildName
	}
	return WithNamePrefix(name, msg)
}

// pick applies the priority order.
func (c *Composer) pick(ctx context.Context) string {
	// 1. A running (not paused) task with time still on the clock.
	if snap := c.machine.Snapshot(); snap != nil &&
		snap.Status == domain.TaskActive && snap.Remaining > 0 {
		return fmt.Sprintf("%d minutes left for %s", snap.RemainingMinutes, snap.Task.Text)
	}

	// 2. A goal deadline inside its reminder window.
	if c.planner != nil {
		if msg := c.planner.DueReminderText(ctx, c.now()); msg != "" {
			return msg
		}
	}

	// 3. The next uncompleted task, as a gentle hint.
	next := c.nextTask(ctx)
	if next == nil {
		return ""
	}
	if next.Timed() {
		return fmt.Sprintf("next is %s, %d minutes", next.Text, next.DurationMinutes)
	}
	return fmt.Sprintf("next is %s", next.Text)
}

// nextTask returns the first uncompleted task in order, nil when none.
func (c *Composer) nextTask(ctx context.Context) *domain.Task {
	all, err := c.tasks.List(ctx)
	if err != nil {
		c.log.Error("composer: listing tasks: %v", err)
		return nil
	}
	for i := range all {
		if !all[i].Completed {
			return &all[i]
		}
	}
	return nil
}
