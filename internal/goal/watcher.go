package goal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/chime/internal/deadline"
	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks goal deadlines.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithWatcherClock overrides the time source. Used in tests.
func WithWatcherClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher periodically inspects enabled goals and speaks a staged reminder
// each time a configured minutes-before mark is crossed. Every stage fires
// at most once per goal per day, so duplicate ticks are harmless.
type Watcher struct {
	planner  *Planner
	goals    domain.GoalRepository
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	announced map[string]string // "<goalID>/<stage>" -> date it fired
}

// NewWatcher creates a goal watcher with the given dependencies.
func NewWatcher(planner *Planner, goals domain.GoalRepository, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		planner:   planner,
		goals:     goals,
		notifier:  notifier,
		log:       log,
		interval:  30 * time.Second,
		now:       time.Now,
		announced: make(map[string]string),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("goal watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("goal watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle across all enabled goals.
func (w *Watcher) check(ctx context.Context) {
	goals, err := w.goals.List(ctx)
	if err != nil {
		w.log.Error("goal watcher: listing goals: %v", err)
		return
	}

	now := w.now()
	for _, g := range goals {
		if !g.Enabled {
			continue
		}
		w.inspect(ctx, g, now)
	}
}

// inspect fires the deepest newly-crossed reminder stage for one goal.
func (w *Watcher) inspect(ctx context.Context, g domain.Goal, now time.Time) {
	minutes, err := deadline.MinutesUntil(g.TargetTime, now)
	if err != nil {
		w.log.Warn("goal watcher: goal %s has invalid target %q", g.ID, g.TargetTime)
		return
	}

	stage, ok := dueStage(g, minutes)
	if !ok {
		return
	}
	if !w.markAnnounced(g.ID, stage, now) {
		return
	}

	msg := deadline.ReminderText(g.Name, g.TargetTime, now)
	if minutes <= 0 {
		if err := w.notifier.NotifyUrgent(ctx, msg); err != nil {
			w.log.Error("goal watcher: urgent notify: %v", err)
		}
	} else {
		if err := w.notifier.Notify(ctx, msg); err != nil {
			w.log.Error("goal watcher: notify: %v", err)
		}
	}
	w.log.Debug("goal %s stage %d fired (%d minutes to target)", g.ID, stage, minutes)
}

// dueStage returns the smallest configured minutes-before mark that has
// been reached. Overdue goals map to stage 0.
func dueStage(g domain.Goal, minutesUntil int) (int, bool) {
	if minutesUntil <= 0 {
		return 0, true
	}
	stage := 0
	found := false
	for _, mark := range g.ReminderIntervals {
		if minutesUntil <= mark && (!found || mark < stage) {
			stage = mark
			found = true
		}
	}
	return stage, found
}

// markAnnounced records a stage firing; returns false when this stage
// already fired today.
func (w *Watcher) markAnnounced(goalID string, stage int, now time.Time) bool {
	key := fmt.Sprintf("%s/%d", goalID, stage)
	today := now.Format("2006-01-02")

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.announced[key] == today {
		return false
	}
	w.announced[key] = today
	return true
}
