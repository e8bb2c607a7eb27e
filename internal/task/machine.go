package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/chime/internal/deadline"
	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Option configures the machine.
type Option func(*Machine)

// WithTickInterval sets how often the machine re-checks the active task.
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) {
		m.tickInterval = d
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithCompletionHook registers a callback invoked after each completion,
// typically the reward ledger. onTime is false when the task carried a
// deadline that had already passed.
func WithCompletionHook(fn func(taskID string, onTime bool)) Option {
	return func(m *Machine) {
		m.onComplete = fn
	}
}

// Machine is the single-active-task state machine: Idle until a timed task
// starts, then Active with a 1-second tick loop that announces due
// checkpoints, Paused freezes the clock, and completion returns to Idle.
// All methods are safe for concurrent use.
type Machine struct {
	tasks        domain.TaskRepository
	session      domain.SessionStore
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	now          func() time.Time
	onComplete   func(taskID string, onTime bool)

	mu     sync.Mutex
	state  *domain.ActiveTaskState
	task   *domain.Task // snapshot of the running task
	cancel context.CancelFunc
}

// Snapshot is a read-only view of the running task for composers/UIs.
type Snapshot struct {
	Task             domain.Task
	Status           domain.TaskStatus
	Remaining        time.Duration
	RemainingMinutes int
	ProgressPercent  int
}

// New creates a task machine with the given dependencies and options.
func New(tasks domain.TaskRepository, session domain.SessionStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Machine {
	m := &Machine{
		tasks:        tasks,
		session:      session,
		notifier:     notifier,
		log:          log,
		tickInterval: 1 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a timed task. Fails when another task is already running,
// the task does not exist, or it has no duration.
func (m *Machine) Start(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != nil {
		return domain.ErrTaskRunning
	}

	t, err := m.tasks.Get(ctx, taskID)
	if err != nil {
		return fmt.Errorf("loading task: %w", err)
	}
	if !t.Timed() {
		return domain.ErrNoDuration
	}

	m.task = t
	m.state = &domain.ActiveTaskState{
		TaskID:    t.ID,
		Status:    domain.TaskActive,
		StartedAt: m.now(),
		// The start checkpoint is spoken right here, so record it as
		// announced — the tick loop must not repeat it.
		LastAnnouncedCheckpoint: "start",
	}
	m.saveLocked(ctx)
	m.startTickerLocked(ctx)

	cue := fmt.Sprintf("starting %s, %d minutes. Go!", t.Text, t.DurationMinutes)
	if err := m.notifier.Notify(ctx, cue); err != nil {
		m.log.Error("machine: start cue: %v", err)
	}

	m.log.Info("task %s started (%d minutes)", t.ID, t.DurationMinutes)
	return nil
}

// Pause freezes the active task. Valid only from Active.
func (m *Machine) Pause(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return domain.ErrNoActiveTask
	}
	if m.state.Status != domain.TaskActive {
		return domain.ErrTaskNotActive
	}

	now := m.now()
	m.state.AccumulatedTime = Elapsed(m.state, now)
	m.state.StartedAt = now
	m.state.Status = domain.TaskPaused
	m.stopTickerLocked()
	m.saveLocked(ctx)

	if err := m.notifier.Notify(ctx, fmt.Sprintf("%s paused", m.task.Text)); err != nil {
		m.log.Error("machine: pause cue: %v", err)
	}
	m.log.Info("task %s paused (elapsed=%s)", m.state.TaskID, m.state.AccumulatedTime.Round(time.Second))
	return nil
}

// Resume restarts a paused task. Valid only from Paused.
func (m *Machine) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return domain.ErrNoActiveTask
	}
	if m.state.Status != domain.TaskPaused {
		return domain.ErrTaskNotPaused
	}

	m.state.StartedAt = m.now()
	m.state.Status = domain.TaskActive
	m.saveLocked(ctx)
	m.startTickerLocked(ctx)

	if err := m.notifier.Notify(ctx, fmt.Sprintf("resuming %s", m.task.Text)); err != nil {
		m.log.Error("machine: resume cue: %v", err)
	}
	m.log.Info("task %s resumed", m.state.TaskID)
	return nil
}

// Complete finishes the active task. Valid from Active or Paused. Marks
// the task done, clears the session state, feeds the completion hook, and
// a moment later hints at the next timed task so the cues don't overlap.
func (m *Machine) Complete(ctx context.Context) error {
	m.mu.Lock()

	if m.state == nil {
		m.mu.Unlock()
		return domain.ErrNoActiveTask
	}

	t := m.task
	now := m.now()
	onTime := t.Deadline == "" || !deadline.IsOverdue(t.Deadline, now)

	m.stopTickerLocked()
	m.state = nil
	m.task = nil
	if err := m.session.Clear(ctx); err != nil {
		m.log.Error("machine: clearing session: %v", err)
	}

	t.Completed = true
	if err := m.tasks.Save(ctx, t); err != nil {
		m.log.Error("machine: saving completed task: %v", err)
	}
	m.mu.Unlock()

	if err := m.notifier.Notify(ctx, fmt.Sprintf("%s complete. Well done!", t.Text)); err != nil {
		m.log.Error("machine: complete cue: %v", err)
	}

	if m.onComplete != nil {
		m.onComplete(t.ID, onTime)
	}

	// Defer the next-task hint so it doesn't talk over the completion cue.
	time.AfterFunc(1*time.Second, func() {
		if ctx.Err() != nil {
			return
		}
		m.announceNextTask(ctx)
	})

	m.log.Info("task %s completed (onTime=%v)", t.ID, onTime)
	return nil
}

// Active reports whether a task is currently running or paused.
func (m *Machine) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// Snapshot returns the current task view, or nil when idle.
func (m *Machine) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil
	}
	now := m.now()
	return &Snapshot{
		Task:             *m.task,
		Status:           m.state.Status,
		Remaining:        Remaining(m.state, m.task.DurationMinutes, now),
		RemainingMinutes: RemainingMinutes(m.state, m.task.DurationMinutes, now),
		ProgressPercent:  ProgressPercent(m.state, m.task.DurationMinutes, now),
	}
}

// Restore reloads a previously saved session, resuming its tick loop when
// the task was active. Called once at startup.
func (m *Machine) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.session.Load(ctx)
	if err != nil {
		if err == domain.ErrNoActiveTask {
			return nil
		}
		return fmt.Errorf("loading session: %w", err)
	}

	t, err := m.tasks.Get(ctx, state.TaskID)
	if err != nil {
		// Task vanished — drop the stale session rather than fail startup.
		m.log.Warn("machine: dropping session for missing task %s", state.TaskID)
		return m.session.Clear(ctx)
	}

	m.state = state
	m.task = t
	if state.Status == domain.TaskActive {
		m.startTickerLocked(ctx)
	}
	m.log.Info("restored %s task %s", state.Status, state.TaskID)
	return nil
}

// Stop cancels the tick loop without touching task state. Used at shutdown.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTickerLocked()
}

// startTickerLocked launches the per-task tick loop. Caller holds m.mu.
func (m *Machine) startTickerLocked(ctx context.Context) {
	if m.cancel != nil {
		return
	}
	tickCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.loop(tickCtx)
}

// stopTickerLocked stops the tick loop. Caller holds m.mu.
func (m *Machine) stopTickerLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// loop re-checks the active task every tick while it is Active.
func (m *Machine) loop(ctx context.Context) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick runs one cycle: announce a due checkpoint, or the one-time "time's
// up" cue once remaining hits zero. Completion stays a user action.
func (m *Machine) tick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil || m.state.Status != domain.TaskActive {
		return
	}

	now := m.now()
	dur := m.task.DurationMinutes
	remaining := Remaining(m.state, dur, now)

	if remaining == 0 {
		if m.state.TimeUpAnnounced {
			return
		}
		m.state.TimeUpAnnounced = true
		m.state.LastAnnouncedCheckpoint = "complete"
		m.saveLocked(ctx)
		if err := m.notifier.NotifyUrgent(ctx, fmt.Sprintf("time's up for %s!", m.task.Text)); err != nil {
			m.log.Error("machine: time-up cue: %v", err)
		}
		m.log.Debug("task %s time up", m.state.TaskID)
		return
	}

	cp := NextCheckpoint(m.state, dur, now)
	if cp == nil || cp.Kind == domain.CheckpointComplete {
		return
	}
	if !ShouldAnnounce(*cp, m.state, dur, now) {
		return
	}

	m.state.LastAnnouncedCheckpoint = cp.ID
	m.saveLocked(ctx)

	line := checkpointLine(*cp, m.task.Text, RemainingMinutes(m.state, dur, now))
	if err := m.notifier.Notify(ctx, line); err != nil {
		m.log.Error("machine: checkpoint cue: %v", err)
	}
	m.log.Debug("task %s checkpoint %s announced", m.state.TaskID, cp.ID)
}

// saveLocked persists the current state. Save failures are logged and
// otherwise ignored — the in-memory state stays authoritative. Caller
// holds m.mu.
func (m *Machine) saveLocked(ctx context.Context) {
	if m.state == nil {
		return
	}
	if err := m.session.Save(ctx, m.state); err != nil {
		m.log.Error("machine: saving session: %v", err)
	}
}

// announceNextTask speaks a hint about the next incomplete timed task.
func (m *Machine) announceNextTask(ctx context.Context) {
	all, err := m.tasks.List(ctx)
	if err != nil {
		m.log.Error("machine: listing tasks: %v", err)
		return
	}
	for _, t := range all {
		if t.Completed || !t.Timed() {
			continue
		}
		msg := fmt.Sprintf("next is %s, %d minutes", t.Text, t.DurationMinutes)
		if err := m.notifier.Notify(ctx, msg); err != nil {
			m.log.Error("machine: next-task cue: %v", err)
		}
		return
	}
}
