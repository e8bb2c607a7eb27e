package task

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(append([]string{}, m.messages...), m.urgent...)
}

// fakeTasks is an in-memory task repository keyed by ID, listed in order.
type fakeTasks struct {
	mu    sync.Mutex
	tasks []*domain.Task
}

func (f *fakeTasks) List(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTasks) Get(_ context.Context, id string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTasks) Save(_ context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == task.ID {
			cp := *task
			f.tasks[i] = &cp
			return nil
		}
	}
	cp := *task
	f.tasks = append(f.tasks, &cp)
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error { return nil }

// fakeSession is an in-memory single-slot session store.
type fakeSession struct {
	mu    sync.Mutex
	state *domain.ActiveTaskState
}

func (f *fakeSession) Save(_ context.Context, s *domain.ActiveTaskState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.state = &cp
	return nil
}

func (f *fakeSession) Load(_ context.Context) (*domain.ActiveTaskState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return nil, domain.ErrNoActiveTask
	}
	cp := *f.state
	return &cp, nil
}

func (f *fakeSession) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = nil
	return nil
}

func newTestMachine(t *testing.T, tasks *fakeTasks, notifier *mockNotifier, now *time.Time) *Machine {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(tasks, &fakeSession{}, notifier, log,
		WithClock(func() time.Time { return *now }),
		// Long interval — tests drive tick() directly for determinism.
		WithTickInterval(time.Hour),
	)
}

func TestStartRejectsUntimedAndMissingTasks(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "tidy room"},
	}}
	m := newTestMachine(t, tasks, &mockNotifier{}, &now)
	ctx := context.Background()

	if err := m.Start(ctx, "t1"); err != domain.ErrNoDuration {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
	if err := m.Start(ctx, "nope"); err == nil {
		t.Fatal("expected error for missing task")
	}
	if m.Active() {
		t.Fatal("machine should still be idle")
	}
}

func TestSingleActiveTaskInvariant(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
		{ID: "t2", Text: "piano", DurationMinutes: 20},
	}}
	m := newTestMachine(t, tasks, &mockNotifier{}, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Start(ctx, "t2"); err != domain.ErrTaskRunning {
		t.Fatalf("expected ErrTaskRunning, got %v", err)
	}
}

func TestPauseFreezesElapsedTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}}
	m := newTestMachine(t, tasks, &mockNotifier{}, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	now = now.Add(10 * time.Minute)
	if err := m.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// 20 minutes of wall clock pass while paused.
	now = now.Add(20 * time.Minute)
	snap := m.Snapshot()
	if snap == nil || snap.Status != domain.TaskPaused {
		t.Fatalf("expected paused snapshot, got %+v", snap)
	}
	if snap.Remaining != 20*time.Minute {
		t.Fatalf("expected 20m remaining while paused, got %s", snap.Remaining)
	}

	if err := m.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	now = now.Add(5 * time.Minute)
	snap = m.Snapshot()
	if snap.Remaining != 15*time.Minute {
		t.Fatalf("expected 15m remaining after resume, got %s", snap.Remaining)
	}
}

func TestPauseResumeInvalidTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}}
	m := newTestMachine(t, tasks, &mockNotifier{}, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Pause(ctx); err != domain.ErrNoActiveTask {
		t.Fatalf("expected ErrNoActiveTask, got %v", err)
	}
	if err := m.Resume(ctx); err != domain.ErrNoActiveTask {
		t.Fatalf("expected ErrNoActiveTask, got %v", err)
	}

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Resume(ctx); err != domain.ErrTaskNotPaused {
		t.Fatalf("expected ErrTaskNotPaused, got %v", err)
	}
	if err := m.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := m.Pause(ctx); err != domain.ErrTaskNotActive {
		t.Fatalf("expected ErrTaskNotActive, got %v", err)
	}
}

func TestTickAnnouncesCheckpointsOnce(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}}
	notifier := &mockNotifier{}
	m := newTestMachine(t, tasks, notifier, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	startCues := len(notifier.all())

	// Halfway mark. Ticking twice must announce only once.
	now = now.Add(15 * time.Minute)
	m.tick(ctx)
	m.tick(ctx)

	msgs := notifier.all()[startCues:]
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 checkpoint cue, got %d: %q", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "15") {
		t.Fatalf("expected halfway cue to mention 15 minutes, got %q", msgs[0])
	}
}

func TestTickTimeUpOnceAndNoAutoComplete(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 5},
	}}
	notifier := &mockNotifier{}
	m := newTestMachine(t, tasks, notifier, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	now = now.Add(6 * time.Minute)
	m.tick(ctx)
	m.tick(ctx)
	m.tick(ctx)

	notifier.mu.Lock()
	urgent := len(notifier.urgent)
	notifier.mu.Unlock()
	if urgent != 1 {
		t.Fatalf("expected exactly 1 time-up cue, got %d", urgent)
	}

	// The machine must still hold the task — completion is a user action.
	if !m.Active() {
		t.Fatal("expected task to remain active after time up")
	}
}

func TestCompleteFeedsHookAndClearsState(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30, Deadline: "10:00"},
		{ID: "t2", Text: "piano", DurationMinutes: 20},
	}}
	notifier := &mockNotifier{}
	log := logger.New(logger.LevelOff, nil)

	var hookID string
	var hookOnTime bool
	m := New(tasks, &fakeSession{}, notifier, log,
		WithClock(func() time.Time { return now }),
		WithTickInterval(time.Hour),
		WithCompletionHook(func(taskID string, onTime bool) {
			hookID = taskID
			hookOnTime = onTime
		}),
	)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Complete(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if hookID != "t1" || !hookOnTime {
		t.Fatalf("expected on-time completion hook for t1, got (%q, %v)", hookID, hookOnTime)
	}
	if m.Active() {
		t.Fatal("expected idle machine after completion")
	}

	done, err := tasks.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !done.Completed {
		t.Fatal("expected task marked completed")
	}

	if err := m.Complete(ctx); err != domain.ErrNoActiveTask {
		t.Fatalf("expected ErrNoActiveTask, got %v", err)
	}

	// The deferred hint fires after about a second.
	time.Sleep(1200 * time.Millisecond)
	found := false
	for _, msg := range notifier.all() {
		if strings.Contains(msg, "piano") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected next-task hint mentioning piano")
	}
}

func TestCompleteValidFromPaused(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}}
	m := newTestMachine(t, tasks, &mockNotifier{}, &now)
	ctx := context.Background()
	defer m.Stop()

	if err := m.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := m.Complete(ctx); err != nil {
		t.Fatalf("complete from paused: %v", err)
	}
}

func TestRestoreResumesSavedSession(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tasks := &fakeTasks{tasks: []*domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}}
	session := &fakeSession{state: &domain.ActiveTaskState{
		TaskID:                  "t1",
		Status:                  domain.TaskPaused,
		StartedAt:               now.Add(-10 * time.Minute),
		AccumulatedTime:         10 * time.Minute,
		LastAnnouncedCheckpoint: "start",
	}}
	log := logger.New(logger.LevelOff, nil)
	m := New(tasks, session, &mockNotifier{}, log,
		WithClock(func() time.Time { return now }),
		WithTickInterval(time.Hour),
	)
	defer m.Stop()

	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	snap := m.Snapshot()
	if snap == nil || snap.Status != domain.TaskPaused || snap.Remaining != 20*time.Minute {
		t.Fatalf("unexpected restored snapshot: %+v", snap)
	}
}
