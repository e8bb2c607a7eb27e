package announce

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/goal"
	"github.com/hammamikhairi/chime/internal/logger"
	"github.com/hammamikhairi/chime/internal/task"
)

// fakeTasks is an in-memory task repository listed in insertion order.
type fakeTasks struct {
	mu    sync.Mutex
	tasks []domain.Task
}

func (f *fakeTasks) List(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Task{}, f.tasks...), nil
}

func (f *fakeTasks) Get(_ context.Context, id string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			cp := f.tasks[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTasks) Save(_ context.Context, t *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = *t
			return nil
		}
	}
	f.tasks = append(f.tasks, *t)
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error { return nil }

// fakeGoals is an in-memory goal repository.
type fakeGoals struct {
	goals []domain.Goal
}

func (f *fakeGoals) List(_ context.Context) ([]domain.Goal, error) {
	return append([]domain.Goal{}, f.goals...), nil
}
func (f *fakeGoals) Save(_ context.Context, g *domain.Goal) error { return nil }
func (f *fakeGoals) Delete(_ context.Context, id string) error    { return nil }

// fakeSession is a single-slot session store.
type fakeSession struct {
	state *domain.ActiveTaskState
}

func (f *fakeSession) Save(_ context.Context, s *domain.ActiveTaskState) error {
	cp := *s
	f.state = &cp
	return nil
}

func (f *fakeSession) Load(_ context.Context) (*domain.ActiveTaskState, error) {
	if f.state == nil {
		return nil, domain.ErrNoActiveTask
	}
	cp := *f.state
	return &cp, nil
}

func (f *fakeSession) Clear(_ context.Context) error {
	f.state = nil
	return nil
}

// silentNotifier drops everything; the machine cues are not under test here.
type silentNotifier struct{}

func (silentNotifier) Notify(_ context.Context, _ string) error       { return nil }
func (silentNotifier) NotifyUrgent(_ context.Context, _ string) error { return nil }

type composerFixture struct {
	composer *Composer
	machine  *task.Machine
	tasks    *fakeTasks
	settings *fakeSettings
	now      time.Time
}

func newComposerFixture(t *testing.T, tasks []domain.Task, goals []domain.Goal) *composerFixture {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)

	f := &composerFixture{
		tasks:    &fakeTasks{tasks: tasks},
		settings: &fakeSettings{cfg: domain.ClockSettings{IntervalMinutes: 30, Enabled: true}},
		now:      clock(10, 0, 0),
	}
	nowFn := func() time.Time { return f.now }

	f.machine = task.New(f.tasks, &fakeSession{}, silentNotifier{}, log,
		task.WithClock(nowFn),
		task.WithTickInterval(time.Hour),
	)
	t.Cleanup(f.machine.Stop)

	planner := goal.NewPlanner(&fakeGoals{goals: goals}, f.tasks, log)
	f.composer = NewComposer(f.machine, planner, f.tasks, f.settings, log,
		WithComposerClock(nowFn))
	return f
}

func TestComposePrefersRunningTask(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
		{ID: "t2", Text: "piano", DurationMinutes: 20},
	}, []domain.Goal{
		{ID: "g1", Name: "leave for school", TargetTime: "10:10", Enabled: true},
	})
	ctx := context.Background()

	if err := f.machine.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.now = f.now.Add(10 * time.Minute)

	msg := f.composer.Compose(ctx)
	if !strings.Contains(msg, "20 minutes left for homework") {
		t.Fatalf("expected running-task message, got %q", msg)
	}
}

func TestComposeSkipsPausedTask(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}, []domain.Goal{
		{ID: "g1", Name: "leave for school", TargetTime: "10:10", Enabled: true},
	})
	ctx := context.Background()

	if err := f.machine.Start(ctx, "t1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.machine.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// Paused task is skipped; the approaching goal wins.
	msg := f.composer.Compose(ctx)
	if !strings.Contains(msg, "leave for school") {
		t.Fatalf("expected goal reminder, got %q", msg)
	}
}

func TestComposeGoalBeatsNextTaskHint(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}, []domain.Goal{
		{ID: "g1", Name: "leave for school", TargetTime: "10:10", Enabled: true},
	})

	msg := f.composer.Compose(context.Background())
	if !strings.Contains(msg, "leave for school") {
		t.Fatalf("expected goal reminder over task hint, got %q", msg)
	}
}

func TestComposeNextTaskHint(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t0", Text: "make bed", Completed: true},
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}, nil)

	msg := f.composer.Compose(context.Background())
	if msg != "next is homework, 30 minutes" {
		t.Fatalf("unexpected hint %q", msg)
	}
}

func TestComposeUntimedTaskOmitsDuration(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "feed the cat"},
	}, nil)

	msg := f.composer.Compose(context.Background())
	if msg != "next is feed the cat" {
		t.Fatalf("unexpected hint %q", msg)
	}
}

func TestComposeNothingToSay(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "homework", Completed: true},
	}, nil)

	if msg := f.composer.Compose(context.Background()); msg != "" {
		t.Fatalf("expected silence, got %q", msg)
	}
}

func TestComposeNamePrefix(t *testing.T) {
	f := newComposerFixture(t, []domain.Task{
		{ID: "t1", Text: "homework", DurationMinutes: 30},
	}, nil)
	f.settings.cfg.ChildName = "Mia"

	msg := f.composer.Compose(context.Background())
	if msg != "Mia, next is homework, 30 minutes" {
		t.Fatalf("expected name prefix, got %q", msg)
	}

	f.settings.cfg.ChildName = ""
	msg = f.composer.Compose(context.Background())
	if msg != "next is homework, 30 minutes" {
		t.Fatalf("expected no prefix, got %q", msg)
	}
}
