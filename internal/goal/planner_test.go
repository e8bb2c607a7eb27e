package goal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// fakeTasks is a minimal in-memory task repository.
type fakeTasks struct {
	tasks map[string]domain.Task
}

func (f *fakeTasks) List(_ context.Context) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTasks) Get(_ context.Context, id string) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTasks) Save(_ context.Context, t *domain.Task) error {
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

// fakeGoals is a minimal in-memory goal repository.
type fakeGoals struct {
	goals []domain.Goal
}

func (f *fakeGoals) List(_ context.Context) ([]domain.Goal, error) {
	return append([]domain.Goal{}, f.goals...), nil
}

func (f *fakeGoals) Save(_ context.Context, g *domain.Goal) error {
	f.goals = append(f.goals, *g)
	return nil
}

func (f *fakeGoals) Delete(_ context.Context, id string) error { return nil }

// stageNotifier collects watcher reminders.
type stageNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *stageNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *stageNotifier) NotifyUrgent(_ context.Context, msg string) error {
	return n.Notify(nil, msg)
}

func (n *stageNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.Local)
}

func morningFixture() (*fakeGoals, *fakeTasks) {
	tasks := &fakeTasks{tasks: map[string]domain.Task{
		"wash":  {ID: "wash", Text: "wash up", DurationMinutes: 10},
		"dress": {ID: "dress", Text: "get dressed", DurationMinutes: 5},
		"eat":   {ID: "eat", Text: "breakfast", DurationMinutes: 20},
	}}
	goals := &fakeGoals{goals: []domain.Goal{
		{
			ID: "school", Name: "leave for school", TargetTime: "07:50",
			Enabled: true, TaskIDs: []string{"wash", "dress", "eat"},
			ReminderIntervals: []int{30, 15, 5},
		},
	}}
	return goals, tasks
}

func TestStartTimeSumsTaskDurations(t *testing.T) {
	goals, tasks := morningFixture()
	p := NewPlanner(goals, tasks, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	start, err := p.StartTime(ctx, goals.goals[0], at(7, 0))
	if err != nil {
		t.Fatalf("start time: %v", err)
	}
	// 07:50 minus 35 minutes of tasks = 07:15.
	want := at(7, 15)
	if !start.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, start)
	}
}

func TestStartTimeSkipsMissingTasks(t *testing.T) {
	goals, tasks := morningFixture()
	delete(tasks.tasks, "eat")
	p := NewPlanner(goals, tasks, logger.New(logger.LevelOff, nil))

	start, err := p.StartTime(context.Background(), goals.goals[0], at(7, 0))
	if err != nil {
		t.Fatalf("start time: %v", err)
	}
	if !start.Equal(at(7, 35)) {
		t.Fatalf("expected start 07:35, got %s", start)
	}
}

func TestNextUpcomingPrefersNearestTarget(t *testing.T) {
	goals := &fakeGoals{goals: []domain.Goal{
		{ID: "school", Name: "leave for school", TargetTime: "07:50", Enabled: true},
		{ID: "bus", Name: "catch the bus", TargetTime: "07:40", Enabled: true},
		{ID: "off", Name: "disabled", TargetTime: "07:30", Enabled: false},
	}}
	p := NewPlanner(goals, &fakeTasks{tasks: map[string]domain.Task{}}, logger.New(logger.LevelOff, nil))

	g, err := p.NextUpcoming(context.Background(), at(7, 0))
	if err != nil {
		t.Fatalf("next upcoming: %v", err)
	}
	if g == nil || g.ID != "bus" {
		t.Fatalf("expected bus goal, got %+v", g)
	}
}

func TestDueReminderTextOnlyInsideWindow(t *testing.T) {
	goals, tasks := morningFixture()
	p := NewPlanner(goals, tasks, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	// 07:00 — 50 minutes out, widest stage is 30, nothing due.
	if msg := p.DueReminderText(ctx, at(7, 0)); msg != "" {
		t.Fatalf("expected no reminder at 07:00, got %q", msg)
	}

	// 07:25 — inside the 30-minute window.
	msg := p.DueReminderText(ctx, at(7, 25))
	if !strings.Contains(msg, "leave for school") {
		t.Fatalf("expected reminder naming the goal, got %q", msg)
	}
}

func TestWatcherFiresEachStageOnce(t *testing.T) {
	goals, tasks := morningFixture()
	log := logger.New(logger.LevelOff, nil)
	p := NewPlanner(goals, tasks, log)
	notifier := &stageNotifier{}

	now := at(7, 21) // 29 minutes out — inside the 30-minute stage.
	w := NewWatcher(p, goals, notifier, log, WithWatcherClock(func() time.Time { return now }))
	ctx := context.Background()

	w.check(ctx)
	w.check(ctx) // duplicate tick, same stage
	if notifier.count() != 1 {
		t.Fatalf("expected 1 reminder for the 30-minute stage, got %d", notifier.count())
	}

	now = at(7, 37) // 13 minutes out — the 15-minute stage.
	w.check(ctx)
	if notifier.count() != 2 {
		t.Fatalf("expected the 15-minute stage to fire, got %d reminders", notifier.count())
	}

	now = at(7, 52) // overdue — stage 0, urgent.
	w.check(ctx)
	w.check(ctx)
	if notifier.count() != 3 {
		t.Fatalf("expected one overdue reminder, got %d", notifier.count())
	}
	notifier.mu.Lock()
	last := notifier.messages[len(notifier.messages)-1]
	notifier.mu.Unlock()
	if !strings.Contains(last, "overdue") {
		t.Fatalf("expected overdue phrasing, got %q", last)
	}
}

func TestDueStageSelection(t *testing.T) {
	g := domain.Goal{ReminderIntervals: []int{30, 15, 5}}

	if _, ok := dueStage(g, 45); ok {
		t.Fatal("expected no stage at 45 minutes out")
	}
	if s, ok := dueStage(g, 29); !ok || s != 30 {
		t.Fatalf("expected stage 30 at 29 minutes, got %d/%v", s, ok)
	}
	if s, ok := dueStage(g, 12); !ok || s != 15 {
		t.Fatalf("expected stage 15 at 12 minutes, got %d/%v", s, ok)
	}
	if s, ok := dueStage(g, 3); !ok || s != 5 {
		t.Fatalf("expected stage 5 at 3 minutes, got %d/%v", s, ok)
	}
	if s, ok := dueStage(g, -4); !ok || s != 0 {
		t.Fatalf("expected stage 0 when overdue, got %d/%v", s, ok)
	}
}
