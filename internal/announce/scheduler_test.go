package announce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

func clock(hour, min, sec int) time.Time {
	return time.Date(2025, 3, 10, hour, min, sec, 0, time.Local)
}

func TestAtIntervalAndWindow(t *testing.T) {
	for interval := 1; interval <= 60; interval++ {
		for _, minute := range []int{0, 1, 7, 15, 30, 44, 59} {
			tm := clock(10, minute, 0)
			want := minute%interval == 0
			if got := AtInterval(tm, interval); got != want {
				t.Fatalf("AtInterval(%02d, %d) = %v, want %v", minute, interval, got, want)
			}
		}
	}

	if !InTriggerWindow(clock(10, 30, 0)) || !InTriggerWindow(clock(10, 30, 1)) {
		t.Fatal("seconds 0 and 1 should be inside the trigger window")
	}
	if InTriggerWindow(clock(10, 30, 2)) {
		t.Fatal("second 2 should be outside the trigger window")
	}
}

func TestShouldTriggerIdempotentPerMinute(t *testing.T) {
	now := clock(10, 30, 0)
	var lastSpoken time.Time

	if !ShouldTrigger(now, 15, lastSpoken) {
		t.Fatal("expected first trigger at 10:30:00")
	}
	lastSpoken = now

	// A second invocation inside the same window must not fire.
	if ShouldTrigger(clock(10, 30, 1), 15, lastSpoken) {
		t.Fatal("expected no second trigger within the same minute")
	}

	// The next qualifying minute fires again.
	if !ShouldTrigger(clock(10, 45, 0), 15, lastSpoken) {
		t.Fatal("expected trigger at 10:45:00")
	}
}

func TestShouldTriggerOutsideWindow(t *testing.T) {
	if ShouldTrigger(clock(10, 30, 5), 15, time.Time{}) {
		t.Fatal("expected no trigger 5 seconds into the minute")
	}
	if ShouldTrigger(clock(10, 31, 0), 15, time.Time{}) {
		t.Fatal("expected no trigger on a non-interval minute")
	}
}

func TestNextTimeProperties(t *testing.T) {
	intervals := []int{1, 5, 7, 15, 30, 60}
	times := []time.Time{
		clock(10, 30, 5),
		clock(10, 29, 59),
		clock(10, 0, 0),
		clock(10, 59, 30),
		clock(23, 58, 10),
	}
	for _, interval := range intervals {
		for _, now := range times {
			next := NextTime(now, interval)
			if next.Before(now.Truncate(time.Minute)) {
				t.Fatalf("NextTime(%s, %d) = %s is in the past", now, interval, next)
			}
			if next.Minute()%interval != 0 {
				t.Fatalf("NextTime(%s, %d) = %s not on interval", now, interval, next)
			}
			if next.Second() != 0 || next.Nanosecond() != 0 {
				t.Fatalf("NextTime(%s, %d) = %s has nonzero seconds", now, interval, next)
			}
		}
	}
}

func TestNextTimeKnownCases(t *testing.T) {
	// Past the 2-second window at 10:30:05, interval 15 — next is 10:45:00.
	got := NextTime(clock(10, 30, 5), 15)
	if !got.Equal(clock(10, 45, 0)) {
		t.Fatalf("expected 10:45:00, got %s", got)
	}

	// Still inside the window — announce this minute.
	got = NextTime(clock(10, 30, 1), 15)
	if !got.Equal(clock(10, 30, 0)) {
		t.Fatalf("expected 10:30:00, got %s", got)
	}

	// Rolls into the next hour.
	got = NextTime(clock(10, 50, 30), 15)
	if !got.Equal(clock(11, 0, 0)) {
		t.Fatalf("expected 11:00:00, got %s", got)
	}

	if s := FormatNext(clock(9, 5, 0)); s != "09:05" {
		t.Fatalf("expected 09:05, got %q", s)
	}
}

// fakeSettings returns a fixed settings value.
type fakeSettings struct {
	cfg domain.ClockSettings
}

func (f *fakeSettings) Load(_ context.Context) (domain.ClockSettings, error) { return f.cfg, nil }
func (f *fakeSettings) Save(_ context.Context, cfg domain.ClockSettings) error {
	f.cfg = cfg
	return nil
}

// chainNotifier records messages and reports speech completion through a
// done channel, like the speaking notifier does.
type chainNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *chainNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *chainNotifier) NotifyUrgent(ctx context.Context, msg string) error {
	return n.Notify(ctx, msg)
}

func (n *chainNotifier) NotifyDone(ctx context.Context, msg string) (<-chan struct{}, error) {
	if err := n.Notify(ctx, msg); err != nil {
		return nil, err
	}
	ch := make(chan struct{})
	close(ch)
	return ch, nil
}

func (n *chainNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.messages...)
}

func TestTickSpeaksOncePerWindow(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	settings := &fakeSettings{cfg: domain.ClockSettings{IntervalMinutes: 15, Enabled: true}}
	notifier := &chainNotifier{}

	now := clock(10, 30, 0)
	s := New(settings, notifier, nil, log, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	// Duplicate delivery of the same logical tick.
	s.tick(ctx)
	s.tick(ctx)

	msgs := notifier.all()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 announcement, got %d: %q", len(msgs), msgs)
	}
	if msgs[0] != "it's 10:30" {
		t.Fatalf("unexpected announcement text %q", msgs[0])
	}
}

func TestTickRespectsDisabledAndOffInterval(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &chainNotifier{}

	now := clock(10, 30, 0)
	settings := &fakeSettings{cfg: domain.ClockSettings{IntervalMinutes: 15, Enabled: false}}
	s := New(settings, notifier, nil, log, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	s.tick(ctx)
	if len(notifier.all()) != 0 {
		t.Fatal("expected no announcement while disabled")
	}

	settings.cfg.Enabled = true
	now = clock(10, 31, 0)
	s.tick(ctx)
	if len(notifier.all()) != 0 {
		t.Fatal("expected no announcement on a non-interval minute")
	}
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	settings := &fakeSettings{cfg: domain.ClockSettings{IntervalMinutes: 15, Enabled: true}}
	s := New(settings, &chainNotifier{}, nil, log)
	ctx := context.Background()

	s.Start(ctx)
	s.Start(ctx) // no-op
	s.Stop()
	s.Stop() // no-op
}

func TestChildModeTimeLine(t *testing.T) {
	line := TimeLine(clock(15, 30, 0), true)
	if line == "" || line == TimeLine(clock(15, 30, 0), false) {
		t.Fatalf("expected distinct child phrasing, got %q", line)
	}
	if got := TimeLine(clock(7, 0, 0), true); got != "ding dong! It's 7 o'clock in the morning" {
		t.Fatalf("unexpected o'clock phrasing %q", got)
	}
	if got := TimeLine(clock(9, 5, 0), false); got != "it's 09:05" {
		t.Fatalf("unexpected plain phrasing %q", got)
	}
}
