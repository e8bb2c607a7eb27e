// Package announce implements the periodic time-announcement scheduler and
// the follow-up message composer.
package announce

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// triggerWindowSeconds is how far into a qualifying minute an announcement
// still counts as "due now" rather than missed.
const triggerWindowSeconds = 2

// AtInterval reports whether t falls on a minute that is a multiple of the
// announcement interval.
func AtInterval(t time.Time, intervalMinutes int) bool {
	if intervalMinutes <= 0 {
		return false
	}
	return t.Minute()%intervalMinutes == 0
}

// InTriggerWindow reports whether t is within the first seconds of its minute.
func InTriggerWindow(t time.Time) bool {
	return t.Second() < triggerWindowSeconds
}

// ShouldTrigger decides whether an announcement fires at t. The lastSpoken
// guard makes duplicate tick delivery inside the same trigger window
// harmless: a minute that already spoke never speaks again.
func ShouldTrigger(t time.Time, intervalMinutes int, lastSpoken time.Time) bool {
	if !AtInterval(t, intervalMinutes) || !InTriggerWindow(t) {
		return false
	}
	if !lastSpoken.IsZero() && lastSpoken.Truncate(time.Minute).Equal(t.Truncate(time.Minute)) {
		return false
	}
	return true
}

// NextTime projects the next announcement instant at or after t. Seconds
// and sub-second components are always zero, and the result's minute is
// always a multiple of the interval.
func NextTime(t time.Time, intervalMinutes int) time.Time {
	if AtInterval(t, intervalMinutes) && InTriggerWindow(t) {
		return t.Truncate(time.Minute)
	}
	next := ((t.Minute() / intervalMinutes) + 1) * intervalMinutes
	if next >= 60 {
		// Roll into the next hour; minute zero qualifies for any interval.
		return t.Truncate(time.Hour).Add(time.Hour)
	}
	return t.Truncate(time.Hour).Add(time.Duration(next) * time.Minute)
}

// FormatNext renders a projected announcement time as zero-padded 24-hour HH:MM.
func FormatNext(t time.Time) string {
	return t.Format("15:04")
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler speaks the current time whenever a qualifying minute begins.
// Its loop is aligned to wall-clock second boundaries so the trigger
// window is evaluated deterministically near the minute boundary.
type Scheduler struct {
	settings domain.SettingsRepository
	notifier domain.Notifier
	composer *Composer
	log      *logger.Logger
	now      func() time.Time

	mu         sync.Mutex
	running    bool
	cancel     context.CancelFunc
	lastSpoken time.Time
}

// New creates an announcement scheduler with the given dependencies.
func New(settings domain.SettingsRepository, notifier domain.Notifier, composer *Composer, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		settings: settings,
		notifier: notifier,
		composer: composer,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the announcement loop. Non-blocking.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("announcement scheduler already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	s.log.Info("announcement scheduler started")
}

// Stop shuts down the scheduler. The tick loop stops synchronously with
// the context cancellation — no orphaned timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("announcement scheduler stopped")
}

// Next returns the projected next announcement time under current settings.
func (s *Scheduler) Next(ctx context.Context) time.Time {
	return NextTime(s.now(), s.loadSettings(ctx).IntervalMinutes)
}

// loop waits out the remainder of the current second, then checks every
// second on the boundary.
func (s *Scheduler) loop(ctx context.Context) {
	now := s.now()
	align := now.Truncate(time.Second).Add(time.Second).Sub(now)
	select {
	case <-ctx.Done():
		return
	case <-time.After(align):
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one scheduler check. Safe to call more than once per second;
// the lastSpoken guard keeps the result idempotent.
func (s *Scheduler) tick(ctx context.Context) {
	cfg := s.loadSettings(ctx)
	if !cfg.Enabled {
		return
	}

	now := s.now()

	s.mu.Lock()
	fire := ShouldTrigger(now, cfg.IntervalMinutes, s.lastSpoken)
	if fire {
		s.lastSpoken = now
	}
	s.mu.Unlock()

	if !fire {
		return
	}

	s.announce(ctx, now, cfg)
}

// announce speaks the time, then chains the composed follow-up once the
// speech has finished. Never blocks the tick loop.
func (s *Scheduler) announce(ctx context.Context, now time.Time, cfg domain.ClockSettings) {
	text := TimeLine(now, cfg.ChildMode)
	s.log.Info("announcing time: %s", text)

	dn, ok := s.notifier.(domain.DoneNotifier)
	if !ok {
		if err := s.notifier.Notify(ctx, text); err != nil {
			s.log.Error("scheduler: notify: %v", err)
		}
		s.followUp(ctx)
		return
	}

	done, err := dn.NotifyDone(ctx, text)
	if err != nil {
		s.log.Error("scheduler: notify: %v", err)
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-done:
		}
		s.followUp(ctx)
	}()
}

// followUp asks the composer for at most one chained message.
func (s *Scheduler) followUp(ctx context.Context) {
	if s.composer == nil {
		return
	}
	msg := s.composer.Compose(ctx)
	if msg == "" {
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Error("scheduler: follow-up: %v", err)
	}
}

// loadSettings fetches current settings, degrading to defaults on storage
// failure so a broken repository never silences the clock permanently.
func (s *Scheduler) loadSettings(ctx context.Context) domain.ClockSettings {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Error("scheduler: loading settings: %v", err)
		return domain.DefaultClockSettings()
	}
	return cfg.Normalize()
}
