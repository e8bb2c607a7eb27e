// Package reward implements the star/combo ledger with daily reset and a
// bounded history of archived days.
package reward

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

const (
	comboEvery      = 3 // every Nth consecutive completion earns a bonus
	comboBonusStars = 2
	dailyBonusStars = 3
)

// Option configures the ledger.
type Option func(*Ledger)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Ledger is the star/combo accounting engine. Every mutation is persisted
// before returning; repository failures degrade to the in-memory state so
// rewards keep working for the rest of the session.
type Ledger struct {
	repo domain.RewardRepository
	log  *logger.Logger
	now  func() time.Time

	mu    sync.Mutex
	state domain.RewardState
}

// New creates a reward ledger. Call Load before use.
func New(repo domain.RewardRepository, log *logger.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		repo:  repo,
		log:   log,
		now:   time.Now,
		state: domain.DefaultRewardState(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load pulls the stored ledger and applies the daily-reset check: when the
// stored date is not today, yesterday's totals are archived into history
// and the day counters reset. TotalStars is never touched by a rollover.
func (l *Ledger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.repo.Load(ctx)
	if err != nil {
		l.log.Error("ledger: loading reward state: %v (using defaults)", err)
		state = domain.DefaultRewardState()
	}
	if state.DailyGoal == 0 {
		state.DailyGoal = domain.DefaultRewardState().DailyGoal
	}
	l.state = state
	l.rolloverLocked(ctx)
}

// rolloverLocked archives the previous day when the calendar date moved.
// Caller holds l.mu.
func (l *Ledger) rolloverLocked(ctx context.Context) {
	today := l.now().Format("2006-01-02")
	if l.state.LastUpdatedDate == today {
		return
	}

	if l.state.LastUpdatedDate != "" {
		record := domain.DailyRecord{
			Date:              l.state.LastUpdatedDate,
			Earned:            l.state.TodayStars,
			ComboCount:        l.state.CurrentCombo,
			CompletedTasks:    l.state.TodayCompletions,
			TotalTasks:        l.state.TodayTotalTasks,
			OnTimeCompletions: l.state.TodayOnTime,
		}
		l.state.History = append([]domain.DailyRecord{record}, l.state.History...)
		if len(l.state.History) > domain.HistoryLimit {
			l.state.History = l.state.History[:domain.HistoryLimit]
		}
		l.log.Info("ledger: archived %s (%d stars)", record.Date, record.Earned)
	}

	l.state.TodayStars = 0
	l.state.CurrentCombo = 0
	l.state.TodayCompletions = 0
	l.state.TodayOnTime = 0
	l.state.DailyBonusGiven = false
	l.state.LastUpdatedDate = today
	l.saveLocked(ctx)
}

// AddCompletion awards stars for one finished task: one base star, one more
// when it beat its deadline, and a flat bonus on every third consecutive
// completion. The combo counter keeps climbing so bonuses recur at 3, 6, 9...
// Returns the stars earned and whether the combo bonus fired.
func (l *Ledger) AddCompletion(ctx context.Context, onTime bool) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked(ctx)

	stars := 1
	if onTime {
		stars++
	}

	l.state.CurrentCombo++
	comboBonus := l.state.CurrentCombo%comboEvery == 0
	if comboBonus {
		stars += comboBonusStars
	}

	l.state.TotalStars += stars
	l.state.TodayStars += stars
	l.state.TodayCompletions++
	if onTime {
		l.state.TodayOnTime++
	}
	l.saveLocked(ctx)

	l.log.Info("ledger: +%d stars (combo=%d, bonus=%v)", stars, l.state.CurrentCombo, comboBonus)
	return stars, comboBonus
}

// AddDailyBonus awards the all-tasks-done bonus. The caller decides when
// every task is complete; the ledger only guards against double-awarding
// within the same day. Returns the stars awarded, 0 when already given.
func (l *Ledger) AddDailyBonus(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked(ctx)

	if l.state.DailyBonusGiven {
		return 0
	}
	l.state.DailyBonusGiven = true
	l.state.TotalStars += dailyBonusStars
	l.state.TodayStars += dailyBonusStars
	l.saveLocked(ctx)

	l.log.Info("ledger: daily bonus +%d stars", dailyBonusStars)
	return dailyBonusStars
}

// ResetCombo zeroes the combo counter. Called on task failure or skip.
func (l *Ledger) ResetCombo(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.CurrentCombo = 0
	l.saveLocked(ctx)
}

// RecordTaskTotal notes how many tasks exist today, for the archival
// snapshot at the next rollover.
func (l *Ledger) RecordTaskTotal(ctx context.Context, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.TodayTotalTasks == total {
		return
	}
	l.state.TodayTotalTasks = total
	l.saveLocked(ctx)
}

// State returns a copy of the current ledger state.
func (l *Ledger) State() domain.RewardState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// ProgressPercent reports how far today's stars are toward the daily goal,
// capped at 100. A non-positive goal always reads as 100.
func (l *Ledger) ProgressPercent() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.DailyGoal <= 0 {
		return 100
	}
	pct := (l.state.TodayStars*100 + l.state.DailyGoal/2) / l.state.DailyGoal
	if pct > 100 {
		return 100
	}
	return pct
}

// saveLocked persists the ledger. Failures are logged; the in-memory state
// stays authoritative. Caller holds l.mu.
func (l *Ledger) saveLocked(ctx context.Context) {
	if err := l.repo.Save(ctx, l.state); err != nil {
		l.log.Error("ledger: saving reward state: %v", err)
	}
}
