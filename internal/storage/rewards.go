package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hammamikhairi/chime/internal/domain"
)

type rewardRepo struct {
	s *Store
}

var _ domain.RewardRepository = (*rewardRepo)(nil)

func (r *rewardRepo) Load(ctx context.Context) (domain.RewardState, error) {
	state := domain.DefaultRewardState()

	err := r.s.db.QueryRowContext(ctx, `
		SELECT total_stars, today_stars, daily_goal, current_combo,
		       last_updated_date, today_completions, today_on_time,
		       today_total_tasks, daily_bonus_given
		FROM reward_state WHERE id = 1`).
		Scan(&state.TotalStars, &state.TodayStars, &state.DailyGoal,
			&state.CurrentCombo, &state.LastUpdatedDate,
			&state.TodayCompletions, &state.TodayOnTime,
			&state.TodayTotalTasks, &state.DailyBonusGiven)
	if errors.Is(err, sql.ErrNoRows) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("load reward state: %w", err)
	}

	rows, err := r.s.db.QueryContext(ctx, `
		SELECT date, earned, combo_count, completed_tasks, total_tasks, on_time
		FROM reward_history ORDER BY date DESC LIMIT ?`, domain.HistoryLimit)
	if err != nil {
		return state, fmt.Errorf("load reward history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.DailyRecord
		if err := rows.Scan(&rec.Date, &rec.Earned, &rec.ComboCount,
			&rec.CompletedTasks, &rec.TotalTasks, &rec.OnTimeCompletions); err != nil {
			return state, fmt.Errorf("scan reward history: %w", err)
		}
		state.History = append(state.History, rec)
	}
	return state, rows.Err()
}

func (r *rewardRepo) Save(ctx context.Context, state domain.RewardState) error {
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save reward state: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reward_state (id, total_stars, today_stars, daily_goal,
			current_combo, last_updated_date, today_completions,
			today_on_time, today_total_tasks, daily_bonus_given)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_stars = excluded.total_stars,
			today_stars = excluded.today_stars,
			daily_goal = excluded.daily_goal,
			current_combo = excluded.current_combo,
			last_updated_date = excluded.last_updated_date,
			today_completions = excluded.today_completions,
			today_on_time = excluded.today_on_time,
			today_total_tasks = excluded.today_total_tasks,
			daily_bonus_given = excluded.daily_bonus_given`,
		state.TotalStars, state.TodayStars, state.DailyGoal,
		state.CurrentCombo, state.LastUpdatedDate,
		state.TodayCompletions, state.TodayOnTime,
		state.TodayTotalTasks, state.DailyBonusGiven)
	if err != nil {
		return fmt.Errorf("save reward state: %w", err)
	}

	for _, rec := range state.History {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reward_history (date, earned, combo_count,
				completed_tasks, total_tasks, on_time)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				earned = excluded.earned,
				combo_count = excluded.combo_count,
				completed_tasks = excluded.completed_tasks,
				total_tasks = excluded.total_tasks,
				on_time = excluded.on_time`,
			rec.Date, rec.Earned, rec.ComboCount,
			rec.CompletedTasks, rec.TotalTasks, rec.OnTimeCompletions)
		if err != nil {
			return fmt.Errorf("save reward history %s: %w", rec.Date, err)
		}
	}

	// Rows older than the retention window are dropped.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM reward_history WHERE date NOT IN (
			SELECT date FROM reward_history ORDER BY date DESC LIMIT ?)`,
		domain.HistoryLimit)
	if err != nil {
		return fmt.Errorf("prune reward history: %w", err)
	}

	return tx.Commit()
}
