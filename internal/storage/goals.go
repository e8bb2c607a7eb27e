package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/chime/internal/domain"
)

type goalRepo struct {
	s *Store
}

var _ domain.GoalRepository = (*goalRepo)(nil)

func (r *goalRepo) List(ctx context.Context) ([]domain.Goal, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, name, target_time, enabled, task_ids, reminder_intervals
		FROM goals ORDER BY target_time, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var g domain.Goal
		var taskIDs, intervals string
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetTime, &g.Enabled, &taskIDs, &intervals); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.TaskIDs = splitCSV(taskIDs)
		g.ReminderIntervals, err = splitIntCSV(intervals)
		if err != nil {
			return nil, fmt.Errorf("goal %s reminder intervals: %w", g.ID, err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *goalRepo) Save(ctx context.Context, g *domain.Goal) error {
	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_time, enabled, task_ids, reminder_intervals)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_time = excluded.target_time,
			enabled = excluded.enabled,
			task_ids = excluded.task_ids,
			reminder_intervals = excluded.reminder_intervals`,
		g.ID, g.Name, g.TargetTime, g.Enabled,
		joinCSV(g.TaskIDs), joinIntCSV(g.ReminderIntervals))
	if err != nil {
		return fmt.Errorf("save goal %s: %w", g.ID, err)
	}
	return nil
}

func (r *goalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinCSV(parts []string) string {
	return strings.Join(parts, ",")
}

func splitIntCSV(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func joinIntCSV(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
