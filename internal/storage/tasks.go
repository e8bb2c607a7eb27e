package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hammamikhairi/chime/internal/domain"
)

type taskRepo struct {
	s *Store
}

var _ domain.TaskRepository = (*taskRepo)(nil)

func (r *taskRepo) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, text, duration_minutes, completed, ord, deadline
		FROM tasks ORDER BY ord, id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.DurationMinutes, &t.Completed, &t.Order, &t.Deadline); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Get(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.s.db.QueryRowContext(ctx, `
		SELECT id, text, duration_minutes, completed, ord, deadline
		FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Text, &t.DurationMinutes, &t.Completed, &t.Order, &t.Deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (r *taskRepo) Save(ctx context.Context, t *domain.Task) error {
	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, text, duration_minutes, completed, ord, deadline)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			duration_minutes = excluded.duration_minutes,
			completed = excluded.completed,
			ord = excluded.ord,
			deadline = excluded.deadline`,
		t.ID, t.Text, t.DurationMinutes, t.Completed, t.Order, t.Deadline)
	if err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
