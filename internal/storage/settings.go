package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/chime/internal/domain"
)

const settingsKey = "clock"

type settingsRepo struct {
	s *Store
}

var _ domain.SettingsRepository = (*settingsRepo)(nil)

// Load returns the stored clock settings merged over the defaults, so new
// fields pick up their default when an older row is missing them.
func (r *settingsRepo) Load(ctx context.Context) (domain.ClockSettings, error) {
	cfg := domain.DefaultClockSettings()

	var raw string
	err := r.s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load settings: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		r.s.log.Error("storage: corrupt settings row, using defaults: %v", err)
		return domain.DefaultClockSettings(), nil
	}
	return cfg.Normalize(), nil
}

func (r *settingsRepo) Save(ctx context.Context, cfg domain.ClockSettings) error {
	raw, err := json.Marshal(cfg.Normalize())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingsKey, string(raw))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
