// Package storage provides the SQLite-backed repositories and the
// in-memory active-task session store.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

const currentVersion = 1

// Store owns the SQLite database and hands out the typed repositories.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string, log *logger.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory(log *logger.Logger) (*Store, error) {
	return New(":memory:", log)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tasks returns the task repository backed by this store.
func (s *Store) Tasks() domain.TaskRepository { return &taskRepo{s} }

// Goals returns the goal repository backed by this store.
func (s *Store) Goals() domain.GoalRepository { return &goalRepo{s} }

// Settings returns the clock-settings repository backed by this store.
func (s *Store) Settings() domain.SettingsRepository { return &settingsRepo{s} }

// Rewards returns the reward-state repository backed by this store.
func (s *Store) Rewards() domain.RewardRepository { return &rewardRepo{s} }

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		text              TEXT NOT NULL,
		duration_minutes  INTEGER NOT NULL DEFAULT 0,
		completed         INTEGER NOT NULL DEFAULT 0,
		ord               INTEGER NOT NULL DEFAULT 0,
		deadline          TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS goals (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		target_time         TEXT NOT NULL,
		enabled             INTEGER NOT NULL DEFAULT 1,
		task_ids            TEXT NOT NULL DEFAULT '',
		reminder_intervals  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS settings (
		key    TEXT PRIMARY KEY,
		value  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reward_state (
		id                 INTEGER PRIMARY KEY CHECK (id = 1),
		total_stars        INTEGER NOT NULL DEFAULT 0,
		today_stars        INTEGER NOT NULL DEFAULT 0,
		daily_goal         INTEGER NOT NULL DEFAULT 5,
		current_combo      INTEGER NOT NULL DEFAULT 0,
		last_updated_date  TEXT NOT NULL DEFAULT '',
		today_completions  INTEGER NOT NULL DEFAULT 0,
		today_on_time      INTEGER NOT NULL DEFAULT 0,
		today_total_tasks  INTEGER NOT NULL DEFAULT 0,
		daily_bonus_given  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS reward_history (
		date             TEXT PRIMARY KEY,
		earned           INTEGER NOT NULL DEFAULT 0,
		combo_count      INTEGER NOT NULL DEFAULT 0,
		completed_tasks  INTEGER NOT NULL DEFAULT 0,
		total_tasks      INTEGER NOT NULL DEFAULT 0,
		on_time          INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_ord ON tasks(ord);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("migrate v1: %w", err)
	}
	return nil
}
