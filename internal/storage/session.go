package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore holds the single active-task state in memory. Safe for
// concurrent access. The active task is deliberately not written to disk;
// a restart drops it and the machine starts clean.
type SessionStore struct {
	mu    sync.RWMutex
	state *domain.ActiveTaskState
	log   *logger.Logger
}

// NewSessionStore creates an empty session store.
func NewSessionStore(log *logger.Logger) *SessionStore {
	return &SessionStore{log: log}
}

// Save stores the active-task state, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, state *domain.ActiveTaskState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *state
	s.state = &cp
	s.log.Debug("saved active task %s (status=%s)", state.TaskID, state.Status)
	return nil
}

// Load retrieves the active-task state. Returns ErrNoActiveTask when empty.
func (s *SessionStore) Load(ctx context.Context) (*domain.ActiveTaskState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, domain.ErrNoActiveTask
	}
	cp := *s.state
	return &cp, nil
}

// Clear drops the active-task state.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	s.log.Debug("cleared active task")
	return nil
}
