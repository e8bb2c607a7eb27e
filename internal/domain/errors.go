package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrNoActiveTask   = errors.New("no active task")
	ErrTaskRunning    = errors.New("a task is already running")
	ErrTaskNotActive  = errors.New("task is not active")
	ErrTaskNotPaused  = errors.New("task is not paused")
	ErrNoDuration     = errors.New("task has no duration")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotImplemented = errors.New("not implemented")
)
