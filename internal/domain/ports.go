package domain

import "context"

// TaskRepository persists tasks. Implementations can be in-memory or SQLite.
type TaskRepository interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	Save(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}

// GoalRepository persists deadline goals.
type GoalRepository interface {
	List(ctx context.Context) ([]Goal, error)
	Save(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository persists the clock settings. Load returns defaults
// merged over whatever was stored; it never fails into a zero value.
type SettingsRepository interface {
	Load(ctx context.Context) (ClockSettings, error)
	Save(ctx context.Context, settings ClockSettings) error
}

// RewardRepository persists the star/combo ledger.
type RewardRepository interface {
	Load(ctx context.Context) (RewardState, error)
	Save(ctx context.Context, state RewardState) error
}

// SessionStore holds the single active-task state for the current session.
// Load returns ErrNoActiveTask when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, state *ActiveTaskState) error
	Load(ctx context.Context) (*ActiveTaskState, error)
	Clear(ctx context.Context) error
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, push notifications, or use text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// DoneNotifier is an optional interface a Notifier can satisfy when it can
// report delivery completion (end of speech playback). The returned channel
// is closed exactly once, immediately if delivery is unavailable.
type DoneNotifier interface {
	NotifyDone(ctx context.Context, message string) (<-chan struct{}, error)
}

// SpeechProvider handles voice output. The no-op implementation is used
// when TTS is disabled or the audio device is unavailable.
type SpeechProvider interface {
	Speak(ctx context.Context, text string) error
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
