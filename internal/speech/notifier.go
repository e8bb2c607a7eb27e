package speech

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Compile-time interface checks.
var _ domain.Notifier = (*SpeakingNotifier)(nil)
var _ domain.DoneNotifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier wraps a text notifier and also speaks messages through
// the Mouth. Messages are printed immediately (via the inner notifier) and
// queued for speech.
type SpeakingNotifier struct {
	text  domain.Notifier
	mouth *Mouth
	log   *logger.Logger
}

// NewSpeakingNotifier creates a notifier that both prints and speaks.
func NewSpeakingNotifier(text domain.Notifier, mouth *Mouth, log *logger.Logger) *SpeakingNotifier {
	return &SpeakingNotifier{
		text:  text,
		mouth: mouth,
		log:   log,
	}
}

// Notify prints the message and queues it for speech at normal priority.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	n.mouth.Say(cleanForSpeech(message), PriorityNormal)
	return nil
}

// NotifyUrgent prints the message and queues it for speech at critical
// priority, interrupting whatever is currently playing.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.mouth.Interrupt()
	n.mouth.Say(cleanForSpeech(message), PriorityCritical)
	return nil
}

// NotifyDone prints the message, queues it for speech, and returns a channel
// closed when playback finishes. Lets the announcer chain a follow-up line
// right after the clock line without overlapping audio.
func (n *SpeakingNotifier) NotifyDone(ctx context.Context, message string) (<-chan struct{}, error) {
	if err := n.text.Notify(ctx, message); err != nil {
		return nil, err
	}
	return n.mouth.SayDone(cleanForSpeech(message), PriorityNormal), nil
}

// cleanForSpeech strips formatting artifacts that shouldn't be spoken.
var bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func cleanForSpeech(msg string) string {
	cleaned := ansiCodes.ReplaceAllString(msg, "")
	cleaned = bracketPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	return cleaned
}
