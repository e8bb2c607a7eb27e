package speech

import "time"

// Default voice for TTS. Overridable per store via ClockSettings.VoiceID.
// Full list: https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AnaNeural"

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)

// Priority levels for speech requests. Higher value = speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // next-task hints, idle follow-ups
	PriorityNormal                   // periodic time announcements
	PriorityHigh                     // checkpoint and goal reminders
	PriorityCritical                 // time-up and overdue alerts
)

// SpeechRequest is a queued item waiting to be spoken. Done, when non-nil,
// is closed exactly once after the audio finishes playing or the request
// is dropped.
type SpeechRequest struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
	Done     chan struct{}
}
