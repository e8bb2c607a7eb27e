package speech

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechProvider = (*Mouth)(nil)

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithQueueSize sets the internal notification channel capacity.
func WithQueueSize(n int) MouthOption {
	return func(m *Mouth) {
		m.notify = make(chan struct{}, n)
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) MouthOption {
	return func(m *Mouth) {
		m.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) MouthOption {
	return func(m *Mouth) {
		m.diskWrite = enabled
	}
}

// Mouth is the central speech dispatcher. It serializes all speech output
// through a single pipeline: queue -> synthesize -> play. Only one thing
// speaks at a time; higher priority items are spoken first. Callers that
// need to chain speech (say the follow-up only after the clock line has
// finished) use SayDone and wait on the returned channel.
//
// An internal AudioCache avoids re-synthesizing identical text, which
// matters here: the same clock lines and reminder phrasings recur all day.
type Mouth struct {
	tts    *AzureClient
	player *Player
	log    *logger.Logger
	cache  *AudioCache

	mu        sync.Mutex
	queue     []SpeechRequest
	notify    chan struct{}
	speaking  bool
	muted     bool
	cacheDir  string
	diskWrite bool
}

// NewMouth creates a speech dispatcher with the given TTS client and player.
func NewMouth(tts *AzureClient, player *Player, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:       tts,
		player:    player,
		log:       log,
		notify:    make(chan struct{}, 32),
		diskWrite: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	// Build the cache after options are applied so voice/cacheDir/diskWrite
	// are all settled.
	m.cache = NewAudioCache(tts.Voice(), m.cacheDir, m.diskWrite, log)
	return m
}

// Say queues text to be spoken at the given priority. Non-blocking.
// When something at PriorityNormal or above is queued, any stale
// PriorityLow items are flushed first.
func (m *Mouth) Say(text string, priority Priority) {
	m.enqueue(SpeechRequest{Text: text, Priority: priority, QueuedAt: time.Now()})
}

// SayDone queues text and returns a channel closed once the audio has
// finished playing. When the request is dropped (mute, flush, interrupt,
// synthesis failure) the channel is closed immediately instead, so waiters
// never hang.
func (m *Mouth) SayDone(text string, priority Priority) <-chan struct{} {
	done := make(chan struct{})
	m.enqueue(SpeechRequest{Text: text, Priority: priority, QueuedAt: time.Now(), Done: done})
	return done
}

// Speak queues text at normal priority. Satisfies domain.SpeechProvider.
func (m *Mouth) Speak(ctx context.Context, text string) error {
	m.Say(text, PriorityNormal)
	return nil
}

func (m *Mouth) enqueue(req SpeechRequest) {
	m.mu.Lock()
	if m.muted {
		m.mu.Unlock()
		finish(req)
		return
	}
	if req.Priority >= PriorityNormal {
		m.flushLowLocked()
	}
	m.queue = append(m.queue, req)
	qLen := len(m.queue)
	m.mu.Unlock()

	m.log.Debug("mouth: queued (priority=%d, queue_len=%d): %s", req.Priority, qLen, truncate(req.Text, 60))

	// Signal the processing goroutine.
	select {
	case m.notify <- struct{}{}:
	default: // already signaled
	}
}

// flushLowLocked removes all PriorityLow items from the queue.
// Must be called with m.mu held.
func (m *Mouth) flushLowLocked() {
	n := 0
	for _, item := range m.queue {
		if item.Priority > PriorityLow {
			m.queue[n] = item
			n++
		} else {
			finish(item)
		}
	}
	dropped := len(m.queue) - n
	m.queue = m.queue[:n]
	if dropped > 0 {
		m.log.Debug("mouth: flushed %d low-priority items", dropped)
	}
}

// IsSpeaking returns true if the mouth is currently synthesizing or playing audio.
func (m *Mouth) IsSpeaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// QueueLen returns the number of pending speech requests.
func (m *Mouth) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// SetMuted toggles speech output. Muting clears the queue so nothing stale
// plays on unmute.
func (m *Mouth) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	if muted {
		for _, item := range m.queue {
			finish(item)
		}
		m.queue = m.queue[:0]
	}
	m.mu.Unlock()

	if muted {
		m.player.Stop()
	}
	m.log.Info("mouth: muted=%v", muted)
}

// Muted reports whether speech output is disabled.
func (m *Mouth) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Interrupt stops the currently playing audio and clears the queue. Use
// this when something more important needs to be spoken immediately.
func (m *Mouth) Interrupt() {
	m.mu.Lock()
	for _, item := range m.queue {
		finish(item)
	}
	m.queue = m.queue[:0]
	m.mu.Unlock()

	m.player.Stop()
	m.log.Debug("mouth: interrupted, queue cleared, playback stopped")
}

// Start begins the speech processing goroutine. Non-blocking.
func (m *Mouth) Start(ctx context.Context) {
	go m.processLoop(ctx)
	m.log.Info("mouth started")
}

// processLoop waits for queued items and processes them one at a time.
func (m *Mouth) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.log.Info("mouth stopped")
			m.drainFinish()
			return
		case <-m.notify:
			m.drain(ctx)
		}
	}
}

// drainFinish releases all waiters when the loop shuts down.
func (m *Mouth) drainFinish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.queue {
		finish(item)
	}
	m.queue = m.queue[:0]
}

// drain processes all queued items, highest priority first.
func (m *Mouth) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, ok := m.dequeue()
		if !ok {
			return
		}

		m.mu.Lock()
		m.speaking = true
		m.mu.Unlock()

		m.process(ctx, item)
		finish(item)

		m.mu.Lock()
		m.speaking = false
		m.mu.Unlock()
	}
}

// dequeue removes and returns the highest priority item from the queue.
func (m *Mouth) dequeue() (SpeechRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return SpeechRequest{}, false
	}

	bestIdx := 0
	for i, item := range m.queue {
		if item.Priority > m.queue[bestIdx].Priority {
			bestIdx = i
		}
	}

	item := m.queue[bestIdx]
	m.queue = append(m.queue[:bestIdx], m.queue[bestIdx+1:]...)
	return item, true
}

// process synthesizes and plays a single speech request.
func (m *Mouth) process(ctx context.Context, req SpeechRequest) {
	waitTime := time.Since(req.QueuedAt).Round(time.Millisecond)
	m.log.Debug("mouth: speaking (priority=%d, waited=%s): %s", req.Priority, waitTime, truncate(req.Text, 60))

	audio, err := m.synthesizeWithCache(ctx, req.Text)
	if err != nil {
		m.log.Error("mouth: synthesis failed: %v", err)
		return
	}
	if err := m.player.Play(audio); err != nil {
		m.log.Error("mouth: playback failed: %v", err)
	}
}

// synthesizeWithCache checks the cache first, otherwise calls Azure and
// stores the result. Thread-safe.
func (m *Mouth) synthesizeWithCache(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := m.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Put(text, audio)
	return audio, nil
}

// Prefetch pre-synthesizes the given texts in background goroutines and
// stores the results in the audio cache, skipping anything already cached.
// Non-blocking. Call it with the fixed phrases (start cues, time-up lines)
// so playback starts instantly when Say is called.
func (m *Mouth) Prefetch(ctx context.Context, texts ...string) {
	for _, text := range texts {
		if text == "" || m.cache.Has(text) {
			continue
		}
		go func(t string) {
			m.log.Debug("prefetch: synthesizing: %s", truncate(t, 50))
			audio, err := m.tts.Synthesize(ctx, t)
			if err != nil {
				m.log.Error("prefetch: synthesis failed: %v", err)
				return
			}
			m.cache.Put(t, audio)
		}(text)
	}
}

// Cache returns the audio cache used by this Mouth. Useful for stats/logging.
func (m *Mouth) Cache() *AudioCache { return m.cache }

// finish closes the request's done channel, if it has one.
func finish(req SpeechRequest) {
	if req.Done != nil {
		close(req.Done)
	}
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
