package synth

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/openspeechd/sd-viavoice/audio"
	"github.com/openspeechd/sd-viavoice/engine"
)

// Reporter receives per-utterance outcome events. The host server
// implements it by writing event lines to the dispatcher.
type Reporter interface {
	EventBegin()
	EventEnd()
	EventStop()
	EventPause()
}

// Output receives each completed utterance's audio. The track's sample
// slice is borrowed from the collector and must not be retained.
type Output interface {
	Play(t audio.Track) error
}

// AudioCache stores assembled utterances keyed by request fingerprint.
// A hit bypasses the engine entirely.
type AudioCache interface {
	Get(key string) ([]int16, bool)
	Put(key string, samples []int16)
}

// unset marks a voice parameter the host has not configured.
const unset = -1

// SessionConfig wires a Session's collaborators.
type SessionConfig struct {
	Engine     engine.Engine
	Reporter   Reporter
	Output     Output
	Cache      AudioCache // optional
	Logger     *log.Logger
	SampleRate int // engine output rate in Hz
	Voice      int // preset voice index, 0 based
	MaxSamples int // collector bound, 0 for unbounded
}

// Session drives one engine through repeated speak requests. Prepare
// and Synthesize run on a single worker goroutine; Stop and Pause may
// be called concurrently from the host's command loop.
type Session struct {
	eng    engine.Engine
	col    *Collector
	sm     *StateMachine
	logger *log.Logger

	reporter Reporter
	output   Output
	cache    AudioCache

	rate  int
	voice int

	prepared string

	mu       sync.Mutex
	pauseReq bool
	speed    int
	pitch    int
	volume   int
}

// NewSession creates a session and registers its collector as the
// engine's fragment callback.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		eng:      cfg.Engine,
		col:      NewCollector(cfg.MaxSamples),
		sm:       NewStateMachine(),
		logger:   cfg.Logger,
		reporter: cfg.Reporter,
		output:   cfg.Output,
		cache:    cfg.Cache,
		rate:     cfg.SampleRate,
		voice:    cfg.Voice,
		speed:    unset,
		pitch:    unset,
		volume:   unset,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.eng.RegisterCallback(func(msg engine.Message, frag []int16) engine.CallbackResult {
		if msg != engine.WaveformBuffer {
			return engine.DataProcessed
		}
		if !s.col.Push(frag) {
			return engine.DataNotProcessed
		}
		return engine.DataProcessed
	})
	return s
}

// State returns the current request state.
func (s *Session) State() StateType {
	return s.sm.Current()
}

// SetSpeed sets the speaking speed for subsequent requests, in the
// engine's 0..250 range.
func (s *Session) SetSpeed(v int) {
	s.mu.Lock()
	s.speed = v
	s.mu.Unlock()
}

// SetPitch sets the pitch baseline for subsequent requests, 0..100.
func (s *Session) SetPitch(v int) {
	s.mu.Lock()
	s.pitch = v
	s.mu.Unlock()
}

// SetVolume sets the volume for subsequent requests, 0..100.
func (s *Session) SetVolume(v int) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Stop cancels the in-flight request. Fragments still in flight are
// refused by the collector; the engine halt is advisory.
func (s *Session) Stop() {
	s.mu.Lock()
	s.pauseReq = false
	s.mu.Unlock()
	s.col.Cancel()
	s.eng.Stop()
}

// Pause cancels like Stop but reports a pause outcome. The engine has
// no resumable pause, so the dispatcher re-sends the remaining text.
func (s *Session) Pause() {
	s.mu.Lock()
	s.pauseReq = true
	s.mu.Unlock()
	s.col.Cancel()
	s.eng.Stop()
}

// Prepare strips and sanitizes the utterance and readies the session
// for Synthesize. It clears the cancellation flag and the collector,
// so a Stop arriving before Prepare has no effect on the new request.
// Returns ErrNothingToSpeak when normalization leaves nothing.
func (s *Session) Prepare(u Utterance) error {
	if s.sm.Current().Terminal() {
		s.sm.Transition(StateIdle)
	}
	if s.sm.Current() != StateIdle {
		return fmt.Errorf("%w: %s", ErrInvalidState, s.sm.Current())
	}

	s.col.Reset()
	s.mu.Lock()
	s.pauseReq = false
	s.mu.Unlock()

	text := StripMarkup(u.Text)
	if u.Kind.Sanitized() {
		text = Sanitize(text)
	}
	if len(text) == 0 {
		s.sm.Transition(StateFailed)
		return ErrNothingToSpeak
	}

	s.prepared = string(text)
	s.sm.Transition(StateTextPrepared)
	s.logger.Debug("text prepared", "kind", u.Kind, "bytes", len(text))
	return nil
}

// Synthesize runs the prepared text through the engine, blocks until
// completion or cancellation and delivers the assembled audio. Engine
// rejection and cancellation both end the utterance; neither is fatal
// to the session.
func (s *Session) Synthesize() error {
	if s.sm.Current() != StateTextPrepared {
		return ErrTextNotPrepared
	}

	if s.cache != nil {
		if samples, ok := s.cache.Get(s.cacheKey()); ok {
			s.sm.Transition(StateSynthesizing)
			s.logger.Debug("cache hit", "samples", len(samples))
			s.reporter.EventBegin()
			s.deliver(samples)
			s.reporter.EventEnd()
			s.sm.Transition(StateCompleted)
			return nil
		}
	}

	s.applyVoiceParams()
	s.sm.Transition(StateSynthesizing)

	if !s.eng.AddText(s.prepared) {
		s.logger.Error("engine rejected text")
		s.reporter.EventEnd()
		s.sm.Transition(StateFailed)
		return fmt.Errorf("add text: %w", ErrEngineRejected)
	}

	s.reporter.EventBegin()

	if !s.eng.Synthesize() {
		s.logger.Error("engine rejected synthesis")
		s.reporter.EventEnd()
		s.sm.Transition(StateFailed)
		return fmt.Errorf("synthesize: %w", ErrEngineRejected)
	}

	s.eng.Synchronize()

	if s.col.Cancelled() {
		s.mu.Lock()
		paused := s.pauseReq
		s.mu.Unlock()
		if paused {
			s.reporter.EventPause()
		} else {
			s.reporter.EventStop()
		}
		s.sm.Transition(StateCancelled)
		s.logger.Debug("synthesis cancelled", "discarded", s.col.Len())
		return ErrCancelled
	}

	samples := s.col.Take()
	if s.cache != nil {
		stored := make([]int16, len(samples))
		copy(stored, samples)
		s.cache.Put(s.cacheKey(), stored)
	}
	s.deliver(samples)
	s.reporter.EventEnd()
	s.sm.Transition(StateCompleted)
	return nil
}

// Speak is Prepare followed by Synthesize.
func (s *Session) Speak(u Utterance) error {
	if err := s.Prepare(u); err != nil {
		return err
	}
	return s.Synthesize()
}

// deliver hands the samples to the output sink. Delivery failures are
// logged, not escalated; the utterance still counts as spoken.
func (s *Session) deliver(samples []int16) {
	track := audio.NewTrack(samples, s.rate)
	s.logger.Debug("delivering audio",
		"samples", len(samples),
		"size", humanize.Bytes(uint64(len(samples)*2)),
		"duration", track.Duration())
	if err := s.output.Play(track); err != nil {
		s.logger.Error("audio delivery failed", "err", err)
	}
}

// applyVoiceParams pushes the configured overrides onto the active
// voice before each request, matching the engine's per-utterance
// parameter model.
func (s *Session) applyVoiceParams() {
	s.mu.Lock()
	speed, pitch, volume := s.speed, s.pitch, s.volume
	s.mu.Unlock()

	if speed != unset {
		s.eng.SetVoiceParam(0, engine.VoiceSpeed, speed)
	}
	if pitch != unset {
		s.eng.SetVoiceParam(0, engine.VoicePitchBaseline, pitch)
	}
	if volume != unset {
		s.eng.SetVoiceParam(0, engine.VoiceVolume, volume)
	}
}

// cacheKey fingerprints the prepared text together with everything
// that changes the produced audio.
func (s *Session) cacheKey() string {
	s.mu.Lock()
	speed, pitch, volume := s.speed, s.pitch, s.volume
	s.mu.Unlock()
	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%d|%d|%d|%d|%s",
		s.voice, speed, pitch, volume, s.rate, s.prepared))
	return fmt.Sprintf("%x", sum)
}
