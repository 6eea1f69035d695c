// Package mock provides a scripted engine for tests: queued audio
// fragments, failure injection and call recording.
package mock

import (
	"sync"

	"github.com/openspeechd/sd-viavoice/engine"
)

// Engine is a test double for engine.Engine. Zero value is usable.
// Fragments are delivered through the registered callback during
// Synchronize, via a shared scratch buffer that is overwritten between
// invocations, the way the real engine reuses its output buffer.
type Engine struct {
	mu sync.Mutex
	cb engine.Callback

	// Fragments is the audio script, one slice per callback invocation.
	Fragments [][]int16

	// Failure injection.
	FailAddText     bool
	FailSynthesize  bool
	FailSynchronize bool

	// OnSynchronize runs at the start of Synchronize, before any
	// fragment is delivered. Useful for triggering a concurrent stop.
	OnSynchronize func()

	// AfterFragment runs after fragment i has been delivered.
	AfterFragment func(i int)

	// Call recording.
	AddTextCalls     []string
	SynthesizeCalls  int
	SynchronizeCalls int
	StopCalls        int
	CloseCalls       int

	speaking    bool
	params      map[engine.Param]int
	voiceParams map[int]map[engine.VoiceParam]int
	copies      [][2]int
	closed      bool
}

var _ engine.Engine = (*Engine)(nil)

// RegisterCallback implements engine.Engine.
func (e *Engine) RegisterCallback(cb engine.Callback) {
	e.mu.Lock()
	e.cb = cb
	e.mu.Unlock()
}

// AddText implements engine.Engine.
func (e *Engine) AddText(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailAddText {
		return false
	}
	e.AddTextCalls = append(e.AddTextCalls, text)
	return true
}

// Synthesize implements engine.Engine.
func (e *Engine) Synthesize() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.SynthesizeCalls++
	if e.FailSynthesize {
		return false
	}
	e.speaking = true
	return true
}

// Synchronize implements engine.Engine. It plays the fragment script
// through the callback, stopping early when the callback refuses a
// fragment, then reports completion.
func (e *Engine) Synchronize() bool {
	e.mu.Lock()
	e.SynchronizeCalls++
	fail := e.FailSynchronize
	cb := e.cb
	frags := e.Fragments
	hook := e.OnSynchronize
	after := e.AfterFragment
	e.mu.Unlock()

	if fail {
		return false
	}
	if hook != nil {
		hook()
	}

	if cb != nil {
		var scratch []int16
		for i, frag := range frags {
			if cap(scratch) < len(frag) {
				scratch = make([]int16, len(frag))
			}
			scratch = scratch[:len(frag)]
			copy(scratch, frag)
			if cb(engine.WaveformBuffer, scratch) == engine.DataNotProcessed {
				break
			}
			// Overwrite so a callback that kept the slice sees garbage.
			for j := range scratch {
				scratch[j] = -1
			}
			if after != nil {
				after(i)
			}
		}
	}

	e.mu.Lock()
	e.speaking = false
	e.mu.Unlock()
	return true
}

// Stop implements engine.Engine.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.StopCalls++
	e.speaking = false
	return true
}

// Speaking implements engine.Engine.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking
}

// SetParam implements engine.Engine.
func (e *Engine) SetParam(p engine.Param, v int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.params == nil {
		e.params = make(map[engine.Param]int)
	}
	prev, ok := e.params[p]
	e.params[p] = v
	if !ok {
		return 0
	}
	return prev
}

// GetParam implements engine.Engine.
func (e *Engine) GetParam(p engine.Param) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params[p]
}

// SetVoiceParam implements engine.Engine.
func (e *Engine) SetVoiceParam(voice int, p engine.VoiceParam, v int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.voiceParams == nil {
		e.voiceParams = make(map[int]map[engine.VoiceParam]int)
	}
	if e.voiceParams[voice] == nil {
		e.voiceParams[voice] = make(map[engine.VoiceParam]int)
	}
	prev := e.voiceParams[voice][p]
	e.voiceParams[voice][p] = v
	return prev
}

// GetVoiceParam implements engine.Engine.
func (e *Engine) GetVoiceParam(voice int, p engine.VoiceParam) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voiceParams[voice][p]
}

// CopyVoice implements engine.Engine.
func (e *Engine) CopyVoice(from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.copies = append(e.copies, [2]int{from, to})
	return true
}

// CopiedVoices returns the CopyVoice calls made so far.
func (e *Engine) CopiedVoices() [][2]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copies
}

// Close implements engine.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.CloseCalls++
	e.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
