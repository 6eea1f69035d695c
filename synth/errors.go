package synth

import "errors"

// Common errors for the synthesis pipeline.
var (
	// Preparation errors
	ErrNothingToSpeak = errors.New("nothing speakable left after preparation")
	ErrTextNotPrepared = errors.New("no text has been prepared")

	// Engine errors
	ErrEngineRejected = errors.New("engine rejected the request")
	ErrEngineClosed   = errors.New("engine has been closed")

	// Collector errors
	ErrBufferLimit = errors.New("sample buffer limit reached")

	// Session errors
	ErrCancelled       = errors.New("synthesis was cancelled")
	ErrInvalidState    = errors.New("invalid state for operation")
	ErrStateTransition = errors.New("invalid state transition")
)
