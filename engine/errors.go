package engine

import "errors"

// Common errors for engine implementations.
var (
	ErrNoHandle    = errors.New("engine handle could not be created")
	ErrUnsupported = errors.New("native engine not supported on this platform")
)
