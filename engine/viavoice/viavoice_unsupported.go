//go:build !linux && !darwin

package viavoice

import "github.com/openspeechd/sd-viavoice/engine"

// DefaultLibrary is the shared object name the engine ships under.
const DefaultLibrary = "libibmeci.so"

// Open always fails; the native library only exists for POSIX systems.
func Open(libPath string) (engine.Engine, error) {
	return nil, engine.ErrUnsupported
}
