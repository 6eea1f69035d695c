//go:build linux || darwin

// Package viavoice binds the native IBM ViaVoice ECI library through
// dlopen. The library is ancient 32-bit era C with a handle-based API;
// all calls on one handle must come from the process that created it,
// and the synthesis callback runs on the engine's own thread.
package viavoice

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/openspeechd/sd-viavoice/engine"
)

// DefaultLibrary is the shared object name the engine ships under.
const DefaultLibrary = "libibmeci.so"

// scratchSamples is the size of the output buffer registered with the
// engine; the callback fires each time the engine has filled it.
const scratchSamples = 20000

const nullHandle = 0

// Native dictionary error code for success.
const dictNoError = 0

type eciAPI struct {
	new              func() uintptr
	delete           func(uintptr) uintptr
	reset            func(uintptr) bool
	addText          func(uintptr, string) bool
	synthesize       func(uintptr) bool
	synchronize      func(uintptr) bool
	speaking         func(uintptr) bool
	stop             func(uintptr) bool
	setParam         func(uintptr, int32, int32) int32
	getParam         func(uintptr, int32) int32
	setVoiceParam    func(uintptr, int32, int32, int32) int32
	getVoiceParam    func(uintptr, int32, int32) int32
	copyVoice        func(uintptr, int32, int32) bool
	registerCallback func(uintptr, uintptr, uintptr)
	setOutputBuffer  func(uintptr, int32, uintptr) bool
	newDict          func(uintptr) uintptr
	loadDict         func(uintptr, uintptr, int32, string) int32
	setDict          func(uintptr, uintptr) int32
	deleteDict       func(uintptr, uintptr) uintptr
}

// Engine is a live ECI handle. It implements engine.Engine and
// engine.DictionaryLoader.
type Engine struct {
	api     eciAPI
	handle  uintptr
	scratch []int16
	cb      engine.Callback
	cbPtr   uintptr
	dict    uintptr
}

var _ engine.Engine = (*Engine)(nil)
var _ engine.DictionaryLoader = (*Engine)(nil)

// Open loads the native library and creates an engine handle. An empty
// libPath falls back to DefaultLibrary on the system search path.
func Open(libPath string) (engine.Engine, error) {
	if libPath == "" {
		libPath = DefaultLibrary
	}
	lib, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", libPath, err)
	}

	e := &Engine{scratch: make([]int16, scratchSamples)}

	purego.RegisterLibFunc(&e.api.new, lib, "eciNew")
	purego.RegisterLibFunc(&e.api.delete, lib, "eciDelete")
	purego.RegisterLibFunc(&e.api.reset, lib, "eciReset")
	purego.RegisterLibFunc(&e.api.addText, lib, "eciAddText")
	purego.RegisterLibFunc(&e.api.synthesize, lib, "eciSynthesize")
	purego.RegisterLibFunc(&e.api.synchronize, lib, "eciSynchronize")
	purego.RegisterLibFunc(&e.api.speaking, lib, "eciSpeaking")
	purego.RegisterLibFunc(&e.api.stop, lib, "eciStop")
	purego.RegisterLibFunc(&e.api.setParam, lib, "eciSetParam")
	purego.RegisterLibFunc(&e.api.getParam, lib, "eciGetParam")
	purego.RegisterLibFunc(&e.api.setVoiceParam, lib, "eciSetVoiceParam")
	purego.RegisterLibFunc(&e.api.getVoiceParam, lib, "eciGetVoiceParam")
	purego.RegisterLibFunc(&e.api.copyVoice, lib, "eciCopyVoice")
	purego.RegisterLibFunc(&e.api.registerCallback, lib, "eciRegisterCallback")
	purego.RegisterLibFunc(&e.api.setOutputBuffer, lib, "eciSetOutputBuffer")
	purego.RegisterLibFunc(&e.api.newDict, lib, "eciNewDict")
	purego.RegisterLibFunc(&e.api.loadDict, lib, "eciLoadDict")
	purego.RegisterLibFunc(&e.api.setDict, lib, "eciSetDict")
	purego.RegisterLibFunc(&e.api.deleteDict, lib, "eciDeleteDict")

	e.handle = e.api.new()
	if e.handle == nullHandle {
		return nil, engine.ErrNoHandle
	}

	// One C-callable trampoline per engine; the native side passes it
	// back the message kind and the sample count in the output buffer.
	e.cbPtr = purego.NewCallback(func(h uintptr, msg uintptr, lparam uintptr, data uintptr) uintptr {
		return uintptr(e.dispatch(engine.Message(msg), int(lparam)))
	})

	return e, nil
}

// dispatch routes one native callback invocation to the registered Go
// callback, viewing the filled portion of the scratch buffer.
func (e *Engine) dispatch(msg engine.Message, n int) engine.CallbackResult {
	if e.cb == nil {
		return engine.DataProcessed
	}
	var samples []int16
	if msg == engine.WaveformBuffer && n > 0 && n <= len(e.scratch) {
		samples = e.scratch[:n]
	}
	return e.cb(msg, samples)
}

// RegisterCallback implements engine.Engine. It installs both the
// trampoline and the shared output buffer on the native handle.
func (e *Engine) RegisterCallback(cb engine.Callback) {
	e.cb = cb
	e.api.registerCallback(e.handle, e.cbPtr, 0)
	e.api.setOutputBuffer(e.handle, scratchSamples,
		uintptr(unsafe.Pointer(unsafe.SliceData(e.scratch))))
}

// AddText implements engine.Engine.
func (e *Engine) AddText(text string) bool {
	return e.api.addText(e.handle, text)
}

// Synthesize implements engine.Engine.
func (e *Engine) Synthesize() bool {
	return e.api.synthesize(e.handle)
}

// Synchronize implements engine.Engine. Blocks on the native side
// until synthesis completes or is stopped; the callback fires on the
// engine thread while this waits.
func (e *Engine) Synchronize() bool {
	return e.api.synchronize(e.handle)
}

// Stop implements engine.Engine.
func (e *Engine) Stop() bool {
	return e.api.stop(e.handle)
}

// Speaking implements engine.Engine.
func (e *Engine) Speaking() bool {
	return e.api.speaking(e.handle)
}

// SetParam implements engine.Engine.
func (e *Engine) SetParam(p engine.Param, v int) int {
	return int(e.api.setParam(e.handle, int32(p), int32(v)))
}

// GetParam implements engine.Engine.
func (e *Engine) GetParam(p engine.Param) int {
	return int(e.api.getParam(e.handle, int32(p)))
}

// SetVoiceParam implements engine.Engine.
func (e *Engine) SetVoiceParam(voice int, p engine.VoiceParam, v int) int {
	return int(e.api.setVoiceParam(e.handle, int32(voice), int32(p), int32(v)))
}

// GetVoiceParam implements engine.Engine.
func (e *Engine) GetVoiceParam(voice int, p engine.VoiceParam) int {
	return int(e.api.getVoiceParam(e.handle, int32(voice), int32(p)))
}

// CopyVoice implements engine.Engine.
func (e *Engine) CopyVoice(from, to int) bool {
	return e.api.copyVoice(e.handle, int32(from), int32(to))
}

// LoadDictionary implements engine.DictionaryLoader. The dictionary
// set is created lazily on first load.
func (e *Engine) LoadDictionary(kind engine.DictKind, path string) error {
	if e.dict == nullHandle {
		e.dict = e.api.newDict(e.handle)
		if e.dict == nullHandle {
			return fmt.Errorf("creating dictionary set: %w", engine.ErrNoHandle)
		}
	}
	if rc := e.api.loadDict(e.handle, e.dict, int32(kind), path); rc != dictNoError {
		return fmt.Errorf("loading dictionary %s (kind %d): native error %d", path, kind, rc)
	}
	return nil
}

// ActivateDictionaries implements engine.DictionaryLoader.
func (e *Engine) ActivateDictionaries() error {
	if e.dict == nullHandle {
		return nil
	}
	if rc := e.api.setDict(e.handle, e.dict); rc != dictNoError {
		return fmt.Errorf("activating dictionaries: native error %d", rc)
	}
	return nil
}

// Close implements engine.Engine. Deletes the dictionary set and the
// handle; the handle must not be used afterwards.
func (e *Engine) Close() error {
	if e.handle == nullHandle {
		return nil
	}
	if e.dict != nullHandle {
		e.api.deleteDict(e.handle, e.dict)
		e.dict = nullHandle
	}
	e.api.delete(e.handle)
	e.handle = nullHandle
	e.cb = nil
	return nil
}
