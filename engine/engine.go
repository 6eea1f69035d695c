// Package engine defines the contract a ViaVoice style synthesis
// engine must satisfy. The real binding lives in engine/viavoice; a
// scripted implementation for tests lives in engine/mock.
package engine

// Message identifies why the engine invoked the callback. Only the
// waveform message carries audio; the index messages exist in the
// native API but are not requested by this module.
type Message int

const (
	// WaveformBuffer reports freshly synthesized samples in the
	// registered output buffer.
	WaveformBuffer Message = iota
	// PhonemeBuffer reports phoneme data (unused).
	PhonemeBuffer
	// IndexReply reports an index mark (unused).
	IndexReply
	// PhonemeIndexReply reports a phoneme index mark (unused).
	PhonemeIndexReply
)

// CallbackResult tells the engine whether to keep producing.
type CallbackResult int

const (
	// DataNotProcessed refuses the data; the engine stops producing
	// for this synthesis call.
	DataNotProcessed CallbackResult = iota
	// DataProcessed accepts the data and asks for more.
	DataProcessed
)

// Callback receives engine messages during a blocking synthesis call.
// For WaveformBuffer the samples slice views the engine's scratch
// buffer, which is reused after the callback returns.
type Callback func(msg Message, samples []int16) CallbackResult

// Param identifies an engine-wide parameter.
type Param int

const (
	ParamSynthMode       Param = 0
	ParamInputType       Param = 1
	ParamTextMode        Param = 2
	ParamDictionary      Param = 3
	ParamSampleRate      Param = 5
	ParamWantPhonemes    Param = 7
	ParamRealWorldUnits  Param = 8
	ParamLanguageDialect Param = 9
	ParamNumberMode      Param = 10
	ParamPhrasePredict   Param = 11
)

// VoiceParam identifies a per-voice parameter.
type VoiceParam int

const (
	VoiceGender           VoiceParam = 0
	VoiceHeadSize         VoiceParam = 1
	VoicePitchBaseline    VoiceParam = 2
	VoicePitchFluctuation VoiceParam = 3
	VoiceRoughness        VoiceParam = 4
	VoiceBreathiness      VoiceParam = 5
	VoiceSpeed            VoiceParam = 6
	VoiceVolume           VoiceParam = 7
)

// Sample rate codes accepted by ParamSampleRate.
const (
	Rate8kHz  = 0
	Rate11kHz = 1
	Rate22kHz = 2
)

// SampleRateHz maps a rate code to its frequency, or 0 if unknown.
func SampleRateHz(code int) int {
	switch code {
	case Rate8kHz:
		return 8000
	case Rate11kHz:
		return 11025
	case Rate22kHz:
		return 22050
	}
	return 0
}

// RateCode maps a frequency to its rate code, or -1 if unsupported.
func RateCode(hz int) int {
	switch hz {
	case 8000:
		return Rate8kHz
	case 11025:
		return Rate11kHz
	case 22050:
		return Rate22kHz
	}
	return -1
}

// PresetVoices names the engine's built-in voices, indexed by the
// preset number the native API uses (1-based; voice 0 is the active
// working voice presets are copied into).
var PresetVoices = [8]string{
	"Wade", "Flo", "Bobbie", "Male2", "Male3", "Female2", "Grandma", "Grandpa",
}

// Engine is a handle-based synthesis session. Boolean returns mirror
// the native API: false means the call was rejected. One synthesis
// call is active at a time per instance; the callback runs on the
// engine's own thread during Synthesize and Synchronize.
type Engine interface {
	// RegisterCallback installs the fragment callback and the shared
	// output buffer it reads from.
	RegisterCallback(cb Callback)

	// AddText appends sanitized text to the engine's input.
	AddText(text string) bool

	// Synthesize starts synthesizing the accumulated text.
	Synthesize() bool

	// Synchronize blocks until the active synthesis finishes or is
	// stopped.
	Synchronize() bool

	// Stop aborts an in-progress synthesis. Advisory; fragments may
	// still arrive afterwards.
	Stop() bool

	// Speaking reports whether a synthesis is in progress.
	Speaking() bool

	// SetParam sets an engine parameter, returning the previous value
	// or -1 on failure.
	SetParam(p Param, v int) int

	// GetParam reads an engine parameter, or -1 on failure.
	GetParam(p Param) int

	// SetVoiceParam sets a parameter on the given voice, returning
	// the previous value or -1 on failure.
	SetVoiceParam(voice int, p VoiceParam, v int) int

	// GetVoiceParam reads a parameter from the given voice.
	GetVoiceParam(voice int, p VoiceParam) int

	// CopyVoice copies a preset voice into the active voice slot.
	CopyVoice(from, to int) bool

	// Close releases the engine handle.
	Close() error
}

// DictionaryLoader is implemented by engines that support user
// dictionaries. Loading failures are reported per dictionary kind and
// are not fatal.
type DictionaryLoader interface {
	LoadDictionary(kind DictKind, path string) error
	ActivateDictionaries() error
}

// DictKind identifies a dictionary slot in the native API.
type DictKind int

const (
	// MainDict holds ordinary word pronunciations.
	MainDict DictKind = 0
	// RootDict holds word root pronunciations.
	RootDict DictKind = 1
	// AbbrevDict holds abbreviation expansions.
	AbbrevDict DictKind = 2
)
