package synth

// MessageKind classifies an utterance the host asks us to speak.
type MessageKind int

const (
	// KindText is ordinary running text.
	KindText MessageKind = iota
	// KindChar is a single character to be spoken literally.
	KindChar
	// KindKey is a keyboard key name.
	KindKey
	// KindSoundIcon is a sound icon label.
	KindSoundIcon
)

// String returns the string representation of the kind.
func (k MessageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChar:
		return "char"
	case KindKey:
		return "key"
	case KindSoundIcon:
		return "sound icon"
	default:
		return "unknown"
	}
}

// Sanitized reports whether utterances of this kind pass through the
// sanitizer. Characters and key names must reach the engine unmodified
// so it can speak the literal symbol.
func (k MessageKind) Sanitized() bool {
	return k == KindText || k == KindSoundIcon
}

// Utterance is one speak request from the host.
type Utterance struct {
	Text []byte      // Raw text, markup included
	Kind MessageKind // How the host wants it spoken
}
