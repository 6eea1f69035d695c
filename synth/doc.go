// Package synth implements the text normalization and audio assembly
// pipeline that sits between the speech-dispatcher host and the legacy
// ViaVoice engine: markup stripping, ASCII sanitization, callback-driven
// sample collection and the per-utterance synthesis state machine.
package synth
