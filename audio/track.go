// Package audio holds the PCM track type shared by the synthesis
// pipeline and its output sinks, plus WAV encoding and playback.
package audio

import (
	"encoding/binary"
	"time"
)

// Track is one assembled utterance of linear PCM audio. The engine
// produces 16-bit signed mono, so Channels and Bits are fixed at
// construction and only Rate varies with engine configuration.
type Track struct {
	Samples  []int16 // Interleaved samples, borrowed from the collector
	Rate     int     // Samples per second
	Channels int
	Bits     int
}

// NewTrack wraps collected samples in the format the engine produces.
func NewTrack(samples []int16, rate int) Track {
	return Track{Samples: samples, Rate: rate, Channels: 1, Bits: 16}
}

// Empty reports whether the track carries no samples.
func (t Track) Empty() bool {
	return len(t.Samples) == 0
}

// Duration returns the playing time of the track.
func (t Track) Duration() time.Duration {
	if t.Rate <= 0 || t.Channels <= 0 {
		return 0
	}
	frames := len(t.Samples) / t.Channels
	return time.Duration(frames) * time.Second / time.Duration(t.Rate)
}

// Bytes returns the samples as little-endian PCM, the layout both the
// wire protocol and the WAV container use.
func (t Track) Bytes() []byte {
	b := make([]byte, len(t.Samples)*2)
	for i, s := range t.Samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return b
}
