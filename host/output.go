package host

import (
	"encoding/base64"
	"fmt"

	"github.com/openspeechd/sd-viavoice/audio"
)

// base64 payload line width.
const audioLineWidth = 76

// ServerOutput streams completed utterances back to the dispatcher as
// a framed block on the protocol stream: a header line with the track
// geometry, base64 PCM payload lines, and a closing status line.
type ServerOutput struct {
	s *Server
}

// NewServerOutput creates the protocol-stream audio sink for s.
func NewServerOutput(s *Server) *ServerOutput {
	return &ServerOutput{s: s}
}

// Play implements synth.Output. The whole frame goes out under one
// lock acquisition so events never interleave with payload lines.
func (o *ServerOutput) Play(t audio.Track) error {
	encoded := base64.StdEncoding.EncodeToString(t.Bytes())

	lines := make([]string, 0, len(encoded)/audioLineWidth+3)
	lines = append(lines, fmt.Sprintf("705-BEGIN %d %d %d %d",
		len(t.Samples), t.Rate, t.Channels, t.Bits))
	for start := 0; start < len(encoded); start += audioLineWidth {
		end := start + audioLineWidth
		if end > len(encoded) {
			end = len(encoded)
		}
		lines = append(lines, "705-"+encoded[start:end])
	}
	lines = append(lines, "705 OK AUDIO")

	if err := o.s.writeBlock(lines); err != nil {
		return fmt.Errorf("writing audio frame: %w", err)
	}
	return nil
}
