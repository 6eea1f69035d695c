package audio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// Player plays tracks on the local sound device. Used by the one-shot
// speak command; the module protocol sends audio to the dispatcher
// instead. The underlying context is process-wide and fixed to one
// format, so the sample rate is locked at construction.
type Player struct {
	ctx  *oto.Context
	rate int
}

// NewPlayer opens the audio device for 16-bit mono at the given rate.
// Blocks until the device is ready.
func NewPlayer(rate int) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	return &Player{ctx: ctx, rate: rate}, nil
}

// Play implements the synthesis output contract: it blocks until the
// track has finished playing.
func (p *Player) Play(t Track) error {
	if t.Empty() {
		return nil
	}
	if t.Rate != p.rate {
		return fmt.Errorf("track rate %d does not match device rate %d", t.Rate, p.rate)
	}

	log.Debug("playing", "duration", t.Duration(), "samples", len(t.Samples))

	player := p.ctx.NewPlayer(bytes.NewReader(t.Bytes()))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
