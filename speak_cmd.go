package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/openspeechd/sd-viavoice/audio"
	"github.com/openspeechd/sd-viavoice/host"
	"github.com/openspeechd/sd-viavoice/synth"
)

var (
	speakOutput string
	speakRate   int
	speakPitch  int
	speakVolume int

	speakCmd = &cobra.Command{
		Use:     "speak [TEXT]",
		Short:   "Synthesize text once, to the speakers or a WAV file",
		Example: "sd-viavoice speak \"hello world\"\necho hello | sd-viavoice speak -o hello.wav",
		Args:    cobra.ArbitraryArgs,
		RunE:    runSpeak,
	}
)

func init() {
	speakCmd.Flags().StringVarP(&speakOutput, "output", "o", "", "write a WAV file instead of playing")
	speakCmd.Flags().IntVar(&speakRate, "rate", 0, "speaking rate, -100 to 100")
	speakCmd.Flags().IntVar(&speakPitch, "pitch", 0, "pitch, -100 to 100")
	speakCmd.Flags().IntVar(&speakVolume, "volume", 0, "volume, -100 to 100")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to speak: pass text as arguments or on stdin")
	}

	eng, cfg, rate, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	var output synth.Output
	if speakOutput != "" {
		output = wavFileOutput(speakOutput)
	} else {
		player, err := audio.NewPlayer(rate)
		if err != nil {
			return err
		}
		output = player
	}

	session := synth.NewSession(synth.SessionConfig{
		Engine:     eng,
		Reporter:   silentReporter{},
		Output:     output,
		Logger:     log.Default(),
		SampleRate: rate,
		Voice:      cfg.DefaultVoice,
	})
	if cmd.Flags().Changed("rate") {
		session.SetSpeed(host.MapRate(speakRate))
	}
	if cmd.Flags().Changed("pitch") {
		session.SetPitch(host.MapPitch(speakPitch))
	}
	if cmd.Flags().Changed("volume") {
		session.SetVolume(host.MapVolume(speakVolume))
	}

	return session.Speak(synth.Utterance{Text: []byte(text), Kind: synth.KindText})
}

// silentReporter drops events; one-shot mode has no dispatcher to
// notify.
type silentReporter struct{}

func (silentReporter) EventBegin() {}
func (silentReporter) EventEnd()   {}
func (silentReporter) EventStop()  {}
func (silentReporter) EventPause() {}

// wavFileOutput writes each delivered track to the named file.
type wavFileOutput string

func (p wavFileOutput) Play(t audio.Track) error {
	f, err := os.Create(string(p))
	if err != nil {
		return fmt.Errorf("creating %s: %w", p, err)
	}
	if err := audio.WriteWAV(f, t); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", p, err)
	}
	log.Info("wrote audio", "path", string(p), "duration", t.Duration())
	return nil
}
