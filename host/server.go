package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/openspeechd/sd-viavoice/synth"
)

// Speaker is the slice of synth.Session the server drives. Split out
// so server tests can run against a stub.
type Speaker interface {
	Prepare(u synth.Utterance) error
	Synthesize() error
	Stop()
	Pause()
	SetSpeed(v int)
	SetPitch(v int)
	SetVolume(v int)
}

// Server runs the dispatcher's module protocol on a stdio pair. One
// command is processed at a time; synthesis runs on a worker goroutine
// so STOP and PAUSE stay responsive mid-utterance.
type Server struct {
	in     *bufio.Scanner
	out    io.Writer
	outMu  sync.Mutex
	logger *log.Logger

	speaker Speaker
	voice   string
	wg      sync.WaitGroup
}

// NewServer wires a server to its streams and speaker. voice is the
// name reported by LIST VOICES.
func NewServer(in io.Reader, out io.Writer, speaker Speaker, voice string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
		speaker: speaker,
		voice:   voice,
	}
}

// SetSpeaker installs the speaker after construction. The server and
// the session reference each other (the session reports events through
// the server), so one side has to be wired late.
func (s *Server) SetSpeaker(sp Speaker) {
	s.speaker = sp
}

// Run processes commands until QUIT or stream end. A write failure
// means the dispatcher is gone, which also ends the loop.
func (s *Server) Run() error {
	defer s.wg.Wait()

	for s.in.Scan() {
		line := strings.TrimRight(s.in.Text(), "\r\n")
		cmd, arg, _ := strings.Cut(line, " ")

		var err error
		switch strings.ToUpper(cmd) {
		case "INIT":
			err = s.handleInit()
		case "SPEAK":
			err = s.handleSpeak(synth.KindText)
		case "CHAR":
			err = s.handleSpeak(synth.KindChar)
		case "KEY":
			err = s.handleSpeak(synth.KindKey)
		case "SOUND_ICON":
			err = s.handleSpeak(synth.KindSoundIcon)
		case "SET":
			err = s.handleSet()
		case "AUDIO":
			err = s.handleAudio()
		case "LOGLEVEL":
			err = s.handleLogLevel()
		case "STOP":
			s.speaker.Stop()
		case "PAUSE":
			s.speaker.Pause()
		case "LIST":
			if strings.EqualFold(arg, "VOICES") {
				err = s.handleListVoices()
			} else {
				err = s.writeLine("300 ERR UNKNOWN COMMAND")
			}
		case "QUIT":
			s.writeLine("210 OK QUIT") //nolint:errcheck
			return nil
		case "":
			// Keepalive newline.
		default:
			s.logger.Warn("unknown command", "cmd", cmd)
			err = s.writeLine("300 ERR UNKNOWN COMMAND")
		}
		if err != nil {
			return fmt.Errorf("command %q: %w", cmd, err)
		}
	}
	return s.in.Err()
}

func (s *Server) handleInit() error {
	if err := s.writeLine("299-ViaVoice: Initialized successfully."); err != nil {
		return err
	}
	return s.writeLine("299 OK LOADED SUCCESSFULLY")
}

// handleSpeak reads the dot-terminated data block and starts one
// synthesis. The prepared/empty decision is reported synchronously;
// the engine work runs on the worker goroutine.
func (s *Server) handleSpeak(kind synth.MessageKind) error {
	if err := s.writeLine("202 OK RECEIVING MESSAGE"); err != nil {
		return err
	}

	text, err := s.readDataBlock()
	if err != nil {
		return err
	}

	// Finish the previous utterance before touching the session.
	s.wg.Wait()

	if err := s.speaker.Prepare(synth.Utterance{Text: text, Kind: kind}); err != nil {
		if !errors.Is(err, synth.ErrNothingToSpeak) {
			s.logger.Error("prepare failed", "err", err)
		}
		return s.writeLine("301 ERROR CANT SPEAK")
	}

	if err := s.writeLine("200 OK SPEAKING"); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.speaker.Synthesize(); err != nil && !errors.Is(err, synth.ErrCancelled) {
			s.logger.Error("synthesis failed", "err", err)
		}
	}()
	return nil
}

// handleSet applies key=value settings from the data block. Only the
// prosody keys matter; the voice is fixed by configuration, so voice
// and language changes are accepted and ignored.
func (s *Server) handleSet() error {
	if err := s.writeLine("203 OK RECEIVING SETTINGS"); err != nil {
		return err
	}

	block, err := s.readDataBlock()
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(block), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, numErr := strconv.Atoi(value)
		switch key {
		case "rate":
			if numErr == nil {
				s.speaker.SetSpeed(MapRate(n))
			}
		case "pitch":
			if numErr == nil {
				s.speaker.SetPitch(MapPitch(n))
			}
		case "volume":
			if numErr == nil {
				s.speaker.SetVolume(MapVolume(n))
			}
		case "voice", "synthesis_voice", "language":
			s.logger.Debug("ignoring voice setting", "key", key, "value", value)
		}
	}

	return s.writeLine("203 OK SETTINGS RECEIVED")
}

func (s *Server) handleAudio() error {
	if err := s.writeLine("207 OK RECEIVING AUDIO SETTINGS"); err != nil {
		return err
	}
	// Audio goes back over this connection; the settings block is
	// consumed for protocol compatibility.
	if _, err := s.readDataBlock(); err != nil {
		return err
	}
	return s.writeLine("203 OK AUDIO INITIALIZED")
}

func (s *Server) handleLogLevel() error {
	if err := s.writeLine("207 OK RECEIVING LOGLEVEL SETTINGS"); err != nil {
		return err
	}
	block, err := s.readDataBlock()
	if err != nil {
		return err
	}
	if _, value, ok := strings.Cut(strings.TrimSpace(string(block)), "="); ok {
		if n, err := strconv.Atoi(value); err == nil {
			s.logger.SetLevel(spdLogLevel(n))
		}
	}
	return s.writeLine("203 OK LOG LEVEL SET")
}

func (s *Server) handleListVoices() error {
	if err := s.writeLine(fmt.Sprintf("200-%s en-US none", s.voice)); err != nil {
		return err
	}
	return s.writeLine("200 OK VOICE LIST SENT")
}

// readDataBlock consumes lines up to the lone "." terminator. A
// leading ".." escapes a literal dot line.
func (s *Server) readDataBlock() ([]byte, error) {
	var b strings.Builder
	for s.in.Scan() {
		line := strings.TrimRight(s.in.Text(), "\r\n")
		if line == "." {
			text := b.String()
			return []byte(strings.TrimSuffix(text, "\n")), nil
		}
		if strings.HasPrefix(line, "..") {
			line = line[1:]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := s.in.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// writeLine emits one protocol line. Events and replies share the
// stream, so writes are serialized.
func (s *Server) writeLine(line string) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	_, err := fmt.Fprintf(s.out, "%s\n", line)
	return err
}

// writeBlock emits several lines under one lock acquisition so nothing
// interleaves inside a multi-line frame.
func (s *Server) writeBlock(lines []string) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	for _, line := range lines {
		if _, err := fmt.Fprintf(s.out, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// spdLogLevel maps the dispatcher's 0..5 log levels onto ours.
func spdLogLevel(n int) log.Level {
	switch {
	case n <= 0:
		return log.FatalLevel
	case n == 1:
		return log.ErrorLevel
	case n == 2:
		return log.WarnLevel
	case n == 3:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// Event reporting. The session calls these from its worker goroutine.

// EventBegin implements synth.Reporter.
func (s *Server) EventBegin() { s.writeLine("701 BEGIN") } //nolint:errcheck

// EventEnd implements synth.Reporter.
func (s *Server) EventEnd() { s.writeLine("702 END") } //nolint:errcheck

// EventStop implements synth.Reporter.
func (s *Server) EventStop() { s.writeLine("703 STOP") } //nolint:errcheck

// EventPause implements synth.Reporter.
func (s *Server) EventPause() { s.writeLine("704 PAUSE") } //nolint:errcheck
