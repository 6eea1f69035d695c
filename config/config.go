// Package config reads the module's engine configuration. The primary
// source is viavoice.conf in the host's dotconf dialect; values may be
// overridden through SD_VIAVOICE_* environment variables.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
)

// Unset marks an integer setting the user did not configure; unset
// engine parameters are left at the engine's built-in defaults.
const Unset = -1

// Config holds every engine setting the module accepts.
type Config struct {
	SampleRate       int    `env:"SD_VIAVOICE_SAMPLE_RATE"`
	DefaultVoice     int    `env:"SD_VIAVOICE_DEFAULT_VOICE"`
	Speed            int    `env:"SD_VIAVOICE_SPEED"`
	PitchBaseline    int    `env:"SD_VIAVOICE_PITCH_BASELINE"`
	PitchFluctuation int    `env:"SD_VIAVOICE_PITCH_FLUCTUATION"`
	Volume           int    `env:"SD_VIAVOICE_VOLUME"`
	HeadSize         int    `env:"SD_VIAVOICE_HEAD_SIZE"`
	Roughness        int    `env:"SD_VIAVOICE_ROUGHNESS"`
	Breathiness      int    `env:"SD_VIAVOICE_BREATHINESS"`
	MainDict         string `env:"SD_VIAVOICE_MAIN_DICT"`
	RootDict         string `env:"SD_VIAVOICE_ROOT_DICT"`
	AbbrevDict       string `env:"SD_VIAVOICE_ABBREV_DICT"`
	PhrasePrediction int    `env:"SD_VIAVOICE_PHRASE_PREDICTION"`
	NumberMode       int    `env:"SD_VIAVOICE_NUMBER_MODE"`
	TextMode         int    `env:"SD_VIAVOICE_TEXT_MODE"`
	RealWorldUnits   int    `env:"SD_VIAVOICE_REAL_WORLD_UNITS"`
}

// Default returns a config with every setting unset except the sample
// rate, which the engine needs before synthesis.
func Default() Config {
	return Config{
		SampleRate:       11025,
		DefaultVoice:     0,
		Speed:            Unset,
		PitchBaseline:    Unset,
		PitchFluctuation: Unset,
		Volume:           Unset,
		HeadSize:         Unset,
		Roughness:        Unset,
		Breathiness:      Unset,
		PhrasePrediction: Unset,
		NumberMode:       Unset,
		TextMode:         Unset,
		RealWorldUnits:   Unset,
	}
}

// Load builds the effective config: defaults, then the dotconf file if
// present, then environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err == nil {
			path = expanded
		}
		f, err := os.Open(path)
		switch {
		case os.IsNotExist(err):
			log.Debug("no engine config file", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("opening %s: %w", path, err)
		default:
			defer f.Close() //nolint:errcheck
			parseDotconf(&cfg, f)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("environment overrides: %w", err)
	}
	return cfg, nil
}

// parseDotconf applies `Key value` lines to cfg. Keys are matched
// case-insensitively; out-of-range values are logged and ignored, as
// the host does for its own module configs.
func parseDotconf(cfg *Config, f *os.File) {
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		applyLine(cfg, scanner.Text(), line)
	}
}

// applyLine handles one dotconf line.
func applyLine(cfg *Config, raw string, line int) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return
	}

	key, value, ok := strings.Cut(text, " ")
	if !ok {
		key, value, ok = strings.Cut(text, "\t")
	}
	if !ok {
		log.Warn("ignoring config line without a value", "line", line, "text", text)
		return
	}
	value = strings.Trim(strings.TrimSpace(value), `"`)

	switch strings.ToLower(key) {
	case "viavoicesamplerate":
		setRate(cfg, value, line)
	case "viavoicedefaultvoice":
		setInt(&cfg.DefaultVoice, value, 0, 7, line)
	case "viavoicespeed":
		setInt(&cfg.Speed, value, 0, 250, line)
	case "viavoicepitchbaseline":
		setInt(&cfg.PitchBaseline, value, 0, 100, line)
	case "viavoicepitchfluctuation":
		setInt(&cfg.PitchFluctuation, value, 0, 100, line)
	case "viavoicevolume":
		setInt(&cfg.Volume, value, 0, 100, line)
	case "viavoiceheadsize":
		setInt(&cfg.HeadSize, value, 0, 100, line)
	case "viavoiceroughness":
		setInt(&cfg.Roughness, value, 0, 100, line)
	case "viavoicebreathiness":
		setInt(&cfg.Breathiness, value, 0, 100, line)
	case "viavoicemaindict":
		cfg.MainDict = value
	case "viavoicerootdict":
		cfg.RootDict = value
	case "viavoiceabbrevdict":
		cfg.AbbrevDict = value
	case "viavoicephraseprediction":
		setInt(&cfg.PhrasePrediction, value, 0, 1, line)
	case "viavoicenumbermode":
		setInt(&cfg.NumberMode, value, 0, 1, line)
	case "viavoicetextmode":
		setInt(&cfg.TextMode, value, 0, 3, line)
	case "viavoicerealworldunits":
		setInt(&cfg.RealWorldUnits, value, 0, 1, line)
	default:
		log.Debug("ignoring unknown config key", "line", line, "key", key)
	}
}

// setRate accepts a frequency in Hz or a native rate code 0..2.
func setRate(cfg *Config, value string, line int) {
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("ignoring non-numeric sample rate", "line", line, "value", value)
		return
	}
	switch n {
	case 8000, 11025, 22050:
		cfg.SampleRate = n
	case 0:
		cfg.SampleRate = 8000
	case 1:
		cfg.SampleRate = 11025
	case 2:
		cfg.SampleRate = 22050
	default:
		log.Warn("ignoring unsupported sample rate", "line", line, "value", n)
	}
}

// setInt stores value into dst when it parses and falls inside
// [min, max].
func setInt(dst *int, value string, min, max, line int) {
	n, err := strconv.Atoi(value)
	if err != nil || n < min || n > max {
		log.Warn("ignoring out-of-range config value",
			"line", line, "value", value, "min", min, "max", max)
		return
	}
	*dst = n
}
