package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viavoice.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadDefaults tests a missing file yields pure defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 11025 {
		t.Errorf("SampleRate = %d, want 11025", cfg.SampleRate)
	}
	if cfg.Speed != Unset || cfg.Volume != Unset {
		t.Error("voice params should default to unset")
	}
}

// TestLoadDotconf tests key parsing, case insensitivity, comments and
// quoted paths.
func TestLoadDotconf(t *testing.T) {
	path := writeConf(t, `
# engine setup
ViaVoiceSampleRate 22050
viavoicedefaultvoice 2
VIAVOICESPEED 120
ViaVoicePitchBaseline 70
ViaVoiceMainDict "/usr/share/viavoice/main.dct"
ViaVoicePhrasePrediction 1
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", cfg.SampleRate)
	}
	if cfg.DefaultVoice != 2 {
		t.Errorf("DefaultVoice = %d, want 2", cfg.DefaultVoice)
	}
	if cfg.Speed != 120 {
		t.Errorf("Speed = %d, want 120", cfg.Speed)
	}
	if cfg.PitchBaseline != 70 {
		t.Errorf("PitchBaseline = %d, want 70", cfg.PitchBaseline)
	}
	if cfg.MainDict != "/usr/share/viavoice/main.dct" {
		t.Errorf("MainDict = %q", cfg.MainDict)
	}
	if cfg.PhrasePrediction != 1 {
		t.Errorf("PhrasePrediction = %d, want 1", cfg.PhrasePrediction)
	}
}

// TestLoadIgnoresInvalidValues tests out-of-range and malformed values
// leave the defaults intact rather than failing.
func TestLoadIgnoresInvalidValues(t *testing.T) {
	path := writeConf(t, `
ViaVoiceSampleRate 44100
ViaVoiceSpeed 9000
ViaVoiceVolume loud
ViaVoiceDefaultVoice 12
SomeUnknownKey 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SampleRate != 11025 {
		t.Errorf("SampleRate = %d, want default 11025", cfg.SampleRate)
	}
	if cfg.Speed != Unset {
		t.Errorf("Speed = %d, want unset", cfg.Speed)
	}
	if cfg.Volume != Unset {
		t.Errorf("Volume = %d, want unset", cfg.Volume)
	}
	if cfg.DefaultVoice != 0 {
		t.Errorf("DefaultVoice = %d, want default 0", cfg.DefaultVoice)
	}
}

// TestLoadRateCodes tests the native 0..2 rate codes map to
// frequencies.
func TestLoadRateCodes(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"0", 8000},
		{"1", 11025},
		{"2", 22050},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			cfg, err := Load(writeConf(t, "ViaVoiceSampleRate "+tt.code))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.SampleRate != tt.want {
				t.Errorf("SampleRate = %d, want %d", cfg.SampleRate, tt.want)
			}
		})
	}
}

// TestLoadEnvOverrides tests environment variables win over the file.
func TestLoadEnvOverrides(t *testing.T) {
	path := writeConf(t, "ViaVoiceSpeed 120\nViaVoiceSampleRate 8000\n")

	t.Setenv("SD_VIAVOICE_SPEED", "200")
	t.Setenv("SD_VIAVOICE_MAIN_DICT", "/tmp/main.dct")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Speed != 200 {
		t.Errorf("Speed = %d, want env override 200", cfg.Speed)
	}
	if cfg.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want file value 8000", cfg.SampleRate)
	}
	if cfg.MainDict != "/tmp/main.dct" {
		t.Errorf("MainDict = %q, want env value", cfg.MainDict)
	}
}
