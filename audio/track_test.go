package audio

import (
	"bytes"
	"testing"
	"time"
)

// TestTrackBytes tests little-endian sample encoding.
func TestTrackBytes(t *testing.T) {
	track := NewTrack([]int16{0, 1, -1, 256, -32768}, 11025)

	want := []byte{
		0x00, 0x00,
		0x01, 0x00,
		0xff, 0xff,
		0x00, 0x01,
		0x00, 0x80,
	}
	if got := track.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

// TestTrackDuration tests playing time from sample count and rate.
func TestTrackDuration(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		rate    int
		want    time.Duration
	}{
		{"one second at 11025", 11025, 11025, time.Second},
		{"half second at 22050", 11025, 22050, 500 * time.Millisecond},
		{"empty track", 0, 11025, 0},
		{"zero rate", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewTrack(make([]int16, tt.samples), tt.rate)
			if got := track.Duration(); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestWriteWAV tests the RIFF header fields and payload placement.
func TestWriteWAV(t *testing.T) {
	track := NewTrack([]int16{1, 2, 3, 4}, 22050)

	var buf bytes.Buffer
	if err := WriteWAV(&buf, track); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	b := buf.Bytes()
	if len(b) != 44+8 {
		t.Fatalf("wav length = %d, want 52", len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	if string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		t.Error("missing fmt/data chunks")
	}
	// Sample rate at offset 24, little endian.
	if rate := int(b[24]) | int(b[25])<<8 | int(b[26])<<16 | int(b[27])<<24; rate != 22050 {
		t.Errorf("header rate = %d, want 22050", rate)
	}
	if dataLen := int(b[40]) | int(b[41])<<8; dataLen != 8 {
		t.Errorf("data chunk length = %d, want 8", dataLen)
	}
	if !bytes.Equal(b[44:], track.Bytes()) {
		t.Error("payload differs from track bytes")
	}
}

// TestWriteWAVRejectsBadFormat tests unsupported formats error out.
func TestWriteWAVRejectsBadFormat(t *testing.T) {
	track := Track{Samples: []int16{1}, Rate: 0, Channels: 1, Bits: 16}
	if err := WriteWAV(&bytes.Buffer{}, track); err == nil {
		t.Error("WriteWAV() accepted a zero sample rate")
	}
}
