package host

import "testing"

// TestMapRate tests dispatcher rate to engine speed conversion.
func TestMapRate(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-100, 0},
		{0, 125},
		{100, 250},
		{-150, 0},
		{999, 250},
		{50, 187},
	}

	for _, tt := range tests {
		if got := MapRate(tt.in); got != tt.want {
			t.Errorf("MapRate(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestMapPitch tests dispatcher pitch to engine baseline conversion.
func TestMapPitch(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-100, 0},
		{0, 50},
		{100, 100},
		{-200, 0},
		{200, 100},
	}

	for _, tt := range tests {
		if got := MapPitch(tt.in); got != tt.want {
			t.Errorf("MapPitch(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestMapVolume tests dispatcher volume conversion.
func TestMapVolume(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-100, 0},
		{0, 50},
		{100, 100},
	}

	for _, tt := range tests {
		if got := MapVolume(tt.in); got != tt.want {
			t.Errorf("MapVolume(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
