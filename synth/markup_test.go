package synth

import (
	"bytes"
	"testing"
)

// TestStripMarkup tests tag removal, entity decoding and trimming.
func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "simple tag pair removed",
			input:    "<b>hi</b> there",
			expected: "hi there",
		},
		{
			name:     "attributes removed with tag",
			input:    `<speak rate="fast">quick</speak>`,
			expected: "quick",
		},
		{
			name:     "stray open bracket suppresses remainder",
			input:    "before <unterminated after",
			expected: "before",
		},
		{
			name:     "stray close bracket passes nothing extra",
			input:    "a > b",
			expected: "a  b",
		},
		{
			name:     "amp entity",
			input:    "a &amp; b",
			expected: "a & b",
		},
		{
			name:     "lt and gt entities",
			input:    "&lt;tag&gt;",
			expected: "<tag>",
		},
		{
			name:     "apos and quot entities",
			input:    "&apos;x&quot;",
			expected: `'x"`,
		},
		{
			name:     "unknown entity passes through",
			input:    "&copy; 2024",
			expected: "&copy; 2024",
		},
		{
			name:     "uppercase entity not decoded",
			input:    "&AMP;",
			expected: "&AMP;",
		},
		{
			name:     "whitespace trimmed",
			input:    " \t\nspoken\n\t ",
			expected: "spoken",
		},
		{
			name:     "tags only yields empty",
			input:    "<tag></tag>",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripMarkup([]byte(tt.input))
			if string(result) != tt.expected {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestStripMarkupIdempotent verifies strip(strip(x)) == strip(x).
func TestStripMarkupIdempotent(t *testing.T) {
	inputs := []string{
		"hello world",
		"<b>hi</b> there",
		"a &amp; b",
		"  padded  ",
		"&copy; unknown",
	}

	for _, input := range inputs {
		once := StripMarkup([]byte(input))
		twice := StripMarkup(once)
		if !bytes.Equal(once, twice) {
			t.Errorf("StripMarkup not idempotent on %q: %q then %q", input, once, twice)
		}
	}
}

// TestStripMarkupNoAlias verifies the result never shares storage with
// the input.
func TestStripMarkupNoAlias(t *testing.T) {
	input := []byte("hello")
	result := StripMarkup(input)
	input[0] = 'X'
	if string(result) != "hello" {
		t.Errorf("StripMarkup result aliases input: got %q", result)
	}
}
