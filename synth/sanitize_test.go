package synth

import (
	"bytes"
	"strings"
	"testing"
)

// TestSanitize tests the rewrite rules on representative inputs.
func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "safe characters pass through",
			input:    "Hello, world! It's $5.\n",
			expected: "Hello, world! It's $5.\n",
		},
		{
			name:     "semicolon becomes attached comma",
			input:    "wait; really?",
			expected: "wait, really?",
		},
		{
			name:     "colon becomes attached comma",
			input:    "note: this",
			expected: "note, this",
		},
		{
			name:     "leading clause break drops the comma",
			input:    "(aside)",
			expected: " aside, ",
		},
		{
			name:     "trailing whitespace trimmed before comma",
			input:    "word  ; next",
			expected: "word, next",
		},
		{
			name:     "orphaned punctuation after break skipped",
			input:    "(see below).next",
			expected: " see below, next",
		},
		{
			name:     "pound sign",
			input:    "£5",
			expected: "pound5",
		},
		{
			name:     "cent sign",
			input:    "50¢",
			expected: "50cent",
		},
		{
			name:     "yen sign",
			input:    "¥100",
			expected: "yen100",
		},
		{
			name:     "euro sign",
			input:    "€9",
			expected: "euro9",
		},
		{
			name:     "em dash breaks clause",
			input:    "one—two",
			expected: "one, two",
		},
		{
			name:     "en dash breaks clause",
			input:    "2019–2021",
			expected: "2019, 2021",
		},
		{
			name:     "other ascii becomes space",
			input:    "a*b#c",
			expected: "a b c",
		},
		{
			name:     "multibyte sequence becomes one space",
			input:    "a日b",
			expected: "a b",
		},
		{
			name:     "accented letter becomes space",
			input:    "héllo",
			expected: "h llo",
		},
		{
			name:     "incomplete trailing sequence dropped",
			input:    "caf\xc3",
			expected: "caf",
		},
		{
			name:     "nul inside sequence skips lead byte only",
			input:    "a\xc3\x00b",
			expected: "a b",
		},
		{
			name:     "stripped markup example",
			input:    "Hello world! Price: £3.50",
			expected: "Hello world! Price, pound3.50",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sanitize([]byte(tt.input))
			if string(result) != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestSanitizeOutputAlwaysSafe verifies no byte outside the safe set
// plus space survives sanitization.
func TestSanitizeOutputAlwaysSafe(t *testing.T) {
	inputs := []string{
		"mixed: text; with (lots) [of] {junk} £€日",
		"\x01\x02\x7f~`@#%^&*_+=|\\<>/\"-",
		"caf\xc3\xa9 and broken \xe2\x82",
	}

	for _, input := range inputs {
		result := Sanitize([]byte(input))
		for _, c := range result {
			if !isSafe(c) {
				t.Errorf("Sanitize(%q) emitted unsafe byte %#x in %q", input, c, result)
			}
		}
	}
}

// TestSanitizeFixedPointOnASCII verifies re-sanitizing sanitized text
// returns it unchanged.
func TestSanitizeFixedPointOnASCII(t *testing.T) {
	inputs := []string{
		"wait; really?",
		"Hello world! Price: £3.50",
		"(aside) one—two",
	}

	for _, input := range inputs {
		once := Sanitize([]byte(input))
		twice := Sanitize(once)
		if !bytes.Equal(once, twice) {
			t.Errorf("Sanitize not a fixed point on %q: %q then %q", input, once, twice)
		}
	}
}

// TestSanitizeGrowth verifies comma expansion never truncates on
// clause-break heavy input.
func TestSanitizeGrowth(t *testing.T) {
	input := strings.Repeat("a;", 1000)
	result := Sanitize([]byte(input))
	if !strings.HasPrefix(string(result), "a, a, ") {
		t.Fatalf("unexpected prefix %q", result[:12])
	}
	if got, want := len(result), 3+3*999; got != want {
		t.Errorf("Sanitize length = %d, want %d", got, want)
	}
}
