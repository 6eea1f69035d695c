package synth

// Sanitize rewrites text into the ASCII subset the engine pronounces
// reliably. Safe characters pass through, clause-break punctuation
// becomes a comma attached to the preceding word, a few currency
// symbols become English words and everything else becomes a space.
// The engine predates UTF-8, so multi-byte sequences never survive.
func Sanitize(text []byte) []byte {
	// Each clause break can expand to ", " so output is at most 2x input.
	out := make([]byte, 0, len(text)*2)

	for i := 0; i < len(text); {
		c := text[i]

		if c < 0x80 {
			if isSafe(c) {
				out = append(out, c)
				i++
				continue
			}

			if isClauseBreak(c) {
				out = appendClauseBreak(out)
				i = skipOrphans(text, i+1)
				continue
			}

			out = append(out, ' ')
			i++
			continue
		}

		seqlen := 2
		switch {
		case c >= 0xF0:
			seqlen = 4
		case c >= 0xE0:
			seqlen = 3
		}

		// Only presence is validated, not continuation bits. A NUL or
		// end of input inside the window skips the lead byte alone.
		if !complete(text, i, seqlen) {
			i++
			continue
		}

		if seqlen == 2 && c == 0xC2 {
			var word string
			switch text[i+1] {
			case 0xA3:
				word = "pound"
			case 0xA2:
				word = "cent"
			case 0xA5:
				word = "yen"
			}
			if word != "" {
				out = append(out, word...)
				i += 2
				continue
			}
		}

		if seqlen == 3 && c == 0xE2 && text[i+1] == 0x82 && text[i+2] == 0xAC {
			out = append(out, "euro"...)
			i += 3
			continue
		}

		// Em-dash and en-dash break clauses like semicolons do.
		if seqlen == 3 && c == 0xE2 && text[i+1] == 0x80 &&
			(text[i+2] == 0x94 || text[i+2] == 0x93) {
			out = appendClauseBreak(out)
			i = skipOrphans(text, i+3)
			continue
		}

		out = append(out, ' ')
		i += seqlen
	}

	return out
}

// isSafe reports whether c passes through the sanitizer unchanged.
func isSafe(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == ' ' || c == '\t' || c == '\n' ||
		c == '.' || c == ',' || c == '!' || c == '?' ||
		c == '$' || c == '\''
}

// isClauseBreak reports whether c separates clauses and should be
// spoken as a comma pause.
func isClauseBreak(c byte) bool {
	switch c {
	case ';', ':', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// appendClauseBreak attaches a comma to the preceding word. Trailing
// blanks are trimmed first; with no preceding content the comma is
// omitted. A single space always follows.
func appendClauseBreak(out []byte) []byte {
	for len(out) > 0 && (out[len(out)-1] == ' ' || out[len(out)-1] == '\t') {
		out = out[:len(out)-1]
	}
	if len(out) > 0 {
		out = append(out, ',')
	}
	return append(out, ' ')
}

// skipOrphans advances past punctuation that would be left isolated
// after a clause-break substitution, then past following blanks.
func skipOrphans(text []byte, i int) int {
	for i < len(text) && isOrphan(text[i]) {
		i++
	}
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

func isOrphan(c byte) bool {
	switch c {
	case '.', ',', '!', '?', ';', ':':
		return true
	}
	return false
}

// complete reports whether a full seqlen-byte sequence starting at i is
// present with no interior NUL.
func complete(text []byte, i, seqlen int) bool {
	if i+seqlen > len(text) {
		return false
	}
	for j := 1; j < seqlen; j++ {
		if text[i+j] == 0 {
			return false
		}
	}
	return true
}
