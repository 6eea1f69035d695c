package synth

import "bytes"

// xmlEntities lists the named entities the host may encode in SSML text.
// Matching is exact and case-sensitive; anything else passes through.
var xmlEntities = []struct {
	name []byte
	ch   byte
}{
	{[]byte("&amp;"), '&'},
	{[]byte("&lt;"), '<'},
	{[]byte("&gt;"), '>'},
	{[]byte("&apos;"), '\''},
	{[]byte("&quot;"), '"'},
}

// StripMarkup removes inline tag spans from text and decodes the fixed
// set of named XML entities. Everything from a '<' to the next '>' is
// dropped, inclusive; a stray '<' with no closing '>' suppresses the rest
// of the input. The result is trimmed of leading and trailing ASCII
// whitespace and never aliases the input buffer.
func StripMarkup(text []byte) []byte {
	out := make([]byte, 0, len(text))

	inTag := false
	for _, c := range text {
		switch {
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case !inTag:
			out = append(out, c)
		}
	}

	out = decodeEntities(out)
	return bytes.Trim(out, " \t\n")
}

// decodeEntities rewrites recognized &name; sequences in place.
// Unrecognized sequences are copied through unchanged.
func decodeEntities(text []byte) []byte {
	dst := text[:0]
	for i := 0; i < len(text); {
		if text[i] != '&' {
			dst = append(dst, text[i])
			i++
			continue
		}
		matched := false
		for _, e := range xmlEntities {
			if bytes.HasPrefix(text[i:], e.name) {
				dst = append(dst, e.ch)
				i += len(e.name)
				matched = true
				break
			}
		}
		if !matched {
			dst = append(dst, text[i])
			i++
		}
	}
	return dst
}
