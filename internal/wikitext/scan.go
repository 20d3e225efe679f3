package wikitext

import "unicode/utf8"

// Span is a top-level [[...]] link located in a text.
type Span struct {
	// Start and End are byte offsets into the scanned text (End exclusive).
	Start int
	End   int

	// Offset and Length count Unicode code points rather than bytes.
	Offset int
	Length int

	// Raw is the full literal including both bracket pairs.
	Raw string

	// Inner is Raw without the enclosing [[ and ]].
	Inner string
}

// ScanLinks returns every top-level link in text, left to right.
//
// Links nested inside another link's parameters are part of the outer span and
// are not reported separately. Unterminated or malformed links are skipped.
func ScanLinks(text string) []Span {
	if len(text) < 4 {
		return nil
	}

	match := MatchBrackets(text)

	var out []Span
	runeOffset := 0
	counted := 0 // byte position up to which runeOffset is valid

	for i := 0; i+1 < len(text); i++ {
		end, ok := linkEnd(text, match, i)
		if !ok {
			continue
		}

		runeOffset += utf8.RuneCountInString(text[counted:i])
		counted = i

		raw := text[i:end]
		out = append(out, Span{
			Start:  i,
			End:    end,
			Offset: runeOffset,
			Length: utf8.RuneCountInString(raw),
			Raw:    raw,
			Inner:  raw[2 : len(raw)-2],
		})

		// Resume after the link so spans never overlap.
		i = end - 1
	}

	return out
}

// linkEnd reports whether a link starts at byte i and returns its exclusive end.
func linkEnd(text string, match []int, i int) (int, bool) {
	if text[i] != '[' || text[i+1] != '[' {
		return 0, false
	}
	outer, inner := match[i], match[i+1]
	if outer < 0 || inner < 0 {
		return 0, false
	}
	// [[ ]] must close together, and the link needs some inner text.
	if outer != inner+1 || inner == i+2 {
		return 0, false
	}
	return outer + 1, true
}
