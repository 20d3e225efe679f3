package wikitext

// SplitSegments splits a link's inner text on top-level pipes.
//
// Pipes inside a matched [...] or [[...]] group belong to that group and do
// not split. Brackets without a partner are treated as plain characters.
// Segments are returned verbatim, without trimming; segment 0 is the target.
func SplitSegments(inner string) []string {
	match := MatchBrackets(inner)

	var segments []string
	segStart := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '[':
			if match[i] >= 0 {
				i = match[i]
			}
		case '|':
			segments = append(segments, inner[segStart:i])
			segStart = i + 1
		}
	}
	return append(segments, inner[segStart:])
}

// Segments scans the span's inner text into its pipe-separated parameters.
func (s Span) Segments() []string {
	return SplitSegments(s.Inner)
}
