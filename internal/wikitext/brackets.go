// Package wikitext scans raw wiki markup for bracketed links.
//
// Link grammar:
//
//	[[target]]
//	[[target|param|param ...]]
//
// A parameter may itself contain nested [[inner links]] or [external links];
// pipes inside those do not split the outer link. Nesting is resolved by a
// single stack-based pass over the input, so scanning is linear in the input
// length regardless of how brackets are arranged.
//
// This package does not understand templates, tables or <nowiki>; callers that
// need to exclude such regions must do so before scanning.
package wikitext

// MatchBrackets pairs square brackets in s.
//
// The result has one entry per byte of s. For an opening '[' that has a
// matching ']' the entry holds the byte index of that ']'; every other entry
// is -1. A ']' with no open bracket on the stack is ignored, and openers left
// on the stack at the end of input stay unmatched.
func MatchBrackets(s string) []int {
	match := make([]int, len(s))
	stack := make([]int, 0, 8)
	for i := 0; i < len(s); i++ {
		match[i] = -1
		switch s[i] {
		case '[':
			stack = append(stack, i)
		case ']':
			if n := len(stack); n > 0 {
				match[stack[n-1]] = i
				stack = stack[:n-1]
			}
		}
	}
	return match
}
