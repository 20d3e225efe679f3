package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Check returns a success message with checkmark symbol.
func Check(msg string) string {
	return SymbolSuccess + " " + msg
}

// Checkf returns a formatted success message.
func Checkf(format string, args ...interface{}) string {
	return Check(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol.
func Error(msg string) string {
	return SymbolError + " " + msg
}

// Warning returns a warning message with warning symbol.
func Warning(msg string) string {
	return SymbolWarning + " " + msg
}

// Warningf returns a formatted warning message.
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Infof returns a formatted info message.
func Infof(format string, args ...interface{}) string {
	return SymbolInfo + " " + fmt.Sprintf(format, args...)
}

// Header returns a styled section header.
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled file path.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint returns muted hint text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a count badge like "(3 findings)".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// Location formats a character offset range as "@offset+length".
func Location(offset, length int) string {
	return Muted.Render(fmt.Sprintf("@%d+%d", offset, length))
}

// Excerpt returns the link with up to context characters of surrounding
// text on either side, collapsed onto one line. The link itself is accented.
func Excerpt(text string, start, end, context int) string {
	before := text[:start]
	after := text[end:]

	before = lastRunes(before, context)
	after = firstRunes(after, context)

	oneLine := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
	var b strings.Builder
	if before != text[:start] {
		b.WriteString("…")
	}
	b.WriteString(Muted.Render(oneLine.Replace(before)))
	b.WriteString(AccentBold.Render(oneLine.Replace(text[start:end])))
	b.WriteString(Muted.Render(oneLine.Replace(after)))
	if after != text[end:] {
		b.WriteString("…")
	}
	return b.String()
}

// TruncateWithEllipsis shortens s to at most maxLen runes, preferring a word
// boundary in the second half.
func TruncateWithEllipsis(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 1 {
		return string(r[:maxLen])
	}

	truncated := string(r[:maxLen-1])
	if i := strings.LastIndex(truncated, " "); i > len(truncated)/2 {
		truncated = truncated[:i]
	}
	return truncated + "…"
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := len(s); i > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		count++
		if count == n {
			return s[i:]
		}
	}
	return s
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
