// Package slugs builds stable identifiers from page titles and file names.
//
// Two strategies exist:
//   - Anchor slugs: HTML fragment IDs for report sections. These keep
//     non-ASCII letters so headings in any wiki language stay readable.
//   - Key slugs: ASCII identifiers built on gosimple/slug, used where a
//     value must be safe as a file name (e.g. exported report names).
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// AnchorSlug converts a page title to a fragment ID.
func AnchorSlug(text string) string {
	var b strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':' || r == '/':
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// KeySlug converts text to an ASCII slug. Text that transliterates to
// nothing falls back to the anchor form.
func KeySlug(text string) string {
	if s := goslug.Make(text); s != "" {
		return s
	}
	return AnchorSlug(text)
}

// FileKey slugifies each '/'-separated component of a workspace path after
// dropping its extension: "Animals/Tabby_cat.wiki" -> "animals/tabby-cat".
func FileKey(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = KeySlug(part)
	}
	return strings.Join(parts, "/")
}
