package alttext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Classifier decides whether a link's segments name a file and carry alt text.
// It holds only immutable keyword lists and is safe for concurrent use.
type Classifier struct {
	namespaces      []string
	altParams       []string
	requireNonEmpty bool
}

// NewClassifier builds a Classifier from cfg. Blank keywords are ignored.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		namespaces:      foldKeywords(cfg.TargetNamespaces),
		altParams:       foldKeywords(cfg.AltParameterNames),
		requireNonEmpty: cfg.RequireNonEmptyAlt,
	}
}

// foldKeywords returns the caseless, deduplicated forms of keywords.
func foldKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		f := fold(kw)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// cutKeyword reports whether s starts with the folded keyword kw, compared
// caselessly rune by rune, and returns the remainder of s.
func cutKeyword(s, kw string) (string, bool) {
	var folded strings.Builder
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		folded.WriteString(fold(s[i : i+size]))
		i += size

		f := folded.String()
		if !strings.HasPrefix(kw, f) {
			return "", false
		}
		if len(f) == len(kw) {
			return s[i:], true
		}
	}
	return "", false
}

// fold returns the caseless form of s. A Caser is stateful, so each call gets
// its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Classify returns the first segment naming a file in one of the target
// namespaces and the segment carrying the alt parameter. Either may be nil.
//
// Returned pointers refer to copies of the verbatim segments.
func (c *Classifier) Classify(segments []string) (file, alt *string) {
	var emptyAlt *string
	for i := range segments {
		seg := segments[i]

		if file == nil && c.IsFileSegment(seg) {
			s := seg
			file = &s
		}

		if alt == nil {
			if value, ok := c.AltValue(seg); ok {
				s := seg
				if strings.TrimSpace(value) != "" {
					alt = &s
				} else if emptyAlt == nil {
					emptyAlt = &s
				}
			}
		}
	}

	if alt == nil && !c.requireNonEmpty {
		alt = emptyAlt
	}
	return file, alt
}

// IsFileSegment reports whether seg has the form "<ws>Namespace:rest".
func (c *Classifier) IsFileSegment(seg string) bool {
	rest := strings.TrimLeftFunc(seg, unicode.IsSpace)
	for _, ns := range c.namespaces {
		if after, ok := cutKeyword(rest, ns); ok && strings.HasPrefix(after, ":") {
			return true
		}
	}
	return false
}

// AltValue reports whether seg has the form "<ws>name<ws>=<ws>value" for one of
// the alt parameter names, and returns the trimmed value.
func (c *Classifier) AltValue(seg string) (string, bool) {
	rest := strings.TrimLeftFunc(seg, unicode.IsSpace)
	for _, name := range c.altParams {
		after, ok := cutKeyword(rest, name)
		if !ok {
			continue
		}
		after = strings.TrimLeftFunc(after, unicode.IsSpace)
		if value, found := strings.CutPrefix(after, "="); found {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}
