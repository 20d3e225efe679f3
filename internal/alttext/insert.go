package alttext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/altscan/internal/wikitext"
)

// ErrStaleMatch is returned when a LinkMatch no longer lines up with the text
// it is being applied to, typically because the text was edited after scanning.
var ErrStaleMatch = errors.New("link no longer matches text")

// FormatAltParam builds an alt parameter such as "alt=A grey cat".
func FormatAltParam(name, text string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "alt"
	}
	return name + "=" + strings.TrimSpace(text)
}

// InsertAltParam adds altParam to a single link literal.
//
// If one of the link's parameters (after the target) equals caption, the alt
// parameter is placed in front of it:
//
//	[[File:Dog.jpg|thumb|A dog]] -> [[File:Dog.jpg|thumb| alt=... | A dog]]
//
// Otherwise it is appended as the last parameter. A string that is not a
// single link is returned unchanged.
func InsertAltParam(link, caption, altParam string) string {
	if !isLinkLiteral(link) {
		return link
	}
	segments := wikitext.SplitSegments(link[2 : len(link)-2])

	caption = strings.TrimSpace(caption)
	if caption != "" {
		for i := 1; i < len(segments); i++ {
			if strings.TrimSpace(segments[i]) != caption {
				continue
			}
			out := make([]string, 0, len(segments)+1)
			out = append(out, segments[:i]...)
			out = append(out, " "+altParam+" ", " "+segments[i])
			out = append(out, segments[i+1:]...)
			return joinLink(out)
		}
	}

	return "[[" + strings.Join(segments, "|") + "| " + altParam + "]]"
}

// ReplaceAltParam swaps the existing alt segment of link for altParam.
// It reports false when link has no segment equal to altSegment.
func ReplaceAltParam(link, altSegment, altParam string) (string, bool) {
	if !isLinkLiteral(link) {
		return link, false
	}
	segments := wikitext.SplitSegments(link[2 : len(link)-2])
	for i := 1; i < len(segments); i++ {
		if segments[i] != altSegment {
			continue
		}
		lead := altSegment[:len(altSegment)-len(strings.TrimLeft(altSegment, " \t"))]
		segments[i] = lead + altParam
		return joinLink(segments), true
	}
	return link, false
}

// ApplyAltText rewrites the link described by m inside text.
//
// If the link already has an alt parameter named in cfg (usually an empty
// "alt="), that parameter is replaced; otherwise altParam is inserted with
// InsertAltParam.
func ApplyAltText(text string, m LinkMatch, cfg Config, caption, altParam string) (string, error) {
	if m.Start < 0 || m.End > len(text) || m.Start >= m.End || text[m.Start:m.End] != m.RawText {
		return "", fmt.Errorf("%w at offset %d", ErrStaleMatch, m.Offset)
	}

	updated := ""
	replaced := false
	c := NewClassifier(Config{AltParameterNames: cfg.AltParameterNames})
	for _, seg := range m.Segments {
		if _, ok := c.AltValue(seg); ok {
			updated, replaced = ReplaceAltParam(m.RawText, seg, altParam)
			break
		}
	}
	if !replaced {
		updated = InsertAltParam(m.RawText, caption, altParam)
	}

	return text[:m.Start] + updated + text[m.End:], nil
}

func isLinkLiteral(s string) bool {
	spans := wikitext.ScanLinks(s)
	return len(spans) == 1 && spans[0].Start == 0 && spans[0].End == len(s)
}

func joinLink(segments []string) string {
	return "[[" + strings.Join(segments, "|") + "]]"
}
