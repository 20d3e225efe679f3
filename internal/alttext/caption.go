package alttext

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	optionKeyRe   = regexp.MustCompile(`^\s*[\p{L}\p{N}_ -]+\s*=`)
	sizeOptionRe  = regexp.MustCompile(`^\s*(?:\d+)?x?\d+\s*px\s*$`)
	templateRe    = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	refRe         = regexp.MustCompile(`(?is)<ref[^>]*/>|<ref[^>]*>.*?</ref\s*>`)
	htmlTagRe     = regexp.MustCompile(`<[^<>]*>`)
	innerLinkRe   = regexp.MustCompile(`\[\[(?:[^\[\]|]*\|)?([^\[\]|]*)\]\]`)
	externalRe    = regexp.MustCompile(`\[[a-zA-Z][a-zA-Z0-9+.-]*:[^\s\[\]]*\s*([^\[\]]*)\]`)
	emphasisRe    = regexp.MustCompile(`'{2,}`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// ExtractCaption returns the human-readable caption of a file link.
//
// Image options (key=value parameters, sizes such as 220x124px and the given
// magic words like "thumb" or "right") are skipped; the last remaining
// parameter is the caption. Templates, references, HTML tags, emphasis and link markup
// are removed from it, so the result may differ from the raw wikitext.
//
// Magic words containing "$1" (for example "upright=$1" or "$1px") match any
// parameter with the same prefix and suffix. ok is false when the link has no
// caption.
func ExtractCaption(m LinkMatch, magicWords []string) (caption string, ok bool) {
	segments := m.Segments
	fileIdx := 0
	if m.FileSegment != nil {
		for i, seg := range segments {
			if seg == *m.FileSegment {
				fileIdx = i
				break
			}
		}
	}
	if fileIdx+1 >= len(segments) {
		return "", false
	}

	words := newMagicWords(magicWords)
	raw := ""
	found := false
	for _, seg := range segments[fileIdx+1:] {
		if isImageOption(seg, words) {
			continue
		}
		raw = seg
		found = true
	}
	if !found {
		return "", false
	}

	caption = CleanCaption(raw)
	return caption, caption != ""
}

// CleanCaption strips wiki markup from a caption parameter for display.
func CleanCaption(s string) string {
	for {
		stripped := templateRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = refRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	for {
		stripped := innerLinkRe.ReplaceAllString(s, "$1")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = externalRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("[", "", "]", "", "|", "").Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type magicWord struct {
	prefix, suffix string
	template       bool
}

func newMagicWords(words []string) []magicWord {
	out := make([]magicWord, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if before, after, ok := strings.Cut(w, "$1"); ok {
			out = append(out, magicWord{prefix: fold(before), suffix: fold(after), template: true})
			continue
		}
		out = append(out, magicWord{prefix: fold(w)})
	}
	return out
}

func isImageOption(seg string, words []magicWord) bool {
	if optionKeyRe.MatchString(seg) || sizeOptionRe.MatchString(seg) {
		return true
	}
	trimmed := fold(strings.TrimFunc(seg, unicode.IsSpace))
	if trimmed == "" {
		return true
	}
	for _, w := range words {
		if !w.template {
			if trimmed == w.prefix {
				return true
			}
			continue
		}
		if len(trimmed) > len(w.prefix)+len(w.suffix) &&
			strings.HasPrefix(trimmed, w.prefix) && strings.HasSuffix(trimmed, w.suffix) {
			return true
		}
	}
	return false
}
