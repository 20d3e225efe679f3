package alttext

import (
	"strings"

	"github.com/aidanlsb/altscan/internal/wikitext"
)

// LinkMatch is one top-level link found in a text.
type LinkMatch struct {
	// RawText is the exact link literal, brackets included.
	RawText string `json:"raw_text"`

	// Offset and Length are measured in Unicode code points.
	Offset int `json:"offset"`
	Length int `json:"length"`

	// Start and End are byte offsets into the scanned text (End exclusive).
	Start int `json:"start"`
	End   int `json:"end"`

	// FileSegment is the segment naming the media file, nil for other links.
	FileSegment *string `json:"file_segment,omitempty"`

	// AltSegment is the segment carrying the alt parameter, nil if absent.
	AltSegment *string `json:"alt_segment,omitempty"`

	// Segments are the link's pipe-separated parameters, verbatim.
	Segments []string `json:"segments"`
}

// IsFileLink reports whether the link embeds a file.
func (m LinkMatch) IsFileLink() bool {
	return m.FileSegment != nil
}

// HasAlt reports whether the link carries an alt parameter.
func (m LinkMatch) HasAlt() bool {
	return m.AltSegment != nil
}

// IsFinding reports whether m is a file link without alt text.
func (m LinkMatch) IsFinding() bool {
	return m.IsFileLink() && !m.HasAlt()
}

// File returns the file segment with surrounding whitespace removed, or "".
func (m LinkMatch) File() string {
	if m.FileSegment == nil {
		return ""
	}
	return strings.TrimSpace(*m.FileSegment)
}

// ScanLinks classifies every top-level link in text.
func ScanLinks(text string, cfg Config) []LinkMatch {
	spans := wikitext.ScanLinks(text)
	if len(spans) == 0 {
		return nil
	}

	classifier := NewClassifier(cfg)
	out := make([]LinkMatch, 0, len(spans))
	for _, span := range spans {
		out = append(out, classifySpan(classifier, span))
	}
	return out
}

// ScanMissingAltText returns the file links in text that have no alt text.
func ScanMissingAltText(text string, cfg Config) []LinkMatch {
	var findings []LinkMatch
	for _, m := range ScanLinks(text, cfg) {
		if m.IsFinding() {
			findings = append(findings, m)
		}
	}
	return findings
}

// CountFileLinks returns how many links in matches embed a file.
func CountFileLinks(matches []LinkMatch) int {
	n := 0
	for _, m := range matches {
		if m.IsFileLink() {
			n++
		}
	}
	return n
}

func classifySpan(c *Classifier, span wikitext.Span) LinkMatch {
	segments := span.Segments()
	file, alt := c.Classify(segments)
	return LinkMatch{
		RawText:     span.Raw,
		Offset:      span.Offset,
		Length:      span.Length,
		Start:       span.Start,
		End:         span.End,
		FileSegment: file,
		AltSegment:  alt,
		Segments:    segments,
	}
}
