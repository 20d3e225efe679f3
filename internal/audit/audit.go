package audit

import (
	"github.com/aidanlsb/altscan/internal/alttext"
)

// Finding is a file link without alt text, with its display caption.
type Finding struct {
	alttext.LinkMatch

	// Target is the trimmed file segment, e.g. "File:Cat.jpg".
	Target string `json:"file"`

	// Caption is the cleaned caption, empty when the link has none.
	Caption string `json:"caption,omitempty"`
}

// NewFinding wraps m with its caption under the profile's magic words.
func (p Profile) NewFinding(m alttext.LinkMatch) Finding {
	caption, _ := alttext.ExtractCaption(m, p.MagicWords)
	return Finding{LinkMatch: m, Target: m.File(), Caption: caption}
}

// Page is the audit result of one text.
type Page struct {
	// Path identifies the source ("-" for stdin, otherwise a workspace path).
	Path string `json:"path"`

	LinkCount     int       `json:"link_count"`
	FileLinkCount int       `json:"file_link_count"`
	Findings      []Finding `json:"findings"`
}

// Missing returns how many findings lack alt text. It differs from
// len(Findings) only for audits that include every file link.
func (p Page) Missing() int {
	n := 0
	for _, f := range p.Findings {
		if f.IsFinding() {
			n++
		}
	}
	return n
}

// Covered returns how many file links already carry alt text.
func (p Page) Covered() int {
	return p.FileLinkCount - p.Missing()
}

// Audit scans text and returns its page result. When all is set, every file
// link is included in Findings regardless of alt text.
func (p Profile) Audit(path, text string, all bool) Page {
	matches := alttext.ScanLinks(text, p.Scan)
	page := Page{
		Path:          path,
		LinkCount:     len(matches),
		FileLinkCount: alttext.CountFileLinks(matches),
		Findings:      []Finding{},
	}
	for _, m := range matches {
		if m.IsFinding() || (all && m.IsFileLink()) {
			page.Findings = append(page.Findings, p.NewFinding(m))
		}
	}
	return page
}
