// Package report renders the workspace audit stored in the index as
// markdown (for the terminal) or HTML (for sharing).
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/slugs"
)

// Report is a snapshot of the index.
type Report struct {
	Generated time.Time        `json:"generated"`
	Workspace string           `json:"workspace"`
	Stats     index.IndexStats `json:"stats"`
	LastRun   *index.Run       `json:"last_run,omitempty"`
	Pages     []PageSection    `json:"pages"`
}

// PageSection lists the findings of one page.
type PageSection struct {
	Page     index.PageRecord      `json:"page"`
	Findings []index.StoredFinding `json:"findings"`
}

// Options controls what Build includes.
type Options struct {
	// MaxPages limits the number of page sections; 0 means no limit.
	MaxPages int
}

// Build reads the index into a Report. Only pages with findings get a
// section, most findings first.
func Build(db *index.Database, workspace string, opts Options) (*Report, error) {
	stats, err := db.Stats()
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	run, err := db.LatestRun()
	if err != nil {
		return nil, fmt.Errorf("read last run: %w", err)
	}
	pages, err := db.Pages(true)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	if opts.MaxPages > 0 && len(pages) > opts.MaxPages {
		pages = pages[:opts.MaxPages]
	}

	r := &Report{
		Generated: time.Now(),
		Workspace: workspace,
		Stats:     *stats,
		LastRun:   run,
		Pages:     make([]PageSection, 0, len(pages)),
	}
	for _, p := range pages {
		findings, err := db.Findings(p.Path)
		if err != nil {
			return nil, fmt.Errorf("read findings for %s: %w", p.Path, err)
		}
		r.Pages = append(r.Pages, PageSection{Page: p, Findings: findings})
	}
	return r, nil
}

// Markdown renders the report for terminals and plain-text use.
func (r *Report) Markdown() string {
	return r.markdown(false)
}

// HTML renders the report as a standalone HTML document with a table of
// contents linking to each page section.
func (r *Report) HTML() ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(r.markdown(true)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(r.title()))
	out.WriteString("<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}" +
		"code{background:#f4f4f5;padding:0 .2rem}table{border-collapse:collapse}" +
		"td,th{border:1px solid #ddd;padding:.3rem .6rem}</style>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func (r *Report) title() string {
	return "Alt text report"
}

func (r *Report) markdown(anchors bool) string {
	var b strings.Builder
	s := r.Stats

	fmt.Fprintf(&b, "# %s\n\n", r.title())
	fmt.Fprintf(&b, "Workspace %s, generated %s", code(r.Workspace), r.Generated.Format("2006-01-02 15:04"))
	if r.LastRun != nil {
		fmt.Fprintf(&b, " from index run %s (%s, %s)",
			code(shortID(r.LastRun.ID)), r.LastRun.Language, r.LastRun.FinishedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString(".\n\n")

	b.WriteString("| Pages | File links | Missing alt text | Coverage |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %.1f%% |\n\n", s.PageCount, s.FileLinkCount, s.FindingCount, s.Coverage()*100)

	if len(r.Pages) == 0 {
		if s.PageCount == 0 {
			b.WriteString("The index is empty. Run `altscan index` first.\n")
		} else {
			b.WriteString("Every file link has alt text.\n")
		}
		return b.String()
	}

	if len(r.Pages) < s.PagesWithFindings {
		fmt.Fprintf(&b, "Showing %d of %d pages with missing alt text.\n\n", len(r.Pages), s.PagesWithFindings)
	}

	if anchors {
		b.WriteString("## Contents\n\n")
		for _, sec := range r.Pages {
			fmt.Fprintf(&b, "- [%s](#%s) (%d)\n", escape(sec.Page.Title), anchorFor(sec.Page), sec.Page.FindingCount)
		}
		b.WriteString("\n")
	}

	for _, sec := range r.Pages {
		p := sec.Page
		fmt.Fprintf(&b, "## %s", escape(p.Title))
		if anchors {
			fmt.Fprintf(&b, " {#%s}", anchorFor(p))
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s: %d of %d file links missing alt text.\n\n", code(p.Path), p.FindingCount, p.FileLinkCount)

		for i, f := range sec.Findings {
			fmt.Fprintf(&b, "%d. %s at offset %d", i+1, code(f.RawText), f.Offset)
			if f.Caption != "" {
				fmt.Fprintf(&b, ", caption: %s", escape(f.Caption))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func anchorFor(p index.PageRecord) string {
	if a := slugs.AnchorSlug(p.Title); a != "" {
		return "page-" + a
	}
	return "page-" + slugs.FileKey(p.Path)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// code wraps s in a code span long enough to contain any backticks in s.
func code(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "{", `\{`, "}", `\}`,
)

// escape neutralizes markdown syntax in captions and titles.
func escape(s string) string {
	return markdownEscaper.Replace(strings.ReplaceAll(s, "\n", " "))
}
