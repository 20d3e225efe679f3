package report

import (
	"strings"
	"testing"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/index"
)

func seededIndex(t *testing.T) *index.Database {
	t.Helper()
	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	p := audit.DefaultProfile()
	pages := map[string]string{
		"Animals/Tabby_cat.wiki": "[[File:Cat.jpg|thumb|A *tabby* cat]] [[File:Kitten.jpg]]",
		"Rome.wiki":              "[[File:Colosseum.jpg|alt=The Colosseum]] [[File:Forum`s.jpg|thumb]]",
		"Covered.wiki":           "[[File:Ok.jpg|alt=ok]]",
	}
	for path, text := range pages {
		if err := db.IndexPage(p.Audit(path, text, false), "en", 0); err != nil {
			t.Fatal(err)
		}
	}
	run, err := db.StartRun("en", true)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun(run); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestBuild(t *testing.T) {
	db := seededIndex(t)

	r, err := Build(db, "/wiki", Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Stats.FindingCount != 3 || r.Stats.FileLinkCount != 5 {
		t.Errorf("unexpected stats %+v", r.Stats)
	}
	if len(r.Pages) != 2 {
		t.Fatalf("expected 2 page sections, got %d", len(r.Pages))
	}
	if r.Pages[0].Page.Path != "Animals/Tabby_cat.wiki" || len(r.Pages[0].Findings) != 2 {
		t.Errorf("expected the page with most findings first, got %+v", r.Pages[0].Page)
	}
	if r.LastRun == nil {
		t.Error("expected last run")
	}

	limited, err := Build(db, "/wiki", Options{MaxPages: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited.Pages) != 1 {
		t.Errorf("expected MaxPages to limit sections, got %d", len(limited.Pages))
	}
	if !strings.Contains(limited.Markdown(), "Showing 1 of 2 pages") {
		t.Errorf("expected truncation note:\n%s", limited.Markdown())
	}
}

func TestMarkdown(t *testing.T) {
	r, err := Build(seededIndex(t), "/wiki", Options{})
	if err != nil {
		t.Fatal(err)
	}
	md := r.Markdown()

	for _, want := range []string{
		"# Alt text report",
		"| 3 | 5 | 3 | 40.0% |",
		"## Animals/Tabby cat",
		"`[[File:Kitten.jpg]]` at offset 37",
		`caption: A \*tabby\* cat`,
		"`` [[File:Forum`s.jpg|thumb]] ``",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Covered") {
		t.Errorf("fully covered pages should not get a section:\n%s", md)
	}
	if strings.Contains(md, "{#") {
		t.Errorf("terminal markdown should not carry heading attributes:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	r, err := Build(seededIndex(t), "/wiki", Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Alt text report</title>",
		`<h2 id="page-animals-tabby-cat">`,
		`<a href="#page-animals-tabby-cat">`,
		"<table>",
		"<code>[[File:Kitten.jpg]]</code>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("html missing %q:\n%s", want, doc)
		}
	}
}

func TestEmptyIndex(t *testing.T) {
	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	r, err := Build(db, "/wiki", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r.Markdown(), "The index is empty") {
		t.Errorf("expected empty-index hint:\n%s", r.Markdown())
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[[File:A.jpg]]", "`[[File:A.jpg]]`"},
		{"a`b", "`` a`b ``"},
		{"line\nbreak", "`line break`"},
	}
	for _, tt := range tests {
		if got := code(tt.in); got != tt.want {
			t.Errorf("code(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
