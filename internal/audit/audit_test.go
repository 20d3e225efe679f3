package audit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/locale"
)

func TestAuditReportsFindingsWithCaptions(t *testing.T) {
	p := DefaultProfile()
	text := "Intro [[File:Cat.jpg|thumb|A cat on a mat]] and [[File:Dog.jpg|alt=A dog]] and [[Rome]]."

	page := p.Audit("Animals.wiki", text, false)

	if page.LinkCount != 3 {
		t.Errorf("LinkCount = %d, want 3", page.LinkCount)
	}
	if page.FileLinkCount != 2 {
		t.Errorf("FileLinkCount = %d, want 2", page.FileLinkCount)
	}
	if len(page.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(page.Findings))
	}
	f := page.Findings[0]
	if f.Target != "File:Cat.jpg" {
		t.Errorf("Target = %q", f.Target)
	}
	if f.Caption != "A cat on a mat" {
		t.Errorf("Caption = %q", f.Caption)
	}
	if f.Offset != 6 {
		t.Errorf("Offset = %d, want 6", f.Offset)
	}
	if page.Covered() != 1 {
		t.Errorf("Covered = %d, want 1", page.Covered())
	}
}

func TestAuditAllIncludesCoveredLinks(t *testing.T) {
	p := DefaultProfile()
	text := "[[File:Cat.jpg]] [[File:Dog.jpg|alt=A dog]]"

	page := p.Audit("-", text, true)

	var files []string
	for _, f := range page.Findings {
		files = append(files, f.Target)
	}
	if diff := cmp.Diff([]string{"File:Cat.jpg", "File:Dog.jpg"}, files); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
	if page.Missing() != 1 || page.Covered() != 1 {
		t.Errorf("Missing/Covered = %d/%d, want 1/1", page.Missing(), page.Covered())
	}
}

func TestAuditEmptyTextHasNoFindings(t *testing.T) {
	page := DefaultProfile().Audit("-", "", false)
	if page.Findings == nil || len(page.Findings) != 0 {
		t.Errorf("expected empty non-nil findings, got %#v", page.Findings)
	}
}

func TestNewProfileMergesLocaleAndOverrides(t *testing.T) {
	table, err := locale.Builtin()
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewProfile(table, "de", alttext.Config{AltParameterNames: []string{"beschreibung"}, RequireNonEmptyAlt: true})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	if p.Language != "de" {
		t.Errorf("Language = %q", p.Language)
	}
	if !p.Scan.RequireNonEmptyAlt {
		t.Error("expected strict policy from overrides")
	}

	text := "[[Datei:Katze.jpg|mini|beschreibung=Katze]] [[Bild:Hund.jpg|mini|Ein Hund]] [[File:Cat.jpg|alt=]]"
	page := p.Audit("Tiere.wiki", text, false)

	var files []string
	for _, f := range page.Findings {
		files = append(files, f.Target)
	}
	if diff := cmp.Diff([]string{"Bild:Hund.jpg", "File:Cat.jpg"}, files); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
	if page.Findings[0].Caption != "Ein Hund" {
		t.Errorf("Caption = %q, want %q", page.Findings[0].Caption, "Ein Hund")
	}
}

func TestNewProfileUnknownLanguage(t *testing.T) {
	table, err := locale.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewProfile(table, "xx", alttext.Config{}); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}
