package ui

import (
	"strings"
	"testing"
)

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"[[File:Cat.jpg|thumb|A cat]]", 12, "[[File:Cat.…"},
		{"one two three four", 12, "one two…"},
		{"日本語の画像", 4, "日本語…"},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestExcerptKeepsLinkAndTrimsContext(t *testing.T) {
	text := "Intro line\nThe [[File:Cat.jpg]] sat on the mat"
	start := strings.Index(text, "[[")
	end := start + len("[[File:Cat.jpg]]")

	got := Excerpt(text, start, end, 4)
	for _, want := range []string{"[[File:Cat.jpg]]", "The ", " sat", "…"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected excerpt to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, "Intro") {
		t.Errorf("expected leading context to be trimmed, got %q", got)
	}
}

func TestFindingsTableRendersRows(t *testing.T) {
	tbl := NewFindingsTable(FixedDisplay(100))
	if tbl.Render() != "" {
		t.Fatal("expected empty table to render nothing")
	}

	tbl.AddRow(FindingRow{Num: 1, Link: "[[File:Cat.jpg|thumb]]", Caption: "A cat", Location: "Rome.wiki @4+22"})
	tbl.AddRow(FindingRow{Num: 2, Link: "[[Image:Dog.png]]", Location: "Rome.wiki @40+17"})

	out := tbl.Render()
	for _, want := range []string{"[[File:Cat.jpg|thumb]]", "A cat", "Rome.wiki @4+22", "[[Image:Dog.png]]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q:\n%s", want, out)
		}
	}
}
