package ui

import (
	"strings"
	"testing"
)

const sampleReport = "# Alt text report\n\n" +
	"| File | Missing |\n|---|---|\n| Cat.wiki | 2 |\n\n" +
	"- `[[File:Cat.jpg|thumb]]`\n"

func TestRenderMarkdownReport(t *testing.T) {
	out, err := RenderMarkdown(sampleReport, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	for _, want := range []string{"Alt text report", "Cat.wiki", "File:Cat.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in rendered report:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got %q", out[max(len(out)-5, 0):])
	}
}

func TestRenderMarkdownFallbackWidth(t *testing.T) {
	out, err := RenderMarkdown(strings.Repeat("word ", 30), -1)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected output with fallback width")
	}
}

func TestMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() { markdownCodeTheme = orig })

	for in, want := range map[string]string{
		" Nord ":           "nord",
		"github-dark":      "github-dark",
		"not-a-real-theme": defaultCodeTheme,
		"":                 defaultCodeTheme,
	} {
		ConfigureMarkdownCodeTheme(in)
		if got := markdownStyle().CodeBlock.Theme; got != want {
			t.Errorf("ConfigureMarkdownCodeTheme(%q): theme = %q, want %q", in, got, want)
		}
	}
}

func TestMarkdownStyleFollowsAccent(t *testing.T) {
	origAccent, origAccentBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origAccentBold, origColor
	})

	ConfigureTheme("39")
	if c := markdownStyle().Heading.Color; c == nil || *c != "39" {
		t.Errorf("expected heading color 39, got %v", c)
	}
	ConfigureTheme("none")
	if c := markdownStyle().Heading.Color; c != nil {
		t.Errorf("expected no heading color, got %q", *c)
	}
}
