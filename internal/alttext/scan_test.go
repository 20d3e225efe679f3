package alttext

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

var (
	enConfig = Config{TargetNamespaces: []string{"File", "Image"}, AltParameterNames: []string{"alt"}}
	deConfig = Config{TargetNamespaces: []string{"Datei"}, AltParameterNames: []string{"alternativtext", "alt"}}
)

func strPtr(s string) *string { return &s }

func TestScanMissingAltTextScenarios(t *testing.T) {
	t.Run("file link without alt", func(t *testing.T) {
		got := ScanMissingAltText("[[File:Foobar.jpg]]", enConfig)
		want := []LinkMatch{{
			RawText:     "[[File:Foobar.jpg]]",
			Offset:      0,
			Length:      19,
			Start:       0,
			End:         19,
			FileSegment: strPtr("File:Foobar.jpg"),
			Segments:    []string{"File:Foobar.jpg"},
		}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("alt present", func(t *testing.T) {
		got := ScanMissingAltText("[[File:Foobar.jpg|alt=Painting of a gazebo]]", enConfig)
		if len(got) != 0 {
			t.Fatalf("expected no findings, got %d", len(got))
		}
	})

	t.Run("one of two links", func(t *testing.T) {
		text := "bla bla [[File:Foobar.jpg|nice stuff]] and [[File:Baz.jpg|utter madness|alt=Baz]]"
		got := ScanMissingAltText(text, enConfig)
		if len(got) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(got))
		}
		if got[0].Offset != 8 {
			t.Fatalf("offset=%d, want 8", got[0].Offset)
		}
		if got[0].RawText != "[[File:Foobar.jpg|nice stuff]]" {
			t.Fatalf("raw=%q", got[0].RawText)
		}
		if got[0].AltSegment != nil {
			t.Fatalf("expected no alt segment, got %q", *got[0].AltSegment)
		}
	})

	t.Run("empty alt counts as present", func(t *testing.T) {
		got := ScanMissingAltText("[[File:Foobar.jpg|thumb|alt=|On display]]", enConfig)
		if len(got) != 0 {
			t.Fatalf("expected no findings, got %d", len(got))
		}
	})
}

func TestScanMissingAltTextCaption(t *testing.T) {
	tests := []struct {
		name  string
		link  string
		cfg   Config
		file  string
		found bool
	}{
		{name: "en no alt", link: "[[File:Test no alt.jpg|caption here]]", cfg: enConfig, file: "File:Test no alt.jpg", found: true},
		{name: "de no alt", link: "[[Datei:Test no alt.jpg|caption here]]", cfg: deConfig, file: "Datei:Test no alt.jpg", found: true},
		{name: "en with alt", link: "[[File:Test with alt.jpg|caption here|alt=Cool picture]]", cfg: enConfig},
		{name: "de with alt", link: "[[Datei:Test with alt.jpg|caption here|alternativtext=Cool picture]]", cfg: deConfig},
		{name: "case insensitive", link: "[[file:x.jpg|ALT = Thing]]", cfg: enConfig},
		{name: "leading whitespace", link: "[[ Image:x.jpg | caption ]]", cfg: enConfig, file: " Image:x.jpg ", found: true},
		{name: "alt with spaces around equals", link: "[[File:x.jpg| alt  =  y ]]", cfg: enConfig},
		{name: "non-file link", link: "[[Just a normal wikilink]]", cfg: enConfig},
		{name: "category link", link: "[[Category:Foo]]", cfg: enConfig},
		{name: "colon link to file page", link: "[[:File:X.jpg]]", cfg: enConfig},
		{name: "alternate name only", link: "[[File:X.jpg|alternativtext=y]]", cfg: enConfig, file: "File:X.jpg", found: true},
		{name: "unicode case folding", link: "[[ФАЙЛ:Кот.jpg|подпись]]", cfg: Config{TargetNamespaces: []string{"Файл"}, AltParameterNames: []string{"альт"}}, file: "ФАЙЛ:Кот.jpg", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wikitext := "text text " + tt.link + " text text"
			got := ScanMissingAltText(wikitext, tt.cfg)
			if !tt.found {
				if len(got) != 0 {
					t.Fatalf("expected no findings, got %#v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(got))
			}
			m := got[0]
			if m.RawText != tt.link {
				t.Errorf("raw=%q, want %q", m.RawText, tt.link)
			}
			if m.FileSegment == nil || *m.FileSegment != tt.file {
				t.Errorf("file segment=%v, want %q", m.FileSegment, tt.file)
			}
			if m.Offset != utf8.RuneCountInString("text text ") {
				t.Errorf("offset=%d", m.Offset)
			}
			if m.Length != utf8.RuneCountInString(tt.link) {
				t.Errorf("length=%d", m.Length)
			}
		})
	}
}

func TestNestedPipesDoNotSplit(t *testing.T) {
	links := ScanLinks("[[File:X|See [[Other|thing]] here]]", enConfig)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	want := []string{"File:X", "See [[Other|thing]] here"}
	if diff := cmp.Diff(want, links[0].Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if !links[0].IsFinding() {
		t.Fatalf("expected link to be a finding")
	}
}

func TestNestedAltDoesNotCount(t *testing.T) {
	// The alt belongs to the inner link, not the outer file link.
	got := ScanMissingAltText("[[File:X|caption [[File:Y|alt=inner]]]]", enConfig)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
}

func TestScanLinksUnfiltered(t *testing.T) {
	text := "[[Foo]] [[File:A.jpg|alt=a]] [[Image:B.png]]"
	links := ScanLinks(text, enConfig)
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].IsFileLink() {
		t.Errorf("plain link classified as file link")
	}
	if !links[1].IsFileLink() || !links[1].HasAlt() || *links[1].AltSegment != "alt=a" {
		t.Errorf("unexpected classification for second link: %#v", links[1])
	}
	if !links[2].IsFinding() {
		t.Errorf("expected third link to be a finding")
	}
	if CountFileLinks(links) != 2 {
		t.Errorf("CountFileLinks=%d, want 2", CountFileLinks(links))
	}
}

func TestOffsetsWithUnicode(t *testing.T) {
	text := "Кошка 🐈‍⬛ — ذلك [[File:猫.jpg|キャプション]] 👍🏽 [[Image:Ω.svg]]"
	runes := []rune(text)
	got := ScanMissingAltText(text, enConfig)
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	for _, m := range got {
		if m.Offset+m.Length > len(runes) {
			t.Fatalf("match %q out of range", m.RawText)
		}
		if s := string(runes[m.Offset : m.Offset+m.Length]); s != m.RawText {
			t.Errorf("rune slice %q != raw %q", s, m.RawText)
		}
		if text[m.Start:m.End] != m.RawText {
			t.Errorf("byte slice %q != raw %q", text[m.Start:m.End], m.RawText)
		}
	}
}

func TestEmptyConfigFindsNothing(t *testing.T) {
	if got := ScanMissingAltText("[[File:A.jpg]] [[Image:B.jpg]]", Config{}); len(got) != 0 {
		t.Fatalf("expected no findings with empty config, got %d", len(got))
	}
	if got := ScanMissingAltText("", enConfig); got != nil {
		t.Fatalf("expected nil for empty input, got %#v", got)
	}
}

func TestKeywordsAreLiterals(t *testing.T) {
	cfg := Config{
		TargetNamespaces:  []string{"F.le", "(", "[a-z]+", "*"},
		AltParameterNames: []string{".*", "a|t"},
	}
	got := ScanMissingAltText("[[File:A.jpg]] [[F.le:B.jpg|.*=x]] [[[a-z]+:C.jpg]] [[(:D.jpg|a|t=y]]", cfg)
	var files []string
	for _, m := range got {
		files = append(files, m.File())
	}
	want := []string{"[a-z]+:C.jpg", "(:D.jpg"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordsWithDelimiters(t *testing.T) {
	cfg := Config{
		TargetNamespaces:  []string{"(.*", "Wiki:File"},
		AltParameterNames: []string{"a=b", "Beschreibung"},
	}
	tests := []struct {
		name    string
		text    string
		finding bool
	}{
		{"alt name containing equals", "[[(.*:x|a=b=c]]", false},
		{"alt name prefix only", "[[(.*:x|a=c]]", true},
		{"namespace containing colon", "[[wiki:file:X.png]]", true},
		{"namespace prefix only", "[[Wiki:X.png]]", false},
		{"caseless with spaces", "[[(.*:x| BESCHREIBUNG = Grey cat]]", false},
		{"keyword followed by more letters", "[[(.*:x|Beschreibungen=y]]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanMissingAltText(tt.text, cfg)
			if (len(got) == 1) != tt.finding {
				t.Fatalf("ScanMissingAltText(%q) = %d findings, want finding=%v", tt.text, len(got), tt.finding)
			}
		})
	}
}

func TestRequireNonEmptyAlt(t *testing.T) {
	strict := enConfig
	strict.RequireNonEmptyAlt = true

	tests := []struct {
		link       string
		lenient    bool
		strictFind bool
	}{
		{link: "[[File:X.jpg|alt=]]", lenient: false, strictFind: true},
		{link: "[[File:X.jpg|alt=   ]]", lenient: false, strictFind: true},
		{link: "[[File:X.jpg|alt=|alt=Real]]", lenient: false, strictFind: false},
		{link: "[[File:X.jpg|alt=Real]]", lenient: false, strictFind: false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := len(ScanMissingAltText(tt.link, enConfig)) == 1; got != tt.lenient {
				t.Errorf("lenient finding=%v, want %v", got, tt.lenient)
			}
			if got := len(ScanMissingAltText(tt.link, strict)) == 1; got != tt.strictFind {
				t.Errorf("strict finding=%v, want %v", got, tt.strictFind)
			}
		})
	}
}

func TestClassifyPrefersNonEmptyAlt(t *testing.T) {
	c := NewClassifier(enConfig)
	file, alt := c.Classify([]string{"File:X.jpg", "alt=", "alt=Real"})
	if file == nil || *file != "File:X.jpg" {
		t.Fatalf("file=%v", file)
	}
	if alt == nil || *alt != "alt=Real" {
		t.Fatalf("alt=%v, want alt=Real", alt)
	}

	_, alt = c.Classify([]string{"File:X.jpg", "thumb", " alt = "})
	if alt == nil || *alt != " alt = " {
		t.Fatalf("expected empty alt segment to be reported, got %v", alt)
	}
}

func TestConfigMerge(t *testing.T) {
	merged := DefaultConfig().Merge(Config{
		TargetNamespaces:  []string{"file", "Datei", " "},
		AltParameterNames: []string{"Alternativtext"},
	})
	want := Config{
		TargetNamespaces:  []string{"File", "Image", "Datei"},
		AltParameterNames: []string{"alt", "Alternativtext"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
}
