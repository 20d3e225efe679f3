package alttext

import "testing"

var enMagicWords = []string{"thumb", "thumbnail", "right", "left", "none", "center", "frameless", "framed", "upright", "upright=$1", "$1px", "border"}

func TestExtractCaption(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		want   string
		wantOK bool
	}{
		{name: "file only", link: "[[File:X.jpg]]"},
		{name: "options only", link: "[[File:X.jpg|thumb|220px|right]]"},
		{name: "simple", link: "[[File:X.jpg|A caption]]", want: "A caption", wantOK: true},
		{
			name:   "options and caption",
			link:   "[[File: Cat.jpg | thumb | 220x124px | right | alt=Cat alt text | Cat caption text]]",
			want:   "Cat caption text",
			wantOK: true,
		},
		{
			name:   "inner link",
			link:   "[[File:KiraMuratova OdFest.jpg|thumb|Muratova at the [[Odessa International Film Festival]].]]",
			want:   "Muratova at the Odessa International Film Festival.",
			wantOK: true,
		},
		{
			name:   "piped inner link and template",
			link:   "[[File:X.jpg|upright=1.2|The [[Felis catus|cat]] {{circa 1900}} in ''Rome''<ref>Source</ref>]]",
			want:   "The cat in Rome",
			wantOK: true,
		},
		{
			name:   "external link",
			link:   "[[File:X.jpg|x120px|From [https://example.org the archive]]]",
			want:   "From the archive",
			wantOK: true,
		},
		{
			name:   "last unrecognized parameter wins",
			link:   "[[File:X.jpg|first|second]]",
			want:   "second",
			wantOK: true,
		},
		{
			name:   "magic words are caseless",
			link:   "[[File:X.jpg|THUMB|Right|caption]]",
			want:   "caption",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := ScanLinks(tt.link, enConfig)
			if len(links) != 1 {
				t.Fatalf("expected 1 link, got %d", len(links))
			}
			got, ok := ExtractCaption(links[0], enMagicWords)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v (caption %q)", ok, tt.wantOK, got)
			}
			if got != tt.want {
				t.Fatalf("caption=%q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanCaption(t *testing.T) {
	tests := map[string]string{
		"  plain  ":                       "plain",
		"{{a|{{b}}}}text":                 "text",
		"<span style=\"x\">styled</span>": "styled",
		"'''bold''' and ''italic''":       "bold and italic",
		"[[a|[[b]]]]":                     "b",
		"cited<ref name=\"x\" />":         "cited",
		"see [[Main Page]]":               "see Main Page",
	}
	for in, want := range tests {
		if got := CleanCaption(in); got != want {
			t.Errorf("CleanCaption(%q) = %q, want %q", in, got, want)
		}
	}
}
