package wikitext

import (
	"errors"
	"testing"
)

const catImage = "[[File: Cat.jpg | thumb | 220x124px | right | alt=Cat alt text | Cat caption text]]"

func TestInsertAfterTemplates(t *testing.T) {
	tests := []struct {
		name    string
		article string
		image   string
		want    string
	}{
		{
			name:    "empty article",
			article: "",
			image:   catImage,
			want:    catImage,
		},
		{
			name:    "empty image",
			article: "{{Good article}}\nText",
			image:   "",
			want:    "{{Good article}}\nText",
		},
		{
			name:    "no templates",
			article: "The cat is a mammal.",
			image:   catImage,
			want:    catImage + "The cat is a mammal.",
		},
		{
			name:    "after templates on own lines",
			article: "{{Short description|Small mammal}}\n{{Good article}}\n\nThe cat.",
			image:   catImage,
			want:    "{{Short description|Small mammal}}\n{{Good article}}\n\n" + catImage + "\nThe cat.",
		},
		{
			name:    "nested template and comment",
			article: "{{Speciesbox\n |image={{Multiple image|a=b}}\n<!-- a {{ comment -->\n}}\nThe cat.",
			image:   catImage,
			want:    "{{Speciesbox\n |image={{Multiple image|a=b}}\n<!-- a {{ comment -->\n}}\n" + catImage + "\nThe cat.",
		},
		{
			name:    "text on same line as template",
			article: "{{Use dmy dates}} The cat.",
			image:   catImage,
			want:    "{{Use dmy dates}}\n" + catImage + "\n The cat.",
		},
		{
			name:    "comment after template",
			article: "{{Use dmy dates}}<!-- note -->\nThe cat.",
			image:   catImage,
			want:    "{{Use dmy dates}}<!-- note -->\n" + catImage + "\nThe cat.",
		},
		{
			name:    "only templates",
			article: "{{Stub}}",
			image:   catImage,
			want:    "{{Stub}}\n" + catImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InsertAfterTemplates(tt.article, tt.image)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("InsertAfterTemplates() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestInsertAfterTemplatesUnbalanced(t *testing.T) {
	for _, article := range []string{"Text }} more", "stray --> here"} {
		_, err := InsertAfterTemplates(article, catImage)
		if !errors.Is(err, ErrUnbalancedMarkup) {
			t.Fatalf("article %q: expected ErrUnbalancedMarkup, got %v", article, err)
		}
	}
}
