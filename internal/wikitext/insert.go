package wikitext

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnbalancedMarkup is returned when a closing "}}" or "-->" appears with no
// matching opener before it.
var ErrUnbalancedMarkup = errors.New("closing markup without opening markup")

type byteRange struct {
	start, end int
}

// InsertAfterTemplates inserts image wikitext into an article after its
// leading templates and HTML comments, which is where lead images belong.
//
// Leading newlines, {{...}} templates (nested) and <!--...--> comments are
// skipped. The image goes in front of the first remaining character: on its own
// line when that character starts a line, otherwise wrapped in newlines. An
// article made only of such markup gets the image appended on a new line.
func InsertAfterTemplates(article, image string) (string, error) {
	if image == "" {
		return article, nil
	}
	if article == "" {
		return image, nil
	}

	skipped, err := markupRanges(article)
	if err != nil {
		return "", err
	}

	insertAt := -1
	r := 0
	for i := 0; i < len(article); i++ {
		for r < len(skipped) && skipped[r].end <= i {
			r++
		}
		if r < len(skipped) && skipped[r].start <= i {
			i = skipped[r].end - 1
			continue
		}
		if article[i] == '\n' {
			continue
		}
		insertAt = i
		break
	}

	switch {
	case insertAt < 0:
		if strings.HasSuffix(article, "\n") {
			return article + image, nil
		}
		return article + "\n" + image, nil
	case insertAt == 0:
		return image + article, nil
	case article[insertAt-1] == '\n':
		return article[:insertAt] + image + "\n" + article[insertAt:], nil
	default:
		return article[:insertAt] + "\n" + image + "\n" + article[insertAt:], nil
	}
}

// markupRanges returns the sorted, merged byte ranges covered by complete
// templates and comments in article. Templates nest; comments do not, and
// template markup inside a comment is ignored.
func markupRanges(article string) ([]byteRange, error) {
	var (
		ranges       []byteRange
		templates    []int
		inComment    bool
		commentStart int
	)

	for i := 0; i < len(article); i++ {
		rest := article[i:]
		if inComment {
			if strings.HasPrefix(rest, "-->") {
				ranges = append(ranges, byteRange{commentStart, i + 3})
				inComment = false
				i += 2
			}
			continue
		}

		switch {
		case strings.HasPrefix(rest, "<!--"):
			inComment = true
			commentStart = i
			i += 3
		case strings.HasPrefix(rest, "-->"):
			return nil, fmt.Errorf("%w: %q at byte %d", ErrUnbalancedMarkup, "-->", i)
		case strings.HasPrefix(rest, "{{"):
			templates = append(templates, i)
			i++
		case strings.HasPrefix(rest, "}}"):
			n := len(templates)
			if n == 0 {
				return nil, fmt.Errorf("%w: %q at byte %d", ErrUnbalancedMarkup, "}}", i)
			}
			ranges = append(ranges, byteRange{templates[n-1], i + 2})
			templates = templates[:n-1]
			i++
		}
	}

	return mergeRanges(ranges), nil
}

func mergeRanges(ranges []byteRange) []byteRange {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(a, b int) bool { return ranges[a].start < ranges[b].start })

	merged := ranges[:1]
	for _, rg := range ranges[1:] {
		last := &merged[len(merged)-1]
		if rg.start <= last.end {
			if rg.end > last.end {
				last.end = rg.end
			}
			continue
		}
		merged = append(merged, rg)
	}
	return merged
}
