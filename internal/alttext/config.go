// Package alttext audits wikitext media links for missing alt text.
//
// The package is a pure function of its inputs: callers pass the text and a
// Config on every call, and nothing is cached or shared between calls.
package alttext

import "strings"

// Config selects which links count as media links and which parameters carry
// alt text. Keywords are matched as literals, case-insensitively.
type Config struct {
	// TargetNamespaces are namespace names such as "File", "Image" or "Datei".
	TargetNamespaces []string `json:"target_namespaces" yaml:"namespaces"`

	// AltParameterNames are parameter names such as "alt" or "alternativtext".
	AltParameterNames []string `json:"alt_parameter_names" yaml:"alt_params"`

	// RequireNonEmptyAlt reports links whose only alt parameter has an empty
	// value. By default an explicit "alt=" counts as present.
	RequireNonEmptyAlt bool `json:"require_non_empty_alt,omitempty" yaml:"strict,omitempty"`
}

// DefaultConfig returns the English configuration.
func DefaultConfig() Config {
	return Config{
		TargetNamespaces:  []string{"File", "Image"},
		AltParameterNames: []string{"alt"},
	}
}

// Merge returns a copy of c with the keywords of other appended.
// Duplicates (compared case-insensitively) are dropped.
func (c Config) Merge(other Config) Config {
	return Config{
		TargetNamespaces:   mergeKeywords(c.TargetNamespaces, other.TargetNamespaces),
		AltParameterNames:  mergeKeywords(c.AltParameterNames, other.AltParameterNames),
		RequireNonEmptyAlt: c.RequireNonEmptyAlt || other.RequireNonEmptyAlt,
	}
}

func mergeKeywords(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, kw := range list {
			key := fold(strings.TrimSpace(kw))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, kw)
		}
	}
	return out
}
