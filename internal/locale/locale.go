// Package locale provides per-language namespace names, alt parameter names and
// image magic words for building alttext configurations.
//
// Tables are plain values: callers load one, look up a language and pass the
// resulting alttext.Config by value into a scan.
package locale

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/altscan/internal/alttext"
)

// Canonical is the language whose keywords every wiki accepts.
const Canonical = "en"

//go:embed locales.yaml
var builtin []byte

// Locale holds the keywords for one wiki language.
type Locale struct {
	Code       string   `yaml:"-" json:"code"`
	Name       string   `yaml:"name" json:"name"`
	Namespaces []string `yaml:"namespaces" json:"namespaces"`
	AltParams  []string `yaml:"alt_params" json:"alt_params"`
	MagicWords []string `yaml:"magic_words" json:"magic_words"`
}

// Config converts the locale into a scan configuration.
func (l Locale) Config() alttext.Config {
	return alttext.Config{
		TargetNamespaces:  append([]string(nil), l.Namespaces...),
		AltParameterNames: append([]string(nil), l.AltParams...),
	}
}

// Table maps language codes to locales.
type Table struct {
	locales map[string]Locale
}

// Builtin returns the table bundled with the binary.
func Builtin() (*Table, error) {
	t, err := Parse(builtin)
	if err != nil {
		return nil, fmt.Errorf("builtin locales: %w", err)
	}
	return t, nil
}

// Parse decodes a YAML locale table.
func Parse(data []byte) (*Table, error) {
	raw := make(map[string]Locale)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse locales: %w", err)
	}

	t := &Table{locales: make(map[string]Locale, len(raw))}
	for code, loc := range raw {
		code = normalizeCode(code)
		if code == "" {
			return nil, fmt.Errorf("locale with empty language code")
		}
		loc.Code = code
		t.locales[code] = loc
	}
	return t, nil
}

// LoadFile reads a YAML locale table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales %s: %w", path, err)
	}
	return Parse(data)
}

// Merge returns a new table with the keywords of other added to t. Languages
// only present in other are added as they are.
func (t *Table) Merge(other *Table) *Table {
	out := &Table{locales: make(map[string]Locale, len(t.locales))}
	for code, loc := range t.locales {
		out.locales[code] = loc
	}
	if other == nil {
		return out
	}
	for code, extra := range other.locales {
		base, ok := out.locales[code]
		if !ok {
			out.locales[code] = extra
			continue
		}
		out.locales[code] = mergeLocale(base, extra)
	}
	return out
}

// Lookup returns the locale for a language code such as "de" or "de-CH".
// Regional codes fall back to their base language. The canonical English
// keywords are merged into every result.
func (t *Table) Lookup(code string) (Locale, bool) {
	code = normalizeCode(code)
	loc, ok := t.locales[code]
	if !ok {
		if base, _, cut := strings.Cut(code, "-"); cut {
			loc, ok = t.locales[base]
		}
	}
	if !ok {
		return Locale{}, false
	}
	if loc.Code != Canonical {
		if en, found := t.locales[Canonical]; found {
			loc = mergeLocale(loc, en)
		}
	}
	return loc, true
}

// Languages returns the known language codes, sorted.
func (t *Table) Languages() []string {
	codes := make([]string, 0, len(t.locales))
	for code := range t.locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func mergeLocale(base, extra Locale) Locale {
	if base.Name == "" {
		base.Name = extra.Name
	}
	base.Namespaces = appendUnique(base.Namespaces, extra.Namespaces)
	base.AltParams = appendUnique(base.AltParams, extra.AltParams)
	base.MagicWords = appendUnique(base.MagicWords, extra.MagicWords)
	return base
}

func appendUnique(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
