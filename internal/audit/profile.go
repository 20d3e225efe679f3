// Package audit ties the link scanner to a language profile and produces
// per-page audit results shared by the index, last results and reports.
package audit

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/locale"
)

// ErrUnknownLanguage is returned when no locale exists for a language code.
var ErrUnknownLanguage = errors.New("unknown language")

// Profile is everything needed to audit text written in one wiki language.
type Profile struct {
	Language   string         `json:"language"`
	Scan       alttext.Config `json:"scan"`
	MagicWords []string       `json:"magic_words,omitempty"`
}

// NewProfile looks up lang in table and merges extra keywords and policy
// on top of the locale's own.
func NewProfile(table *locale.Table, lang string, extra alttext.Config) (Profile, error) {
	loc, ok := table.Lookup(lang)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (see 'altscan locales')", ErrUnknownLanguage, lang)
	}
	return Profile{
		Language:   loc.Code,
		Scan:       loc.Config().Merge(extra),
		MagicWords: loc.MagicWords,
	}, nil
}

// DefaultProfile returns the English profile from the builtin table.
func DefaultProfile() Profile {
	if table, err := locale.Builtin(); err == nil {
		if p, err := NewProfile(table, locale.Canonical, alttext.Config{}); err == nil {
			return p
		}
	}
	return Profile{Language: locale.Canonical, Scan: alttext.DefaultConfig()}
}
