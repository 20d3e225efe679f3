package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/altscan/internal/atomicfile"
)

type persistedConfig struct {
	Language    *string               `toml:"language,omitempty"`
	Namespaces  []string              `toml:"namespaces,omitempty"`
	AltParams   []string              `toml:"alt_params,omitempty"`
	Strict      bool                  `toml:"strict,omitempty"`
	Extensions  []string              `toml:"extensions,omitempty"`
	LocalesFile *string               `toml:"locales_file,omitempty"`
	Workspace   *string               `toml:"workspace,omitempty"`
	UI          *persistedUISettings  `toml:"ui,omitempty"`
	Log         *persistedLogSettings `toml:"log,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

type persistedLogSettings struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Language:    nonEmptyPtr(cfg.Language),
		Namespaces:  cfg.Namespaces,
		AltParams:   cfg.AltParams,
		Strict:      cfg.Strict,
		Extensions:  cfg.Extensions,
		LocalesFile: nonEmptyPtr(cfg.LocalesFile),
		Workspace:   nonEmptyPtr(cfg.Workspace),
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	level := nonEmptyPtr(cfg.Log.Level)
	format := nonEmptyPtr(cfg.Log.Format)
	if level != nil || format != nil {
		out.Log = &persistedLogSettings{
			Level:  level,
			Format: format,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
