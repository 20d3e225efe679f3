// Package config handles global altscan configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/altscan/internal/alttext"
)

// DefaultLanguage is used when neither the config nor a flag names a language.
const DefaultLanguage = "en"

// DefaultExtensions are the file extensions scanned in a workspace.
var DefaultExtensions = []string{".wiki", ".wikitext", ".mediawiki"}

// Config represents the global altscan configuration.
type Config struct {
	// Language selects the locale table entry (e.g. "en", "de").
	Language string `toml:"language"`

	// Namespaces are extra file namespace names added to the locale's.
	Namespaces []string `toml:"namespaces"`

	// AltParams are extra alt parameter names added to the locale's.
	AltParams []string `toml:"alt_params"`

	// Strict reports links whose alt parameter is present but empty.
	Strict bool `toml:"strict"`

	// Extensions limits which files are scanned when indexing or watching.
	Extensions []string `toml:"extensions"`

	// LocalesFile is an optional YAML file merged over the builtin locales.
	// Relative paths are resolved against the config file's directory.
	LocalesFile string `toml:"locales_file"`

	// Workspace is the default workspace directory (defaults to the current directory).
	Workspace string `toml:"workspace"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// Log controls diagnostic logging on stderr.
	Log LogConfig `toml:"log"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format"`
}

// GetLanguage returns the configured language or DefaultLanguage.
func (c *Config) GetLanguage() string {
	if lang := strings.TrimSpace(c.Language); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// GetExtensions returns the configured extensions, normalized to start with a
// dot and lower-cased, or DefaultExtensions.
func (c *Config) GetExtensions() []string {
	var out []string
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultExtensions...)
	}
	return out
}

// ScanOverrides returns the keyword additions and policy from the config.
func (c *Config) ScanOverrides() alttext.Config {
	return alttext.Config{
		TargetNamespaces:   c.Namespaces,
		AltParameterNames:  c.AltParams,
		RequireNonEmptyAlt: c.Strict,
	}
}

// ResolveLocalesFile returns the absolute locales file path, or "" if unset.
func (c *Config) ResolveLocalesFile(configPath string) string {
	p := strings.TrimSpace(c.LocalesFile)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/altscan/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "altscan", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "altscan", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/altscan/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "altscan", "config.toml"), nil
}

const defaultConfigTemplate = `# altscan configuration

# Wiki language used to pick namespace and parameter names (see 'altscan locales').
# language = "en"

# Extra keywords on top of the language's own.
# namespaces = ["Media"]
# alt_params = ["alttext"]

# Report links whose alt parameter is present but empty (alt=).
# strict = false

# File extensions scanned by 'altscan index' and 'altscan watch'.
# extensions = [".wiki", ".wikitext", ".mediawiki"]

# YAML file with additional locales or keywords, merged over the builtin table.
# locales_file = "locales.yaml"

# Default workspace directory.
# workspace = "/path/to/wiki/dump"

# [ui]
# accent = "39"
# code_theme = "monokai"

# [log]
# level = "warn"
# format = "console"
`

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
