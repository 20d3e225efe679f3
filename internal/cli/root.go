// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/config"
	"github.com/aidanlsb/altscan/internal/locale"
	"github.com/aidanlsb/altscan/internal/logging"
	"github.com/aidanlsb/altscan/internal/ui"
)

var (
	// Global flags
	configPath    string
	workspaceFlag string
	languageFlag  string
	logLevelFlag  string
	logFormatFlag string

	// Resolved values
	resolvedConfigPath string
	resolvedWorkspace  string
	cfg                *config.Config
	logger             *logging.Logger
	locales            *locale.Table
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "altscan",
	Short: "altscan - find wiki images without alt text",
	Long: `altscan scans MediaWiki wikitext for embedded files that have no alt text.

It understands nested links and templates, localized namespace and parameter
names, and can insert alt text back into the source files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version", "config", "docs":
			return nil
		}
		// config subcommands must work even when the config is broken.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		return setup()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "dir", "C", "", "Workspace directory (default: config workspace or current directory)")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "lang", "l", "", "Wiki language code (e.g. en, de, fr)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Diagnostic log format: console or json")
}

// setup loads the config and resolves everything commands share.
func setup() error {
	var err error
	cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if logLevelFlag != "" {
		logCfg.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		logCfg.Format = logFormatFlag
	}
	if logger, err = logging.New(logCfg); err != nil {
		return err
	}

	if locales, err = loadLocales(cfg, resolvedConfigPath); err != nil {
		return err
	}

	workspace := strings.TrimSpace(workspaceFlag)
	if workspace == "" {
		workspace = strings.TrimSpace(cfg.Workspace)
	}
	if workspace == "" {
		workspace = "."
	}
	if resolvedWorkspace, err = filepath.Abs(workspace); err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}
	info, err := os.Stat(resolvedWorkspace)
	if err != nil {
		return fmt.Errorf("workspace not found: %s", resolvedWorkspace)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace is not a directory: %s", resolvedWorkspace)
	}
	return nil
}

func loadLocales(c *config.Config, cfgPath string) (*locale.Table, error) {
	table, err := locale.Builtin()
	if err != nil {
		return nil, err
	}
	if path := c.ResolveLocalesFile(cfgPath); path != "" {
		extra, err := locale.LoadFile(path)
		if err != nil {
			return nil, err
		}
		table = table.Merge(extra)
	}
	return table, nil
}

// getWorkspace returns the resolved workspace directory.
func getWorkspace() string {
	return resolvedWorkspace
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

// getLogger returns the diagnostic logger.
func getLogger() *logging.Logger {
	if logger == nil {
		return logging.Nop()
	}
	return logger
}

// getLanguage returns the --lang flag or the configured language.
func getLanguage() string {
	if lang := strings.TrimSpace(languageFlag); lang != "" {
		return lang
	}
	return getConfig().GetLanguage()
}

// getProfile builds the audit profile for the current language, with config
// overrides and any per-command extras merged in.
func getProfile(extra alttext.Config) (audit.Profile, error) {
	return profileFor(getLanguage(), extra)
}

func profileFor(lang string, extra alttext.Config) (audit.Profile, error) {
	table := locales
	if table == nil {
		var err error
		if table, err = locale.Builtin(); err != nil {
			return audit.Profile{}, err
		}
	}
	return audit.NewProfile(table, lang, getConfig().ScanOverrides().Merge(extra))
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
		if errors.Is(err, os.ErrNotExist) {
			loadedCfg, err = &config.Config{}, nil
		}
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
