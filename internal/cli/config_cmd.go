package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/config"
	"github.com/aidanlsb/altscan/internal/logging"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	configExists bool
}

var (
	configSetLanguage    string
	configSetStrict      bool
	configSetWorkspace   string
	configSetLocalesFile string
	configSetExtensions  []string
	configSetNamespaces  []string
	configSetAltParams   []string
	configSetUIAccent    string
	configSetUICodeTheme string
	configSetLogLevel    string
	configSetLogFormat   string

	configUnsetLanguage    bool
	configUnsetWorkspace   bool
	configUnsetLocalesFile bool
	configUnsetExtensions  bool
	configUnsetNamespaces  bool
	configUnsetAltParams   bool
	configUnsetUIAccent    bool
	configUnsetUICodeTheme bool
	configUnsetLog         bool
)

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	path := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(path)
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, statErr
	}
	exists := statErr == nil

	loaded := &config.Config{}
	if exists {
		var err error
		if loaded, err = config.LoadFrom(path); err != nil {
			return nil, err
		}
	}
	return &globalConfigContext{cfg: loaded, configPath: path, configExists: exists}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	return map[string]interface{}{
		"config_path":  ctx.configPath,
		"exists":       ctx.configExists,
		"language":     ctx.cfg.GetLanguage(),
		"namespaces":   ctx.cfg.Namespaces,
		"alt_params":   ctx.cfg.AltParams,
		"strict":       ctx.cfg.Strict,
		"extensions":   ctx.cfg.GetExtensions(),
		"locales_file": strings.TrimSpace(ctx.cfg.LocalesFile),
		"workspace":    strings.TrimSpace(ctx.cfg.Workspace),
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
		"log": map[string]interface{}{
			"level":  strings.TrimSpace(ctx.cfg.Log.Level),
			"format": strings.TrimSpace(ctx.cfg.Log.Format),
		},
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'altscan config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("language: %s\n", ctx.cfg.GetLanguage())
	fmt.Printf("strict: %t\n", ctx.cfg.Strict)
	fmt.Printf("extensions: %s\n", strings.Join(ctx.cfg.GetExtensions(), ", "))
	if len(ctx.cfg.Namespaces) > 0 {
		fmt.Printf("namespaces: %s\n", strings.Join(ctx.cfg.Namespaces, ", "))
	}
	if len(ctx.cfg.AltParams) > 0 {
		fmt.Printf("alt_params: %s\n", strings.Join(ctx.cfg.AltParams, ", "))
	}
	if v := strings.TrimSpace(ctx.cfg.LocalesFile); v != "" {
		fmt.Printf("locales_file: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.Workspace); v != "" {
		fmt.Printf("workspace: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.CodeTheme); v != "" {
		fmt.Printf("ui.code_theme: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.Log.Level); v != "" {
		fmt.Printf("log.level: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.Log.Format); v != "" {
		fmt.Printf("log.format: %s\n", v)
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the global altscan config.toml",
	Long: `Manage the global altscan config.toml.

Use this to initialize, inspect, and edit the default language, extra
keywords, strict mode and display settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current config",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": path}, nil)
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)
		_, statErr := os.Stat(targetPath)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return handleError(ErrFileReadError, statErr, "")
		}

		createdPath, err := config.CreateDefault(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Config already exists: %s\n", createdPath)
		} else {
			fmt.Printf("Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		changed := make([]string, 0, 4)
		flags := cmd.Flags()

		if flags.Changed("language") {
			value := strings.TrimSpace(configSetLanguage)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "language cannot be empty; use 'altscan config unset --language' to clear it", "")
			}
			ctx.cfg.Language = value
			table, err := loadLocales(ctx.cfg, ctx.configPath)
			if err != nil {
				return handleError(ErrConfigInvalid, err, "")
			}
			if _, ok := table.Lookup(value); !ok {
				return handleErrorMsg(ErrUnknownLanguage, fmt.Sprintf("unknown language %q", value), "Run 'altscan locales' to see available languages")
			}
			changed = append(changed, "language")
		}
		if flags.Changed("strict") {
			ctx.cfg.Strict = configSetStrict
			changed = append(changed, "strict")
		}
		if flags.Changed("workspace") {
			value := strings.TrimSpace(configSetWorkspace)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "workspace cannot be empty; use 'altscan config unset --workspace' to clear it", "")
			}
			ctx.cfg.Workspace = value
			changed = append(changed, "workspace")
		}
		if flags.Changed("locales-file") {
			value := strings.TrimSpace(configSetLocalesFile)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "locales-file cannot be empty; use 'altscan config unset --locales-file' to clear it", "")
			}
			ctx.cfg.LocalesFile = value
			if _, err := loadLocales(ctx.cfg, ctx.configPath); err != nil {
				return handleError(ErrConfigInvalid, err, "")
			}
			changed = append(changed, "locales_file")
		}
		if flags.Changed("extensions") {
			ctx.cfg.Extensions = configSetExtensions
			changed = append(changed, "extensions")
		}
		if flags.Changed("namespaces") {
			ctx.cfg.Namespaces = configSetNamespaces
			changed = append(changed, "namespaces")
		}
		if flags.Changed("alt-params") {
			ctx.cfg.AltParams = configSetAltParams
			changed = append(changed, "alt_params")
		}
		if flags.Changed("ui-accent") {
			value := strings.TrimSpace(configSetUIAccent)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-accent cannot be empty; use 'altscan config unset --ui-accent' to clear it", "")
			}
			ctx.cfg.UI.Accent = value
			changed = append(changed, "ui.accent")
		}
		if flags.Changed("ui-code-theme") {
			value := strings.TrimSpace(configSetUICodeTheme)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-code-theme cannot be empty; use 'altscan config unset --ui-code-theme' to clear it", "")
			}
			ctx.cfg.UI.CodeTheme = value
			changed = append(changed, "ui.code_theme")
		}
		if flags.Changed("log-level") || flags.Changed("log-format") {
			next := ctx.cfg.Log
			if flags.Changed("log-level") {
				next.Level = strings.TrimSpace(configSetLogLevel)
				changed = append(changed, "log.level")
			}
			if flags.Changed("log-format") {
				next.Format = strings.TrimSpace(configSetLogFormat)
				changed = append(changed, "log.format")
			}
			if _, err := logging.New(logging.Config{Level: next.Level, Format: next.Format}); err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
			ctx.cfg.Log = next
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; run 'altscan config set --help' for the available flags", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		ctx.configExists = true
		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if !ctx.configExists {
			return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("config file not found: %s", ctx.configPath), "Run 'altscan config init' first")
		}

		changed := make([]string, 0, 4)
		if configUnsetLanguage {
			ctx.cfg.Language = ""
			changed = append(changed, "language")
		}
		if configUnsetWorkspace {
			ctx.cfg.Workspace = ""
			changed = append(changed, "workspace")
		}
		if configUnsetLocalesFile {
			ctx.cfg.LocalesFile = ""
			changed = append(changed, "locales_file")
		}
		if configUnsetExtensions {
			ctx.cfg.Extensions = nil
			changed = append(changed, "extensions")
		}
		if configUnsetNamespaces {
			ctx.cfg.Namespaces = nil
			changed = append(changed, "namespaces")
		}
		if configUnsetAltParams {
			ctx.cfg.AltParams = nil
			changed = append(changed, "alt_params")
		}
		if configUnsetUIAccent {
			ctx.cfg.UI.Accent = ""
			changed = append(changed, "ui.accent")
		}
		if configUnsetUICodeTheme {
			ctx.cfg.UI.CodeTheme = ""
			changed = append(changed, "ui.code_theme")
		}
		if configUnsetLog {
			ctx.cfg.Log = config.LogConfig{}
			changed = append(changed, "log")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; run 'altscan config unset --help' for the available flags", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("cleared: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&configSetLanguage, "language", "", "Default wiki language code")
	configSetCmd.Flags().BoolVar(&configSetStrict, "strict", false, "Report alt parameters that are present but empty")
	configSetCmd.Flags().StringVar(&configSetWorkspace, "workspace", "", "Default workspace directory")
	configSetCmd.Flags().StringVar(&configSetLocalesFile, "locales-file", "", "YAML file merged over the builtin locales")
	configSetCmd.Flags().StringSliceVar(&configSetExtensions, "extensions", nil, "File extensions to index (e.g. .wiki,.txt)")
	configSetCmd.Flags().StringSliceVar(&configSetNamespaces, "namespaces", nil, "Extra file namespace names")
	configSetCmd.Flags().StringSliceVar(&configSetAltParams, "alt-params", nil, "Extra alt parameter names")
	configSetCmd.Flags().StringVar(&configSetUIAccent, "ui-accent", "", "Accent color (ANSI code or #RRGGBB)")
	configSetCmd.Flags().StringVar(&configSetUICodeTheme, "ui-code-theme", "", "Code block theme for rendered reports")
	configSetCmd.Flags().StringVar(&configSetLogLevel, "log-level", "", "Diagnostic log level")
	configSetCmd.Flags().StringVar(&configSetLogFormat, "log-format", "", "Diagnostic log format (console or json)")

	configUnsetCmd.Flags().BoolVar(&configUnsetLanguage, "language", false, "Clear language")
	configUnsetCmd.Flags().BoolVar(&configUnsetWorkspace, "workspace", false, "Clear workspace")
	configUnsetCmd.Flags().BoolVar(&configUnsetLocalesFile, "locales-file", false, "Clear locales_file")
	configUnsetCmd.Flags().BoolVar(&configUnsetExtensions, "extensions", false, "Clear extensions")
	configUnsetCmd.Flags().BoolVar(&configUnsetNamespaces, "namespaces", false, "Clear namespaces")
	configUnsetCmd.Flags().BoolVar(&configUnsetAltParams, "alt-params", false, "Clear alt_params")
	configUnsetCmd.Flags().BoolVar(&configUnsetUIAccent, "ui-accent", false, "Clear ui.accent")
	configUnsetCmd.Flags().BoolVar(&configUnsetUICodeTheme, "ui-code-theme", false, "Clear ui.code_theme")
	configUnsetCmd.Flags().BoolVar(&configUnsetLog, "log", false, "Clear the [log] section")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
