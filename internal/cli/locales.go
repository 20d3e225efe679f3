package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/locale"
	"github.com/aidanlsb/altscan/internal/ui"
)

var localesCmd = &cobra.Command{
	Use:   "locales [lang]",
	Short: "List wiki languages and their keywords",
	Long: `Lists the languages altscan knows, or shows the namespace names, alt
parameter names and image magic words used for one language.

Every language also accepts the English keywords (File, Image, alt).
Add languages or keywords with locales_file in the config.

Examples:
  altscan locales
  altscan locales de`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocales,
}

func init() {
	rootCmd.AddCommand(localesCmd)
}

func runLocales(cmd *cobra.Command, args []string) error {
	table := locales
	if table == nil {
		var err error
		if table, err = locale.Builtin(); err != nil {
			return handleError(ErrInternal, err, "")
		}
	}

	if len(args) == 1 {
		loc, ok := table.Lookup(args[0])
		if !ok {
			return failWith(fmt.Errorf("%w: %q", audit.ErrUnknownLanguage, args[0]))
		}
		if isJSONOutput() {
			outputSuccess(loc, nil)
			return nil
		}
		fmt.Println(ui.Header(fmt.Sprintf("%s (%s)", loc.Name, loc.Code)))
		printKeywords("Namespaces", loc.Namespaces)
		printKeywords("Alt parameters", loc.AltParams)
		printKeywords("Magic words", loc.MagicWords)
		return nil
	}

	codes := table.Languages()
	if isJSONOutput() {
		all := make([]locale.Locale, 0, len(codes))
		for _, code := range codes {
			if loc, ok := table.Lookup(code); ok {
				all = append(all, loc)
			}
		}
		outputSuccess(all, &Meta{Count: len(all)})
		return nil
	}

	current := strings.ToLower(getLanguage())
	for _, code := range codes {
		loc, _ := table.Lookup(code)
		marker := "  "
		if code == current {
			marker = ui.Accent.Render("* ")
		}
		fmt.Printf("%s%-6s %s %s\n", marker, code, loc.Name, ui.Hint(strings.Join(loc.Namespaces, ", ")))
	}
	return nil
}

func printKeywords(label string, words []string) {
	if len(words) == 0 {
		fmt.Printf("  %s %s\n", ui.Bold.Render(label+":"), ui.Hint("(none)"))
		return
	}
	fmt.Printf("  %s %s\n", ui.Bold.Render(label+":"), strings.Join(words, ", "))
}
