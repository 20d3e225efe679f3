package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/atomicfile"
	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/report"
	"github.com/aidanlsb/altscan/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the indexed findings",
	Long: `Renders a report of every indexed page with missing alt text, most
findings first.

The report is rendered for the terminal by default. Use --raw for plain
markdown or --html to write a standalone HTML page.

Examples:
  altscan report
  altscan report --max 20
  altscan report --raw > report.md
  altscan report --html report.html`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("html", "", "Write the report as HTML to this file")
	reportCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")
	reportCmd.Flags().Int("max", 0, "Maximum number of pages to include (0 = all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	htmlPath, _ := cmd.Flags().GetString("html")
	raw, _ := cmd.Flags().GetBool("raw")
	maxPages, _ := cmd.Flags().GetInt("max")
	if maxPages < 0 {
		return handleErrorMsg(ErrInvalidInput, "--max must not be negative", "")
	}

	workspace := getWorkspace()
	if _, err := os.Stat(index.Path(workspace)); err != nil {
		return handleErrorMsg(ErrDatabaseError, "no index found in "+workspace, "Run 'altscan index' first")
	}
	db, err := index.Open(workspace)
	if err != nil {
		return failWith(err)
	}
	defer db.Close()

	var warnings []Warning
	if info, err := db.CheckStaleness(workspace); err == nil && info.IsStale {
		warnings = append(warnings, Warning{
			Code:    WarnStaleIndex,
			Message: fmt.Sprintf("%d indexed files changed since the last 'altscan index'", len(info.StaleFiles)),
		})
	}

	r, err := report.Build(db, workspace, report.Options{MaxPages: maxPages})
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if htmlPath != "" {
		page, err := r.HTML()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if err := atomicfile.WriteFile(htmlPath, page, 0644); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"html": htmlPath, "pages": len(r.Pages)}, warnings, nil)
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Checkf("Wrote %s", ui.FilePath(htmlPath)))
		return nil
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(r, warnings, &Meta{Count: len(r.Pages)})
		return nil
	}

	printWarnings(warnings)
	md := r.Markdown()
	display := ui.NewDisplayContext()
	if raw || !display.IsTTY {
		fmt.Print(md)
		return nil
	}
	rendered, err := ui.RenderMarkdown(md, display.Usable(0))
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

