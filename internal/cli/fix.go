package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/atomicfile"
	"github.com/aidanlsb/altscan/internal/lastresults"
	"github.com/aidanlsb/altscan/internal/ui"
)

type fixResult struct {
	Num     int    `json:"num"`
	Path    string `json:"path"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Applied bool   `json:"applied"`
}

var fixCmd = &cobra.Command{
	Use:   "fix <num> --alt TEXT",
	Short: "Insert alt text into a numbered finding",
	Long: `Adds an alt parameter to a file link found by the last scan and saves
the file.

The alt parameter goes in front of the caption when the link has one, so
the caption stays last. An existing empty alt parameter is filled in
instead. The file must not have changed since it was scanned.

Examples:
  altscan fix 1 --alt "A grey cat sleeping on a red mat"
  altscan fix 3 --alt "Map of Rome" --dry-run
  altscan fix 2 --alt "Eine Katze" --param alternativtext`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().String("alt", "", "Alt text to insert (required)")
	fixCmd.Flags().String("caption", "", "Caption to place the alt parameter before (default: detected caption)")
	fixCmd.Flags().String("param", "", "Alt parameter name (default: the language's first alt parameter)")
	fixCmd.Flags().Bool("dry-run", false, "Show the change without writing it")
	_ = fixCmd.MarkFlagRequired("alt")
}

func runFix(cmd *cobra.Command, args []string) error {
	altText, _ := cmd.Flags().GetString("alt")
	caption, _ := cmd.Flags().GetString("caption")
	param, _ := cmd.Flags().GetString("param")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if strings.TrimSpace(altText) == "" {
		return handleErrorMsg(ErrMissingArgument, "alt text must not be empty", "Pass --alt \"description of the image\"")
	}
	nums, err := lastresults.ParseNumbers(args[0])
	if err != nil {
		return failWith(err)
	}
	if len(nums) != 1 {
		return handleErrorMsg(ErrInvalidInput, "fix takes exactly one result number", "Run 'altscan fix' once per finding")
	}
	num := nums[0]

	workspace := getWorkspace()
	lr, err := lastresults.Read(workspace)
	if err != nil {
		return failWith(err)
	}
	entries, err := lr.Get(nums)
	if err != nil {
		return failWith(err)
	}
	entry := entries[0]
	if entry.FromStdin() {
		return handleErrorMsg(ErrStdinNotWritable, fmt.Sprintf("result %d was read from standard input and cannot be fixed in place", num), "Save the text to a file and scan that file")
	}

	profile, err := profileFor(lr.Language, lr.Scan)
	if err != nil {
		return failWith(err)
	}
	if param == "" && len(profile.Scan.AltParameterNames) > 0 {
		param = profile.Scan.AltParameterNames[0]
	}
	if caption == "" {
		caption = entry.Caption
	}

	file := entryFile(workspace, entry.Path)
	content, err := os.ReadFile(file)
	if err != nil {
		return failWith(err)
	}
	text := string(content)

	updated, err := alttext.ApplyAltText(text, entry.LinkMatch, profile.Scan, caption, alttext.FormatAltParam(param, altText))
	if err != nil {
		return handleErrorWithDetails(errorCode(err), err, suggestionFor(err), map[string]any{
			"num":  num,
			"path": entry.Path,
		})
	}
	newEnd := entry.End + len(updated) - len(text)
	result := fixResult{
		Num:    num,
		Path:   entry.Path,
		Before: entry.RawText,
		After:  updated[entry.Start:newEnd],
	}

	if dryRun {
		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}
		fmt.Println(ui.Header("Dry run - no changes written"))
		printFixDiff(result)
		return nil
	}

	if err := atomicfile.WriteFile(file, []byte(updated), 0); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	result.Applied = true

	var warnings []Warning
	relinked := alttext.ScanLinks(result.After, profile.Scan)
	if len(relinked) == 1 {
		m := relinked[0]
		m.Start += entry.Start
		m.End += entry.Start
		m.Offset = entry.Offset
		if err := lr.Update(num, lastresults.Entry{Path: entry.Path, Finding: profile.NewFinding(m)}); err == nil {
			if err := lastresults.Write(workspace, lr); err != nil {
				warnings = append(warnings, Warning{Code: WarnNotSaved, Message: err.Error()})
			}
		}
	}
	if w := maybeReindex(commandContext(cmd), workspace, entry.Path, profile); w != nil {
		warnings = append(warnings, *w)
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(result, warnings, nil)
		return nil
	}
	printFixDiff(result)
	printWarnings(warnings)
	fmt.Println(ui.Checkf("Added alt text to %s", ui.FilePath(entry.Path)))
	return nil
}

func printFixDiff(r fixResult) {
	fmt.Printf("%s %s\n", ui.Hint("-"), r.Before)
	fmt.Printf("%s %s\n", ui.Hint("+"), ui.Accent.Render(r.After))
}
