package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/lastresults"
	"github.com/aidanlsb/altscan/internal/ui"
)

type captionItem struct {
	Num     int    `json:"num"`
	Path    string `json:"path"`
	File    string `json:"file"`
	Caption string `json:"caption"`
	RawText string `json:"raw_text"`
}

var captionCmd = &cobra.Command{
	Use:   "caption <nums>",
	Short: "Show captions of numbered findings",
	Long: `Shows the display caption of findings from the last scan.

Captions are cleaned of templates, HTML and link markup, which makes them a
useful starting point for writing alt text.

Examples:
  altscan caption 1
  altscan caption 1,3-5
  altscan caption 2 4 7`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCaption,
}

func init() {
	rootCmd.AddCommand(captionCmd)
}

func runCaption(cmd *cobra.Command, args []string) error {
	nums, err := lastresults.ParseNumberArgs(args)
	if err != nil {
		return failWith(err)
	}
	lr, err := lastresults.Read(getWorkspace())
	if err != nil {
		return failWith(err)
	}
	entries, err := lr.Get(nums)
	if err != nil {
		return failWith(err)
	}

	items := make([]captionItem, 0, len(entries))
	for i, e := range entries {
		items = append(items, captionItem{
			Num:     nums[i],
			Path:    e.Path,
			File:    e.Target,
			Caption: e.Caption,
			RawText: e.RawText,
		})
	}

	if isJSONOutput() {
		outputSuccess(items, &Meta{Count: len(items)})
		return nil
	}

	for _, it := range items {
		caption := it.Caption
		if caption == "" {
			caption = ui.Hint("(no caption)")
		}
		fmt.Printf("%s %s %s\n", ui.Hint(fmt.Sprintf("%d.", it.Num)), ui.Bold.Render(it.File), ui.Hint("in "+it.Path))
		fmt.Printf("   %s\n", caption)
	}
	return nil
}
