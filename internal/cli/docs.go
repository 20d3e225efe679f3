package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/altscan/docs"
	"github.com/aidanlsb/altscan/internal/ui"
)

var (
	docsDisplayContext = ui.NewDisplayContext
	docsMarkdownRender = ui.RenderMarkdown
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Read long-form guides bundled into the altscan binary.

Without a topic, lists the available guides.

Examples:
  altscan docs
  altscan docs fixing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		topics, err := builtindocs.Topics()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if isJSONOutput() {
			outputSuccess(topics, &Meta{Count: len(topics)})
			return nil
		}
		for _, t := range topics {
			fmt.Printf("  %-18s %s\n", ui.Accent.Render(t.ID), t.Title)
		}
		fmt.Println(ui.Hint("Run 'altscan docs <topic>' to read one"))
		return nil
	}

	topic, content, err := builtindocs.Read(args[0])
	if err != nil {
		return handleError(ErrInvalidInput, err, "Run 'altscan docs' to list topics")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"id":      topic.ID,
			"title":   topic.Title,
			"content": content,
		}, nil)
		return nil
	}

	display := docsDisplayContext()
	if !display.IsTTY {
		fmt.Print(content)
		return nil
	}
	rendered, err := docsMarkdownRender(content, display.Usable(0))
	if err != nil {
		fmt.Print(content)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
