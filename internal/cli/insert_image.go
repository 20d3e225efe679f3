package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/atomicfile"
	"github.com/aidanlsb/altscan/internal/ui"
	"github.com/aidanlsb/altscan/internal/wikitext"
)

type insertImageResult struct {
	Path    string `json:"path"`
	Image   string `json:"image"`
	Offset  int    `json:"offset"`
	Applied bool   `json:"applied"`
}

var insertImageCmd = &cobra.Command{
	Use:   "insert-image <file> --image WIKITEXT",
	Short: "Insert an image link after the leading templates of an article",
	Long: `Inserts image wikitext into an article after its leading templates
(infoboxes, hatnotes) and HTML comments, before the first line of prose.

Examples:
  altscan insert-image Cat.wiki --image "[[File:Cat.jpg|thumb|alt=A grey cat|Cat]]"
  altscan insert-image Cat.wiki --image "[[File:Cat.jpg|thumb]]" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runInsertImage,
}

func init() {
	rootCmd.AddCommand(insertImageCmd)
	insertImageCmd.Flags().String("image", "", "Image wikitext to insert (required)")
	insertImageCmd.Flags().Bool("dry-run", false, "Show where the image would go without writing")
	_ = insertImageCmd.MarkFlagRequired("image")
}

func runInsertImage(cmd *cobra.Command, args []string) error {
	image, _ := cmd.Flags().GetString("image")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	image = strings.TrimSpace(image)
	if image == "" {
		return handleErrorMsg(ErrMissingArgument, "image wikitext must not be empty", "Pass --image \"[[File:Name.jpg|thumb|alt=...]]\"")
	}

	workspace := getWorkspace()
	file, display, err := resolveWorkspaceFile(workspace, args[0])
	if err != nil {
		return failWith(err)
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	text := string(content)

	updated, err := wikitext.InsertAfterTemplates(text, image)
	if err != nil {
		return handleErrorWithDetails(errorCode(err), err, "Fix the unbalanced {{ }} or <!-- --> markup first", map[string]any{
			"path": display,
		})
	}

	result := insertImageResult{
		Path:   display,
		Image:  image,
		Offset: insertionOffset(text, updated),
	}

	var warnings []Warning
	profile, err := getProfile(alttext.Config{})
	if err != nil {
		return failWith(err)
	}
	if page := profile.Audit(display, image, false); page.Missing() > 0 {
		warnings = append(warnings, Warning{Code: WarnMissingAlt, Message: "the inserted image has no alt text", Path: display})
	}

	if !dryRun {
		if err := atomicfile.WriteFile(file, []byte(updated), 0); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
		result.Applied = true
		if w := maybeReindex(commandContext(cmd), workspace, display, profile); w != nil {
			warnings = append(warnings, *w)
		}
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(result, warnings, nil)
		return nil
	}

	if dryRun {
		fmt.Println(ui.Header("Dry run - no changes written"))
	}
	if i := strings.Index(updated[result.Offset:], image); i >= 0 {
		start := result.Offset + i
		fmt.Println(ui.Excerpt(updated, start, start+len(image), 40))
	} else {
		fmt.Println(ui.Accent.Render(image))
	}
	printWarnings(warnings)
	if result.Applied {
		fmt.Println(ui.Checkf("Inserted image into %s", ui.FilePath(display)))
	}
	return nil
}

// insertionOffset returns the byte offset where updated first differs from text.
func insertionOffset(text, updated string) int {
	n := len(text)
	if len(updated) < n {
		n = len(updated)
	}
	for i := 0; i < n; i++ {
		if text[i] != updated[i] {
			return i
		}
	}
	return n
}
