package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/ui"
)

type indexResult struct {
	Run     *index.Run        `json:"run"`
	Stats   *index.IndexStats `json:"stats"`
	Rebuilt bool              `json:"rebuilt"`
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Audit every wiki file in the workspace into the index",
	Long: `Scans the workspace's wiki files and stores findings in
.altscan/index.db for reports and the watcher.

Only files changed since the last run are re-audited. Deleted files are
removed. Changing the language, keywords or strict mode triggers a full
rebuild automatically.

Examples:
  altscan index
  altscan index --rebuild
  altscan index --status`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Bool("rebuild", false, "Discard the index and audit every file again")
	indexCmd.Flags().Bool("status", false, "Only report which indexed files changed on disk")
}

func runIndex(cmd *cobra.Command, args []string) error {
	rebuild, _ := cmd.Flags().GetBool("rebuild")
	statusOnly, _ := cmd.Flags().GetBool("status")
	workspace := getWorkspace()

	if statusOnly {
		return runIndexStatus(workspace)
	}

	profile, err := getProfile(alttext.Config{})
	if err != nil {
		return failWith(err)
	}

	db, wasRebuilt, err := index.OpenWithRebuild(workspace)
	if err != nil {
		return failWith(err)
	}
	defer db.Close()

	if wasRebuilt && !isJSONOutput() {
		fmt.Println(ui.Infof("Index was created by another version - rebuilding."))
	}

	var progress *ui.Progress
	ix := index.NewIndexer(db, index.Options{
		Root:       workspace,
		Extensions: getConfig().GetExtensions(),
		Profile:    profile,
		Logger:     getLogger(),
		OnFile: func(done, total int) {
			if isJSONOutput() {
				return
			}
			if progress == nil {
				progress = ui.NewProgress("Indexing", total)
			}
			progress.Increment()
		},
	})

	run, err := ix.Run(commandContext(cmd), rebuild || wasRebuilt)
	if progress != nil {
		progress.Done()
	}
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'altscan index --rebuild' to start over")
	}

	stats, err := db.Stats()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(indexResult{Run: run, Stats: stats, Rebuilt: wasRebuilt}, &Meta{
			Count:     stats.FindingCount,
			Language:  run.Language,
			ElapsedMs: run.Duration().Milliseconds(),
		})
		return nil
	}

	fmt.Println(ui.Checkf("Indexed %d files %s in %s",
		run.FilesIndexed,
		ui.Hint(fmt.Sprintf("(%d unchanged, %d removed)", run.FilesSkipped, run.FilesRemoved)),
		run.Duration().Round(time.Millisecond)))
	printStats(stats)
	return nil
}

func runIndexStatus(workspace string) error {
	db, err := index.Open(workspace)
	if err != nil {
		return failWith(err)
	}
	defer db.Close()

	info, err := db.CheckStaleness(workspace)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(info, &Meta{Count: len(info.StaleFiles)})
		return nil
	}
	if !info.IsStale {
		fmt.Println(ui.Checkf("Index is up to date %s", ui.Hint(ui.Count(info.TotalFiles, "file", "files"))))
		return nil
	}
	fmt.Println(ui.Warningf("%d of %d indexed files changed on disk", len(info.StaleFiles), info.TotalFiles))
	for _, f := range info.StaleFiles {
		fmt.Printf("  %s\n", ui.FilePath(f))
	}
	fmt.Println(ui.Hint("Run 'altscan index' to update"))
	return nil
}

func printStats(s *index.IndexStats) {
	if s.FileLinkCount == 0 {
		fmt.Println(ui.Hint(fmt.Sprintf("%d pages, no file links", s.PageCount)))
		return
	}
	line := fmt.Sprintf("%d of %d file links lack alt text across %d of %d pages (%.1f%% covered)",
		s.FindingCount, s.FileLinkCount, s.PagesWithFindings, s.PageCount, s.Coverage()*100)
	if s.FindingCount == 0 {
		fmt.Println(ui.Check(line))
		return
	}
	fmt.Println(ui.Warning(line))
	fmt.Println(ui.Hint("Run 'altscan report' for details"))
}
