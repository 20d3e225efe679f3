package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/ui"
	"github.com/aidanlsb/altscan/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and re-audit files as they change",
	Long: `Watch the workspace for file changes and keep the index up to date.

This runs in the foreground. The index is brought up to date first, then
each saved file is re-audited once it has been quiet for the debounce
interval. Hidden directories are ignored.

Examples:
  altscan watch
  altscan watch --debounce 500ms
  altscan watch --log-level info`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", watcher.DefaultDebounce, "How long a file must be quiet before it is re-audited")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")
	workspace := getWorkspace()

	profile, err := getProfile(alttext.Config{})
	if err != nil {
		return failWith(err)
	}

	db, wasRebuilt, err := index.OpenWithRebuild(workspace)
	if err != nil {
		return failWith(err)
	}
	defer db.Close()

	ix := index.NewIndexer(db, index.Options{
		Root:       workspace,
		Extensions: getConfig().GetExtensions(),
		Profile:    profile,
		Logger:     getLogger(),
	})

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down watcher...")
			cancel()
		case <-ctx.Done():
		}
	}()

	run, err := ix.Run(ctx, wasRebuilt)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	fmt.Println(ui.Infof("Index up to date: %d files re-audited, %d findings", run.FilesIndexed, run.FindingCount))

	w, err := watcher.New(watcher.Config{
		Indexer:  ix,
		Debounce: debounce,
		Logger:   getLogger(),
		OnReindex: func(relPath string, page *audit.Page, err error) {
			switch {
			case err != nil:
				fmt.Fprintln(os.Stderr, ui.Error(fmt.Sprintf("%s: %v", relPath, err)))
			case page == nil:
				fmt.Printf("%s %s\n", ui.FilePath(relPath), ui.Hint("removed"))
			case page.Missing() == 0:
				fmt.Println(ui.Checkf("%s %s", ui.FilePath(relPath), ui.Hint(ui.Count(page.FileLinkCount, "file link", "file links"))))
			default:
				fmt.Println(ui.Warningf("%s %s", ui.FilePath(relPath), ui.Hint(ui.Count(page.Missing(), "link without alt text", "links without alt text"))))
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	fmt.Printf("Watching workspace: %s\n", ui.FilePath(workspace))
	fmt.Println("Press Ctrl+C to stop")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
