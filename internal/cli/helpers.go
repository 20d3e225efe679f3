package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/index"
)

var errIsDirectory = errors.New("is a directory")

// maybeReindex refreshes one workspace file in the index after an edit.
// It does nothing when the workspace has no index yet.
func maybeReindex(ctx context.Context, workspace, relPath string, profile audit.Profile) *Warning {
	if filepath.IsAbs(filepath.FromSlash(relPath)) {
		return nil
	}
	if _, err := os.Stat(index.Path(workspace)); err != nil {
		return nil
	}

	log := getLogger().WithComponent("reindex")
	warn := func(err error) *Warning {
		log.Warn("index update failed", zap.String("file", relPath), zap.Error(err))
		return &Warning{Code: WarnReindexFailed, Message: "index not updated: " + err.Error(), Path: relPath}
	}

	db, err := index.Open(workspace)
	if err != nil {
		return warn(err)
	}
	defer db.Close()

	ix := index.NewIndexer(db, index.Options{
		Root:       workspace,
		Extensions: getConfig().GetExtensions(),
		Profile:    profile,
		Logger:     getLogger(),
	})
	if !ix.Indexes(relPath) {
		return nil
	}
	if _, err := ix.IndexFile(ctx, relPath); err != nil {
		return warn(err)
	}
	return nil
}

// resolveWorkspaceFile resolves a file argument against the workspace and
// returns its absolute path plus the path used in output.
func resolveWorkspaceFile(workspace, arg string) (abs, display string, err error) {
	abs = filepath.FromSlash(arg)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspace, abs)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", err
	}
	if info.IsDir() {
		return "", "", &os.PathError{Op: "open", Path: arg, Err: errIsDirectory}
	}
	return abs, storedPath(workspace, abs), nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
