package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/logging"
	"github.com/aidanlsb/altscan/internal/paths"
)

const profileMetaKey = "profile"

// Options configures an Indexer.
type Options struct {
	// Root is the workspace directory.
	Root string

	// Extensions selects which files are indexed.
	Extensions []string

	// Profile is the language profile used to audit every file.
	Profile audit.Profile

	// Logger receives diagnostics; nil discards them.
	Logger *logging.Logger

	// OnFile is called after each file of a run is handled.
	OnFile func(done, total int)
}

// Indexer audits workspace files into a Database.
type Indexer struct {
	db   *Database
	opts Options
	log  *logging.Logger
}

// NewIndexer creates an indexer writing to db.
func NewIndexer(db *Database, opts Options) *Indexer {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Indexer{db: db, opts: opts, log: log.WithComponent("indexer")}
}

// Root returns the workspace directory.
func (ix *Indexer) Root() string {
	return ix.opts.Root
}

// Indexes reports whether a workspace-relative path is eligible for indexing.
func (ix *Indexer) Indexes(relPath string) bool {
	if !paths.HasExtension(relPath, ix.opts.Extensions) {
		return false
	}
	dir := filepath.Dir(filepath.FromSlash(relPath))
	for dir != "." && dir != string(filepath.Separator) && dir != "" {
		if paths.ShouldSkipDir(filepath.Base(dir)) {
			return false
		}
		dir = filepath.Dir(dir)
	}
	return true
}

// IndexFile audits one workspace-relative file. A file that no longer exists
// is removed from the index instead.
func (ix *Indexer) IndexFile(ctx context.Context, relPath string) (*audit.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	relPath = paths.NormalizeRelPath(relPath)
	full := filepath.Join(ix.opts.Root, filepath.FromSlash(relPath))

	stat, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		ix.log.Debug("removing deleted file", zap.String("file", relPath))
		return nil, ix.db.RemoveFile(relPath)
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}

	page := ix.opts.Profile.Audit(relPath, string(data), false)
	if err := ix.db.IndexPage(page, ix.opts.Profile.Language, stat.ModTime().Unix()); err != nil {
		return nil, fmt.Errorf("index %s: %w", relPath, err)
	}
	ix.log.Debug("indexed file",
		zap.String("file", relPath),
		zap.Int("file_links", page.FileLinkCount),
		zap.Int("findings", page.Missing()))
	return &page, nil
}

// Run indexes the workspace. Without full, only files changed since their
// last indexing are audited; a changed profile (language or keywords)
// always forces a full rebuild.
func (ix *Indexer) Run(ctx context.Context, full bool) (*Run, error) {
	fingerprint, err := json.Marshal(ix.opts.Profile)
	if err != nil {
		return nil, err
	}
	previous, err := ix.db.GetMeta(profileMetaKey)
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != string(fingerprint) && !full {
		ix.log.Info("profile changed, rebuilding index")
		full = true
	}

	files, err := paths.WikiFiles(ix.opts.Root, ix.opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("list workspace files: %w", err)
	}

	run, err := ix.db.StartRun(ix.opts.Profile.Language, full)
	if err != nil {
		return nil, err
	}
	log := ix.log.Logger.With(zap.String("run_id", run.ID))
	log.Info("index run started", zap.Int("files", len(files)), zap.Bool("full", full))

	if full {
		if err := ix.db.ClearAllData(); err != nil {
			return nil, err
		}
	}

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stale := full
		if !stale {
			if stale, err = ix.db.IsFileStale(ix.opts.Root, rel); err != nil {
				return nil, err
			}
		}
		if stale {
			if _, err := ix.IndexFile(ctx, rel); err != nil {
				return nil, err
			}
			run.FilesIndexed++
		} else {
			run.FilesSkipped++
		}
		if ix.opts.OnFile != nil {
			ix.opts.OnFile(i+1, len(files))
		}
	}

	removed, err := ix.db.RemoveDeletedFiles(ix.opts.Root)
	if err != nil {
		return nil, err
	}
	run.FilesRemoved = len(removed)

	stats, err := ix.db.Stats()
	if err != nil {
		return nil, err
	}
	run.FindingCount = stats.FindingCount

	if err := ix.db.SetMeta(profileMetaKey, string(fingerprint)); err != nil {
		return nil, err
	}
	if err := ix.db.FinishRun(run); err != nil {
		return nil, err
	}
	log.Info("index run finished",
		zap.Int("indexed", run.FilesIndexed),
		zap.Int("skipped", run.FilesSkipped),
		zap.Int("removed", run.FilesRemoved),
		zap.Int("findings", run.FindingCount),
		zap.Duration("took", run.Duration()))
	return run, nil
}
