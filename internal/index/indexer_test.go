package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/altscan/internal/audit"
)

func writeWikiFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// touch moves a file's mtime forward so second-resolution staleness sees it.
func touch(t *testing.T, root, rel string, ahead time.Duration) {
	t.Helper()
	when := time.Now().Add(ahead)
	if err := os.Chtimes(filepath.Join(root, filepath.FromSlash(rel)), when, when); err != nil {
		t.Fatal(err)
	}
}

func newTestIndexer(t *testing.T, root string) (*Database, *Indexer) {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db, NewIndexer(db, Options{
		Root:       root,
		Extensions: []string{".wiki"},
		Profile:    audit.DefaultProfile(),
	})
}

func TestIndexerRun(t *testing.T) {
	root := t.TempDir()
	writeWikiFile(t, root, "Rome.wiki", "[[File:Colosseum.jpg|thumb|The Colosseum]]")
	writeWikiFile(t, root, "Animals/Cat.wiki", "[[File:Cat.jpg|alt=A cat]] [[File:Kitten.jpg]]")
	writeWikiFile(t, root, "notes.md", "[[File:Ignored.jpg]]")

	db, ix := newTestIndexer(t, root)
	ctx := context.Background()

	var progress []int
	ix.opts.OnFile = func(done, total int) { progress = append(progress, done) }

	run, err := ix.Run(ctx, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.FilesIndexed != 2 || run.FindingCount != 2 {
		t.Errorf("unexpected first run %+v", run)
	}
	if len(progress) != 2 {
		t.Errorf("expected progress callbacks for 2 files, got %v", progress)
	}

	// Nothing changed: every file is skipped.
	run, err = ix.Run(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if run.FilesIndexed != 0 || run.FilesSkipped != 2 {
		t.Errorf("expected incremental run to skip unchanged files, got %+v", run)
	}

	// Fix one page and delete the other.
	writeWikiFile(t, root, "Animals/Cat.wiki", "[[File:Cat.jpg|alt=A cat]] [[File:Kitten.jpg|alt=A kitten]]")
	touch(t, root, "Animals/Cat.wiki", 2*time.Second)
	if err := os.Remove(filepath.Join(root, "Rome.wiki")); err != nil {
		t.Fatal(err)
	}

	run, err = ix.Run(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if run.FilesIndexed != 1 || run.FilesRemoved != 1 || run.FindingCount != 0 {
		t.Errorf("unexpected run after edits %+v", run)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.PageCount != 1 || stats.FileLinkCount != 2 || stats.Coverage() != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestIndexerProfileChangeForcesRebuild(t *testing.T) {
	root := t.TempDir()
	writeWikiFile(t, root, "A.wiki", "[[File:A.jpg|alt=]]")

	db, ix := newTestIndexer(t, root)
	ctx := context.Background()

	if _, err := ix.Run(ctx, false); err != nil {
		t.Fatal(err)
	}
	stats, _ := db.Stats()
	if stats.FindingCount != 0 {
		t.Fatalf("empty alt counts as present by default, got %d findings", stats.FindingCount)
	}

	ix.opts.Profile.Scan.RequireNonEmptyAlt = true
	run, err := ix.Run(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if !run.FullRebuild || run.FindingCount != 1 {
		t.Errorf("expected strict profile to rebuild and report 1 finding, got %+v", run)
	}
}

func TestIndexFileRemovesMissingFile(t *testing.T) {
	root := t.TempDir()
	writeWikiFile(t, root, "A.wiki", "[[File:A.jpg]]")

	db, ix := newTestIndexer(t, root)
	ctx := context.Background()

	page, err := ix.IndexFile(ctx, "A.wiki")
	if err != nil {
		t.Fatal(err)
	}
	if page == nil || len(page.Findings) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	if err := os.Remove(filepath.Join(root, "A.wiki")); err != nil {
		t.Fatal(err)
	}
	page, err = ix.IndexFile(ctx, "A.wiki")
	if err != nil {
		t.Fatal(err)
	}
	if page != nil {
		t.Errorf("expected nil page for deleted file")
	}
	paths, err := db.AllIndexedFilePaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("expected deleted file to leave the index, got %v", paths)
	}
}

func TestIndexerIndexes(t *testing.T) {
	_, ix := newTestIndexer(t, t.TempDir())
	tests := map[string]bool{
		"Rome.wiki":             true,
		"Animals/Cat.wiki":      true,
		"Animals/Cat.md":        false,
		".altscan/x.wiki":       false,
		"sub/.git/objects.wiki": false,
	}
	for p, want := range tests {
		if got := ix.Indexes(p); got != want {
			t.Errorf("Indexes(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestIndexerRunHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeWikiFile(t, root, "A.wiki", "[[File:A.jpg]]")
	_, ix := newTestIndexer(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ix.Run(ctx, false); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
