// Package testutil provides reusable helpers for altscan tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestWorkspace represents a temporary wiki workspace for testing.
type TestWorkspace struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestWorkspace creates a new workspace builder.
// Call Build() to create the actual directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// Build creates the workspace directory and all configured files.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()
	w.Path = w.t.TempDir()
	for path, content := range w.files {
		w.WriteFile(path, content)
	}
	return w
}

// WriteFile writes a file into the workspace, creating directories as needed.
func (w *TestWorkspace) WriteFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Touch moves a file's modification time forward so mtime-based staleness
// checks see it as changed even within the same second.
func (w *TestWorkspace) Touch(relPath string, ahead time.Duration) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, filepath.FromSlash(relPath))
	ts := time.Now().Add(ahead)
	if err := os.Chtimes(fullPath, ts, ts); err != nil {
		w.t.Fatalf("failed to touch %s: %v", fullPath, err)
	}
}

// Remove deletes a file from the workspace.
func (w *TestWorkspace) Remove(relPath string) {
	w.t.Helper()
	if err := os.Remove(filepath.Join(w.Path, filepath.FromSlash(relPath))); err != nil {
		w.t.Fatalf("failed to remove %s: %v", relPath, err)
	}
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, filepath.FromSlash(relPath))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(filepath.Join(w.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileEquals fails the test if the file content differs from want.
func (w *TestWorkspace) AssertFileEquals(relPath, want string) {
	w.t.Helper()
	if got := w.ReadFile(relPath); got != want {
		w.t.Errorf("file %s:\n got: %q\nwant: %q", relPath, got, want)
	}
}

// SampleArticle is a small article with one image lacking alt text, one with
// alt text and one plain link.
const SampleArticle = `{{Infobox animal
| name = Cat
}}
The '''cat''' is a [[mammal]].
[[File:Cat.jpg|thumb|A cat on a mat]]
[[File:Kitten.jpg|thumb|alt=A small kitten|Kitten]]
`
