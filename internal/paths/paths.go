// Package paths converts between workspace file paths and page titles, and
// finds the wikitext files inside a workspace.
//
// Workspace-relative paths always use '/' separators so that index keys and
// JSON output are stable across platforms.
package paths

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// StateDir is the per-workspace directory holding the index and last results.
const StateDir = ".altscan"

// NormalizeRelPath normalizes a workspace-relative path:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// RelPath returns path relative to root in normalized form. Paths outside
// root are returned unchanged apart from separator normalization.
func RelPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return NormalizeRelPath(rel)
	}
	return filepath.ToSlash(path)
}

// HasExtension reports whether path ends in one of exts, ignoring case.
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// ShouldSkipDir reports whether a directory is never scanned: hidden
// directories (including StateDir) and dependency folders.
func ShouldSkipDir(name string) bool {
	if name == "." || name == "" {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return name == "node_modules"
}

// PageTitle derives a page title from a workspace-relative file path:
// "Animals/Tabby_cat.wiki" -> "Animals/Tabby cat".
func PageTitle(relPath string) string {
	p := NormalizeRelPath(relPath)
	p = strings.TrimSuffix(p, filepath.Ext(p))
	return strings.ReplaceAll(p, "_", " ")
}

// WikiFiles walks root and returns the workspace-relative paths of every
// file with one of exts, sorted.
func WikiFiles(root string, exts []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ShouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !HasExtension(path, exts) {
			return nil
		}
		out = append(out, RelPath(root, path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// IsWithin reports whether path lies inside root after cleaning.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
