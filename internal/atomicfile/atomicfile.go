// Package atomicfile replaces files without leaving partial writes behind.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces path with data by writing a sibling temp file and
// renaming it over the target.
//
// A zero perm keeps the mode of an existing file, or 0644 for a new one.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	if perm == 0 {
		perm = existingMode(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	// chmod is unsupported on some filesystems; the write still matters more.
	_ = tmp.Chmod(perm)

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return replace(tmpPath, path)
}

// WriteString is WriteFile for string content, keeping the existing mode.
func WriteString(path, content string) error {
	return WriteFile(path, []byte(content), 0)
}

func existingMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return 0o644
}

func replace(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	// Windows refuses to rename over an existing file.
	_ = os.Remove(to)
	if err2 := os.Rename(from, to); err2 != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
