package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/paths"
	"github.com/aidanlsb/altscan/internal/sqlutil"
)

// IndexPage stores the audit of one file, replacing earlier data for it.
// fileMtime is the file's modification time (Unix seconds); 0 means unknown
// and the current time is stored instead.
func (d *Database) IndexPage(page audit.Page, language string, fileMtime int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pages WHERE file_path = ?`, page.Path); err != nil {
		return fmt.Errorf("delete page %s: %w", page.Path, err)
	}

	now := time.Now().Unix()
	if fileMtime <= 0 {
		fileMtime = now
	}

	missing := page.Missing()
	_, err = tx.Exec(`
		INSERT INTO pages (file_path, title, language, link_count, file_link_count, finding_count, file_mtime, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		page.Path, paths.PageTitle(page.Path), language,
		page.LinkCount, page.FileLinkCount, missing, fileMtime, now)
	if err != nil {
		return fmt.Errorf("insert page %s: %w", page.Path, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO findings (id, file_path, ordinal, char_offset, char_length, byte_start, byte_end,
			raw_text, file_segment, caption)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ordinal := 0
	for _, f := range page.Findings {
		if !f.IsFinding() {
			continue
		}
		_, err := stmt.Exec(uuid.NewString(), page.Path, ordinal,
			f.Offset, f.Length, f.Start, f.End,
			f.RawText, *f.FileSegment, f.Caption)
		if err != nil {
			return fmt.Errorf("insert finding in %s: %w", page.Path, err)
		}
		ordinal++
	}

	return tx.Commit()
}

// RemoveFile removes a file and its findings from the index.
func (d *Database) RemoveFile(filePath string) error {
	_, err := d.db.Exec(`DELETE FROM pages WHERE file_path = ?`, filePath)
	return err
}

// ClearAllData removes every page and finding, keeping run history.
func (d *Database) ClearAllData() error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"findings", "pages"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// AllIndexedFilePaths returns every indexed workspace path, sorted.
func (d *Database) AllIndexedFilePaths() ([]string, error) {
	rows, err := d.db.Query(`SELECT file_path FROM pages ORDER BY file_path`)
	if err != nil {
		return nil, err
	}
	return sqlutil.CollectStrings(rows)
}

// RemoveFiles removes several files and their findings in one statement.
func (d *Database) RemoveFiles(filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}
	placeholders, args := sqlutil.InClause(filePaths)
	_, err := d.db.Exec(`DELETE FROM pages WHERE file_path IN (`+placeholders+`)`, args...)
	return err
}

// RemoveDeletedFiles drops pages whose files no longer exist under workspace
// and returns their paths.
func (d *Database) RemoveDeletedFiles(workspace string) ([]string, error) {
	indexed, err := d.AllIndexedFilePaths()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, p := range indexed {
		if _, err := os.Stat(filepath.Join(workspace, filepath.FromSlash(p))); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		removed = append(removed, p)
	}
	if err := d.RemoveFiles(removed); err != nil {
		return nil, err
	}
	return removed, nil
}

// GetFileMtime returns the indexed mtime for a file, or 0 if not indexed.
func (d *Database) GetFileMtime(filePath string) (int64, error) {
	var mtime sql.NullInt64
	err := d.db.QueryRow(`SELECT file_mtime FROM pages WHERE file_path = ?`, filePath).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return mtime.Int64, nil
}

// IsFileStale reports whether a file changed on disk since it was indexed.
// Files missing from the index, or from disk, are stale.
func (d *Database) IsFileStale(workspace, filePath string) (bool, error) {
	indexedMtime, err := d.GetFileMtime(filePath)
	if err != nil {
		return false, err
	}
	if indexedMtime == 0 {
		return true, nil
	}

	stat, err := os.Stat(filepath.Join(workspace, filepath.FromSlash(filePath)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return stat.ModTime().Unix() > indexedMtime, nil
}

// StalenessInfo describes which indexed files changed on disk.
type StalenessInfo struct {
	IsStale    bool     `json:"is_stale"`
	StaleFiles []string `json:"stale_files"`
	TotalFiles int      `json:"total_files"`
}

// CheckStaleness compares every indexed mtime against the filesystem.
func (d *Database) CheckStaleness(workspace string) (*StalenessInfo, error) {
	indexed, err := d.AllIndexedFilePaths()
	if err != nil {
		return nil, err
	}

	info := &StalenessInfo{TotalFiles: len(indexed), StaleFiles: []string{}}
	for _, p := range indexed {
		stale, err := d.IsFileStale(workspace, p)
		if err != nil {
			return nil, err
		}
		if stale {
			info.StaleFiles = append(info.StaleFiles, p)
		}
	}
	info.IsStale = len(info.StaleFiles) > 0
	return info, nil
}

// GetMeta returns a metadata value, or "" if unset.
func (d *Database) GetMeta(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetMeta stores a metadata value.
func (d *Database) SetMeta(key, value string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}
