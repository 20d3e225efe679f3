package index

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/sqlutil"
	"github.com/aidanlsb/altscan/internal/wikitext"
)

// IndexStats summarizes the index contents.
type IndexStats struct {
	PageCount         int `json:"pages"`
	PagesWithFindings int `json:"pages_with_findings"`
	LinkCount         int `json:"links"`
	FileLinkCount     int `json:"file_links"`
	FindingCount      int `json:"findings"`
}

// Coverage returns the share of file links that carry alt text, in [0, 1].
// An index without file links is fully covered.
func (s IndexStats) Coverage() float64 {
	if s.FileLinkCount == 0 {
		return 1
	}
	return float64(s.FileLinkCount-s.FindingCount) / float64(s.FileLinkCount)
}

// Stats returns index statistics.
func (d *Database) Stats() (*IndexStats, error) {
	var s IndexStats
	err := d.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN finding_count > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(link_count), 0),
			COALESCE(SUM(file_link_count), 0),
			COALESCE(SUM(finding_count), 0)
		FROM pages
	`).Scan(&s.PageCount, &s.PagesWithFindings, &s.LinkCount, &s.FileLinkCount, &s.FindingCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PageRecord is one indexed file.
type PageRecord struct {
	Path          string `json:"path"`
	Title         string `json:"title"`
	Language      string `json:"language"`
	LinkCount     int    `json:"links"`
	FileLinkCount int    `json:"file_links"`
	FindingCount  int    `json:"findings"`
	FileMtime     int64  `json:"file_mtime"`
	IndexedAt     int64  `json:"indexed_at"`
}

const pageColumns = `file_path, title, language, link_count, file_link_count, finding_count, file_mtime, indexed_at`

func scanPage(row interface{ Scan(...any) error }) (PageRecord, error) {
	var p PageRecord
	var mtime sql.NullInt64
	err := row.Scan(&p.Path, &p.Title, &p.Language, &p.LinkCount, &p.FileLinkCount,
		&p.FindingCount, &mtime, &p.IndexedAt)
	p.FileMtime = mtime.Int64
	return p, err
}

// Pages returns indexed pages, most findings first. With onlyWithFindings
// set, fully covered pages are left out.
func (d *Database) Pages(onlyWithFindings bool) ([]PageRecord, error) {
	query := `SELECT ` + pageColumns + ` FROM pages`
	if onlyWithFindings {
		query += ` WHERE finding_count > 0`
	}
	query += ` ORDER BY finding_count DESC, file_path`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	return sqlutil.CollectRows(rows, func(r *sql.Rows) (PageRecord, error) {
		return scanPage(r)
	})
}

// Page returns one indexed page.
func (d *Database) Page(filePath string) (*PageRecord, error) {
	p, err := scanPage(d.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE file_path = ?`, filePath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// StoredFinding is a finding as persisted in the index.
type StoredFinding struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Ordinal int    `json:"ordinal"`
	audit.Finding
}

// Findings returns stored findings ordered by file and position. An empty
// filePath returns findings for every file.
func (d *Database) Findings(filePath string) ([]StoredFinding, error) {
	query := `
		SELECT id, file_path, ordinal, char_offset, char_length, byte_start, byte_end,
			raw_text, file_segment, caption
		FROM findings`
	var args []any
	if filePath != "" {
		query += ` WHERE file_path = ?`
		args = append(args, filePath)
	}
	query += ` ORDER BY file_path, ordinal`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlutil.CollectRows(rows, scanFinding)
}

func scanFinding(rows *sql.Rows) (StoredFinding, error) {
	var f StoredFinding
	var fileSeg string
	err := rows.Scan(&f.ID, &f.Path, &f.Ordinal, &f.Offset, &f.Length, &f.Start, &f.End,
		&f.RawText, &fileSeg, &f.Caption)
	if err != nil {
		return f, err
	}
	f.FileSegment = &fileSeg
	f.Segments = linkSegments(f.RawText)
	f.Target = strings.TrimSpace(fileSeg)
	return f, nil
}

// linkSegments recovers the segments of a stored link literal.
func linkSegments(raw string) []string {
	if len(raw) < 4 {
		return nil
	}
	return wikitext.SplitSegments(raw[2 : len(raw)-2])
}
