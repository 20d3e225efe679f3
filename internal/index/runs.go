package index

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run records one invocation of the indexer.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
	Language     string    `json:"language"`
	FullRebuild  bool      `json:"full_rebuild"`
	FilesIndexed int       `json:"files_indexed"`
	FilesSkipped int       `json:"files_skipped"`
	FilesRemoved int       `json:"files_removed"`
	FindingCount int       `json:"findings"`
}

// Duration returns how long the run took, or 0 if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// StartRun records the start of an index run.
func (d *Database) StartRun(language string, fullRebuild bool) (*Run, error) {
	r := &Run{
		ID:          uuid.NewString(),
		StartedAt:   time.Now(),
		Language:    language,
		FullRebuild: fullRebuild,
	}
	_, err := d.db.Exec(`INSERT INTO runs (id, started_at, language, full_rebuild) VALUES (?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), r.Language, r.FullRebuild)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FinishRun stores the final counters of r.
func (d *Database) FinishRun(r *Run) error {
	r.FinishedAt = time.Now()
	_, err := d.db.Exec(`
		UPDATE runs SET finished_at = ?, files_indexed = ?, files_skipped = ?, files_removed = ?, finding_count = ?
		WHERE id = ?`,
		r.FinishedAt.UnixMilli(), r.FilesIndexed, r.FilesSkipped, r.FilesRemoved, r.FindingCount, r.ID)
	return err
}

// LatestRun returns the most recent finished run, or nil if none exists.
func (d *Database) LatestRun() (*Run, error) {
	var r Run
	var started, finished int64
	err := d.db.QueryRow(`
		SELECT id, started_at, finished_at, language, full_rebuild, files_indexed, files_skipped, files_removed, finding_count
		FROM runs WHERE finished_at IS NOT NULL
		ORDER BY started_at DESC LIMIT 1
	`).Scan(&r.ID, &started, &finished, &r.Language, &r.FullRebuild, &r.FilesIndexed, &r.FilesSkipped, &r.FilesRemoved, &r.FindingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)
	return &r, nil
}
