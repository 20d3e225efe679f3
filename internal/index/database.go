// Package index stores workspace audit results in SQLite.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/altscan/internal/paths"
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

var (
	// ErrPageNotFound indicates the requested file is not in the index.
	ErrPageNotFound = errors.New("page not found in index")
	// ErrIndexLocked indicates another process is rebuilding the index.
	ErrIndexLocked = errors.New("index is locked for rebuild")
)

// CurrentDBVersion is the current database schema version.
// v2: findings carry byte offsets so fixes can splice without rescanning.
const CurrentDBVersion = 2

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the index file location for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, paths.StateDir, "index.db")
}

// Open opens or creates the database.
func Open(workspace string) (*Database, error) {
	dbPath := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", paths.StateDir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// between the watcher's goroutines.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenWithRebuild opens the database, recreating it if the schema is from
// another version. Returns (database, wasRebuilt, error).
func OpenWithRebuild(workspace string) (*Database, bool, error) {
	dbPath := Path(workspace)

	lock, err := acquireIndexLock(filepath.Dir(dbPath))
	if err != nil {
		return nil, false, err
	}
	defer lock.Release()

	rebuilt := false
	if _, err := os.Stat(dbPath); err == nil {
		if db, err := sql.Open("sqlite", dbPath); err == nil {
			compatible := isSchemaCompatible(db)
			db.Close()
			if !compatible {
				if err := removeDatabaseFiles(dbPath); err != nil {
					return nil, false, err
				}
				rebuilt = true
			}
		}
	}

	db, err := Open(workspace)
	return db, rebuilt, err
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

type indexLock struct {
	file *os.File
}

func acquireIndexLock(dir string) (*indexLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", paths.StateDir, err)
	}

	lockFile, err := os.OpenFile(filepath.Join(dir, "index.lock"), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}

	if err := tryLock(lockFile); err != nil {
		lockFile.Close()
		if errors.Is(err, ErrIndexLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	return &indexLock{file: lockFile}, nil
}

func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// isSchemaCompatible checks the stored schema version.
func isSchemaCompatible(db *sql.DB) bool {
	var version string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version); err != nil {
		return false
	}
	v, err := strconv.Atoi(version)
	return err == nil && v == CurrentDBVersion
}

// initialize creates the database schema.
func (d *Database) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per audited file
		CREATE TABLE IF NOT EXISTS pages (
			file_path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			language TEXT NOT NULL,
			link_count INTEGER NOT NULL,
			file_link_count INTEGER NOT NULL,
			finding_count INTEGER NOT NULL,
			file_mtime INTEGER,         -- File modification time (Unix seconds)
			indexed_at INTEGER NOT NULL
		);

		-- File links without alt text
		CREATE TABLE IF NOT EXISTS findings (
			id TEXT PRIMARY KEY,
			file_path TEXT NOT NULL REFERENCES pages(file_path) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,   -- position among the page's findings
			char_offset INTEGER NOT NULL,
			char_length INTEGER NOT NULL,
			byte_start INTEGER NOT NULL,
			byte_end INTEGER NOT NULL,
			raw_text TEXT NOT NULL,
			file_segment TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT ''
		);

		-- Index runs
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER,
			language TEXT NOT NULL,
			full_rebuild INTEGER NOT NULL,
			files_indexed INTEGER NOT NULL DEFAULT 0,
			files_skipped INTEGER NOT NULL DEFAULT 0,
			files_removed INTEGER NOT NULL DEFAULT 0,
			finding_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_findings_file ON findings(file_path, ordinal);
		CREATE INDEX IF NOT EXISTS idx_pages_findings ON pages(finding_count);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}
