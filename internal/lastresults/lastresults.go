// Package lastresults persists the numbered findings of the most recent scan
// so follow-up commands (caption, fix) can refer to them by number.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/atomicfile"
	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/paths"
)

// Source identifies the command that produced the results.
type Source string

const (
	SourceScan  Source = "scan"
	SourceIndex Source = "index"
)

// StdinPath marks findings that came from standard input.
const StdinPath = "-"

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Entry is one numbered finding.
type Entry struct {
	// Path is the workspace-relative file, or StdinPath.
	Path string `json:"path"`
	audit.Finding
}

// FromStdin reports whether the finding was read from standard input and so
// cannot be fixed in place.
func (e Entry) FromStdin() bool {
	return e.Path == StdinPath
}

// LastResults stores the findings of the most recent scan.
// Persisted to .altscan/last-results.json.
type LastResults struct {
	Source   Source `json:"source"`
	Language string `json:"language"`
	// Scan is the keyword set and policy the findings were produced with,
	// including per-command additions such as --alt-param and --strict.
	Scan      alttext.Config `json:"scan"`
	Timestamp time.Time      `json:"timestamp"`
	Entries   []Entry        `json:"entries"`
}

// New builds LastResults from pages audited with profile, numbering findings
// in page order.
func New(source Source, profile audit.Profile, pages []audit.Page) *LastResults {
	lr := &LastResults{
		Source:    source,
		Language:  profile.Language,
		Scan:      profile.Scan,
		Timestamp: time.Now(),
		Entries:   []Entry{},
	}
	for _, p := range pages {
		for _, f := range p.Findings {
			lr.Entries = append(lr.Entries, Entry{Path: p.Path, Finding: f})
		}
	}
	return lr
}

// Path returns the path to the last-results.json file.
func Path(workspace string) string {
	return filepath.Join(workspace, paths.StateDir, "last-results.json")
}

// Write saves the last results to disk.
func Write(workspace string, lr *LastResults) error {
	if err := os.MkdirAll(filepath.Join(workspace, paths.StateDir), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", paths.StateDir, err)
	}

	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}

	if err := atomicfile.WriteFile(Path(workspace), data, 0644); err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the last results from disk.
func Read(workspace string) (*LastResults, error) {
	data, err := os.ReadFile(Path(workspace))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoLastResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}

	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// Get returns the entries for the given 1-indexed numbers, in the given order.
func (lr *LastResults) Get(nums []int) ([]Entry, error) {
	out := make([]Entry, 0, len(nums))
	for _, n := range nums {
		if n < 1 || n > len(lr.Entries) {
			if len(lr.Entries) == 0 {
				return nil, fmt.Errorf("%w: %d (the last scan had no findings)", ErrNumberOutOfRange, n)
			}
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, n, len(lr.Entries))
		}
		out = append(out, lr.Entries[n-1])
	}
	return out, nil
}

// Update replaces entry num after its link was edited in place. Later entries
// of the same file are shifted by the edit's size change so their offsets
// keep pointing at the same links.
func (lr *LastResults) Update(num int, e Entry) error {
	if num < 1 || num > len(lr.Entries) {
		return fmt.Errorf("%w: %d", ErrNumberOutOfRange, num)
	}
	old := lr.Entries[num-1]
	byteDelta := (e.End - e.Start) - (old.End - old.Start)
	runeDelta := e.Length - old.Length

	for i := range lr.Entries {
		other := &lr.Entries[i]
		if i == num-1 || other.Path != old.Path || other.Start < old.End {
			continue
		}
		other.Start += byteDelta
		other.End += byteDelta
		other.Offset += runeDelta
	}
	lr.Entries[num-1] = e
	return nil
}
