package cli

import (
	"errors"
	"os"

	"github.com/aidanlsb/altscan/internal/alttext"
	"github.com/aidanlsb/altscan/internal/audit"
	"github.com/aidanlsb/altscan/internal/index"
	"github.com/aidanlsb/altscan/internal/lastresults"
	"github.com/aidanlsb/altscan/internal/wikitext"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace and config errors
	ErrWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	ErrConfigInvalid     = "CONFIG_INVALID"
	ErrUnknownLanguage   = "UNKNOWN_LANGUAGE"

	// File errors
	ErrFileNotFound     = "FILE_NOT_FOUND"
	ErrFileReadError    = "FILE_READ_ERROR"
	ErrFileWriteError   = "FILE_WRITE_ERROR"
	ErrFileOutsideRoot  = "FILE_OUTSIDE_WORKSPACE"
	ErrStdinNotWritable = "STDIN_NOT_WRITABLE"

	// Result errors
	ErrNoLastResults  = "NO_LAST_RESULTS"
	ErrResultNotFound = "RESULT_NOT_FOUND"
	ErrStaleResult    = "STALE_RESULT"

	// Markup errors
	ErrUnbalancedMarkup = "UNBALANCED_MARKUP"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnStaleIndex    = "STALE_INDEX"
	WarnSkippedFile   = "SKIPPED_FILE"
	WarnReindexFailed = "INDEX_UPDATE_FAILED"
	WarnNotSaved      = "RESULTS_NOT_SAVED"
	WarnMissingAlt    = "MISSING_ALT_TEXT"
)

// errorCode maps an error to its stable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return ErrFileNotFound
	case errors.Is(err, lastresults.ErrNoLastResults):
		return ErrNoLastResults
	case errors.Is(err, lastresults.ErrNumberOutOfRange):
		return ErrResultNotFound
	case errors.Is(err, lastresults.ErrInvalidNumber):
		return ErrInvalidInput
	case errors.Is(err, alttext.ErrStaleMatch):
		return ErrStaleResult
	case errors.Is(err, wikitext.ErrUnbalancedMarkup):
		return ErrUnbalancedMarkup
	case errors.Is(err, audit.ErrUnknownLanguage):
		return ErrUnknownLanguage
	case errors.Is(err, index.ErrIndexLocked):
		return ErrDatabaseLocked
	default:
		return ErrInternal
	}
}

// suggestionFor returns a follow-up hint for well-known errors.
func suggestionFor(err error) string {
	switch {
	case errors.Is(err, lastresults.ErrNoLastResults):
		return "Run 'altscan scan' first"
	case errors.Is(err, alttext.ErrStaleMatch):
		return "The file changed since it was scanned; run 'altscan scan' again"
	case errors.Is(err, audit.ErrUnknownLanguage):
		return "Run 'altscan locales' to see available languages"
	case errors.Is(err, index.ErrIndexLocked):
		return "Another altscan process is using the index; try again when it finishes"
	default:
		return ""
	}
}

// failWith reports err using its mapped code and suggestion.
func failWith(err error) error {
	return handleError(errorCode(err), err, suggestionFor(err))
}
