package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aidanlsb/altscan/internal/ui"
)

// Set by --json.
var jsonOutput bool

// Response is the envelope every command prints in JSON mode.
type Response struct {
	OK       bool       `json:"ok"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
	Warnings []Warning  `json:"warnings,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
}

// ErrorInfo is the error half of a failed response. Code is one of the
// constants in errors.go.
type ErrorInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem, optionally tied to one file.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Meta carries counts and context for list-like results.
type Meta struct {
	Count     int    `json:"count,omitempty"`
	Language  string `json:"language,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}

func isJSONOutput() bool {
	return jsonOutput
}

func outputJSON(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data any, meta *Meta) {
	outputSuccessWithWarnings(data, nil, meta)
}

func outputSuccessWithWarnings(data any, warnings []Warning, meta *Meta) {
	outputJSON(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

func outputError(code, message string, details any, suggestion string) {
	outputJSON(Response{
		Error: &ErrorInfo{Code: code, Message: message, Details: details, Suggestion: suggestion},
	})
}

// printWarnings writes warnings to stderr in text mode.
func printWarnings(warnings []Warning) {
	for _, w := range warnings {
		msg := w.Message
		if w.Path != "" {
			msg = w.Path + ": " + msg
		}
		fmt.Fprintln(os.Stderr, ui.Warning(msg))
	}
}

// handleError reports err in the current output mode. In JSON mode the error
// is printed as an envelope and nil is returned so cobra stays quiet.
func handleError(code string, err error, suggestion string) error {
	return handleErrorWithDetails(code, err, suggestion, nil)
}

func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

func handleErrorWithDetails(code string, err error, suggestion string, details any) error {
	if jsonOutput {
		outputError(code, err.Error(), details, suggestion)
		return nil
	}
	if suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
	return err
}
