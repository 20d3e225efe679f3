package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/altscan/internal/config"
	"github.com/aidanlsb/altscan/internal/locale"
	"github.com/aidanlsb/altscan/internal/logging"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// testResponse mirrors Response with Data left raw for typed decoding.
type testResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func (r testResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, r.Data)
	}
}

// useTestWorkspace points the CLI globals at workspace in JSON mode and
// restores them when the test ends.
func useTestWorkspace(t *testing.T, workspace string) {
	t.Helper()

	prevWorkspace := resolvedWorkspace
	prevCfg := cfg
	prevLocales := locales
	prevLogger := logger
	prevJSON := jsonOutput
	prevLang := languageFlag
	prevConfigPath := configPath
	prevStdin := stdin
	prevStdinIsTerminal := stdinIsTerminal
	t.Cleanup(func() {
		resolvedWorkspace = prevWorkspace
		cfg = prevCfg
		locales = prevLocales
		logger = prevLogger
		jsonOutput = prevJSON
		languageFlag = prevLang
		configPath = prevConfigPath
		stdin = prevStdin
		stdinIsTerminal = prevStdinIsTerminal
	})

	table, err := locale.Builtin()
	if err != nil {
		t.Fatalf("locale.Builtin: %v", err)
	}
	resolvedWorkspace = workspace
	cfg = &config.Config{}
	locales = table
	logger = logging.Nop()
	jsonOutput = true
	languageFlag = ""
	stdinIsTerminal = func() bool { return true }
}

// runJSON runs cmd with flags and args and decodes the JSON envelope.
func runJSON(t *testing.T, cmd *cobra.Command, args []string, flags map[string]string) testResponse {
	t.Helper()
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}
	defer resetFlags(cmd)

	var runErr error
	out := captureStdout(t, func() {
		runErr = cmd.RunE(cmd, args)
	})
	if runErr != nil {
		t.Fatalf("%s returned error: %v", cmd.Name(), runErr)
	}

	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON from %s: %v\n%s", cmd.Name(), err, out)
	}
	return resp
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
