package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/blacken/internal/config"
	"github.com/dshills/blacken/internal/format"
)

func appWithBlack(t *testing.T, script string, opts Options) *Application {
	t.Helper()
	if opts.Overrides == nil {
		opts.Overrides = map[string]any{}
	}
	opts.Overrides[config.KeyExecutable] = fakeBlack(t, script)
	app, _ := newTestApp(t, opts)
	return app
}

func TestFormatFile_Write(t *testing.T) {
	app := appWithBlack(t, quoteScript, Options{})
	path := createTestFile(t, t.TempDir(), "mod.py", "x = 'a'\n")

	res := app.FormatFile(context.Background(), path, ModeWrite)
	if res.Err != nil {
		t.Fatalf("FormatFile() error: %v", res.Err)
	}
	if res.Outcome != format.OutcomeApplied {
		t.Errorf("expected reformatted, got %s", res.Outcome)
	}
	if got := readFile(t, path); got != "x = \"a\"\n" {
		t.Errorf("file not rewritten: %q", got)
	}
	if app.Documents().Count() != 0 {
		t.Error("expected buffer to be closed after formatting")
	}
}

func TestFormatFile_WriteUnchanged(t *testing.T) {
	app := appWithBlack(t, catScript, Options{})
	path := createTestFile(t, t.TempDir(), "mod.py", "x = 1\n")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	res := app.FormatFile(context.Background(), path, ModeWrite)
	if res.Err != nil || res.Outcome != format.OutcomeNoOp {
		t.Fatalf("expected unchanged, got %s %v", res.Outcome, res.Err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("expected an unchanged file not to be rewritten")
	}
}

func TestFormatFile_Check(t *testing.T) {
	app := appWithBlack(t, quoteScript, Options{})
	dir := t.TempDir()
	dirty := createTestFile(t, dir, "dirty.py", "x = 'a'\n")
	clean := createTestFile(t, dir, "clean.py", "x = \"a\"\n")

	res := app.FormatFile(context.Background(), dirty, ModeCheck)
	if !errors.Is(res.Err, ErrWouldReformat) {
		t.Errorf("expected ErrWouldReformat, got %v", res.Err)
	}
	if got := readFile(t, dirty); got != "x = 'a'\n" {
		t.Errorf("check mode modified the file: %q", got)
	}

	res = app.FormatFile(context.Background(), clean, ModeCheck)
	if res.Err != nil || res.Outcome != format.OutcomeNoOp {
		t.Errorf("expected clean file to pass, got %s %v", res.Outcome, res.Err)
	}
}

func TestFormatFile_Failure(t *testing.T) {
	rep := &reported{}
	app := appWithBlack(t, failScript, Options{Reporter: rep})
	path := createTestFile(t, t.TempDir(), "bad.py", "x = (\n")

	res := app.FormatFile(context.Background(), path, ModeWrite)
	if !errors.Is(res.Err, format.ErrFormatter) {
		t.Fatalf("expected formatter error, got %v", res.Err)
	}
	var oerr *OperationError
	if !errors.As(res.Err, &oerr) || oerr.Op != "write" || oerr.Path != path {
		t.Errorf("expected write OperationError for %s, got %v", path, res.Err)
	}
	if got := readFile(t, path); got != "x = (\n" {
		t.Errorf("failed format modified the file: %q", got)
	}
	if len(rep.summaries) != 1 || !strings.Contains(rep.diagnostics[0], "Cannot parse") {
		t.Errorf("expected summary and diagnostic to be reported, got %v %v", rep.summaries, rep.diagnostics)
	}
	if s := app.Metrics().Snapshot(); s.Failed != 1 {
		t.Errorf("expected 1 failed run, got %d", s.Failed)
	}
}

func TestFormatFile_Missing(t *testing.T) {
	app := appWithBlack(t, catScript, Options{})
	res := app.FormatFile(context.Background(), filepath.Join(t.TempDir(), "nope.py"), ModeWrite)

	var oerr *OperationError
	if !errors.As(res.Err, &oerr) || oerr.Op != "open" {
		t.Errorf("expected open OperationError, got %v", res.Err)
	}
}

func TestFormatFile_AfterShutdown(t *testing.T) {
	app := appWithBlack(t, catScript, Options{})
	path := createTestFile(t, t.TempDir(), "mod.py", "")
	app.Shutdown()

	if res := app.FormatFile(context.Background(), path, ModeWrite); !errors.Is(res.Err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", res.Err)
	}
}

func TestFormatFile_OnSave(t *testing.T) {
	app := appWithBlack(t, quoteScript, Options{FormatOnSave: true})
	path := createTestFile(t, t.TempDir(), "mod.py", "x = 'a'\n")

	res := app.FormatFile(context.Background(), path, ModeOnSave)
	if res.Err != nil {
		t.Fatalf("FormatFile() error: %v", res.Err)
	}
	if res.Outcome != format.OutcomeApplied {
		t.Errorf("expected reformatted, got %s", res.Outcome)
	}
	if got := readFile(t, path); got != "x = \"a\"\n" {
		t.Errorf("hook did not format before save: %q", got)
	}
}

func TestFormatFile_OnSaveGated(t *testing.T) {
	app := appWithBlack(t, quoteScript, Options{
		FormatOnSave: true,
		Overrides:    map[string]any{config.KeyOnlyIfProjectOptsIn: true},
	})

	dir := t.TempDir()
	optedIn := filepath.Join(dir, "in")
	optedOut := filepath.Join(dir, "out")
	for _, d := range []string{optedIn, optedOut} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	createTestFile(t, optedIn, "pyproject.toml", "[project]\nname = \"x\"\n\n[tool.black]\nline-length = 88\n")
	createTestFile(t, optedOut, "pyproject.toml", "[tool.isort]\nprofile = \"black\"\n")
	in := createTestFile(t, optedIn, "mod.py", "x = 'a'\n")
	out := createTestFile(t, optedOut, "mod.py", "x = 'a'\n")

	if res := app.FormatFile(context.Background(), in, ModeOnSave); res.Outcome != format.OutcomeApplied {
		t.Errorf("opted-in project: expected reformatted, got %s %v", res.Outcome, res.Err)
	}
	if res := app.FormatFile(context.Background(), out, ModeOnSave); res.Outcome != format.OutcomeSkipped {
		t.Errorf("opted-out project: expected skipped, got %s %v", res.Outcome, res.Err)
	}
	if got := readFile(t, out); got != "x = 'a'\n" {
		t.Errorf("opted-out file was formatted: %q", got)
	}
}

func TestFormatFile_OnSaveFailureStillSaves(t *testing.T) {
	app := appWithBlack(t, failScript, Options{FormatOnSave: true})
	path := createTestFile(t, t.TempDir(), "bad.py", "x = (\n")

	res := app.FormatFile(context.Background(), path, ModeOnSave)
	if !errors.Is(res.Err, format.ErrFormatter) {
		t.Fatalf("expected the formatter failure to be returned, got %s %v", res.Outcome, res.Err)
	}
	if res.Outcome == format.OutcomeNoOp {
		t.Error("a failed run must not be reported as unchanged")
	}
	if got := readFile(t, path); got != "x = (\n" {
		t.Errorf("expected the file saved untouched, got %q", got)
	}
	if !strings.Contains(app.Formatter().LastDiagnostic(), "Cannot parse") {
		t.Errorf("expected the failure diagnostic to be kept, got %q", app.Formatter().LastDiagnostic())
	}
	if s := app.Metrics().Snapshot(); s.Failed != 1 {
		t.Errorf("expected one failed run, got %d", s.Failed)
	}
}

func TestFormatStream(t *testing.T) {
	app := appWithBlack(t, quoteScript, Options{})

	var out bytes.Buffer
	outcome, err := app.FormatStream(context.Background(), strings.NewReader("print('hi')\n"), &out, "")
	if err != nil {
		t.Fatalf("FormatStream() error: %v", err)
	}
	if outcome != format.OutcomeApplied {
		t.Errorf("expected reformatted, got %s", outcome)
	}
	if out.String() != "print(\"hi\")\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestFormatStream_StubFilename(t *testing.T) {
	app := appWithBlack(t, `for a in "$@"; do echo "$a"; done; cat >/dev/null`, Options{})

	var out bytes.Buffer
	if _, err := app.FormatStream(context.Background(), strings.NewReader(""), &out, "types.pyi"); err != nil {
		t.Fatalf("FormatStream() error: %v", err)
	}
	if !strings.Contains(out.String(), "--pyi\n") {
		t.Errorf("expected --pyi for a stub filename, got args %q", out.String())
	}
}

func TestFormatStream_Failure(t *testing.T) {
	app := appWithBlack(t, failScript, Options{})

	var out bytes.Buffer
	_, err := app.FormatStream(context.Background(), strings.NewReader("x = (\n"), &out, "")
	if !errors.Is(err, format.ErrFormatter) {
		t.Errorf("expected formatter error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", out.String())
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeWrite, "write"},
		{ModeCheck, "check"},
		{ModeOnSave, "on-save"},
		{Mode(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
