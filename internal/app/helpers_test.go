package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeBlack writes an executable shell script standing in for black.
func fakeBlack(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "black")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake black: %v", err)
	}
	return path
}

const (
	// catScript leaves input untouched.
	catScript = "exec cat"

	// quoteScript normalises single quotes to double quotes.
	quoteScript = `exec tr "'" '"'`

	// failScript fails the way black does on a syntax error.
	failScript = `cat >/dev/null
echo "error: cannot format -: Cannot parse: 1:4" >&2
exit 123`
)

// newTestApp creates an application that ignores the user's settings file
// and environment, logging into a buffer.
func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	opts.NoConfig = opts.NoConfig || opts.ConfigPath == ""
	if opts.Environ == nil {
		opts.Environ = func() []string { return nil }
	}
	opts.LogOutput = &syncWriter{w: &logs}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app, &logs
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type reported struct {
	mu          sync.Mutex
	summaries   []string
	diagnostics []string
}

func (r *reported) Report(summary, diagnostic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
	r.diagnostics = append(r.diagnostics, diagnostic)
}

func writeSettings(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
