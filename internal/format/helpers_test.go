package format

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeFormatter writes an executable shell script standing in for black.
func fakeFormatter(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "black")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake formatter: %v", err)
	}
	return path
}

// Scripts used across tests.
const (
	// echoScript is an already-formatted file: output equals input.
	echoScript = "exec cat"

	// quoteScript normalises single quotes to double quotes, keeping offsets.
	quoteScript = `exec tr "'" '"'`

	// failScript consumes its input and fails the way black does on a syntax error.
	failScript = `cat >/dev/null
echo "error: cannot format -: Cannot parse: 1:4: x = (" >&2
echo "Oh no! 1 file failed to reformat." >&2
exit 123`
)

type fakeView struct {
	mu        sync.Mutex
	cursor    int
	scrollTop int
	sets      int
}

func (v *fakeView) CursorOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

func (v *fakeView) SetCursorOffset(offset int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = offset
	v.sets++
}

func (v *fakeView) ScrollTopOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTop
}

func (v *fakeView) SetScrollTopOffset(offset int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTop = offset
	v.sets++
}

type fakeHost struct {
	path       string
	content    []byte
	dir        string
	fillColumn int
	views      []*fakeView
	replaced   int
}

func newFakeHost(content string, views ...*fakeView) *fakeHost {
	return &fakeHost{
		path:       "module.py",
		content:    []byte(content),
		fillColumn: 79,
		views:      views,
	}
}

func (h *fakeHost) Path() string            { return h.path }
func (h *fakeHost) Content() []byte         { return append([]byte(nil), h.content...) }
func (h *fakeHost) FileKind() FileKind      { return KindForPath(h.path) }
func (h *fakeHost) Directory() string       { return h.dir }
func (h *fakeHost) FillColumn() int         { return h.fillColumn }
func (h *fakeHost) ReplaceContent(b []byte) { h.content = append([]byte(nil), b...); h.replaced++ }

func (h *fakeHost) VisibleViews() []View {
	views := make([]View, len(h.views))
	for i, v := range h.views {
		views[i] = v
	}
	return views
}

type recordingReporter struct {
	mu          sync.Mutex
	summaries   []string
	diagnostics []string
}

func (r *recordingReporter) Report(summary, diagnostic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
	r.diagnostics = append(r.diagnostics, diagnostic)
}
