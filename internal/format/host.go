package format

import (
	"path/filepath"
	"strings"
)

// FileKind classifies the buffer being formatted.
type FileKind int

const (
	// FileKindUnknown is any buffer without a recognised extension.
	FileKindUnknown FileKind = iota
	// FileKindPython is a regular Python source file.
	FileKindPython
	// FileKindStub is a Python type stub (.pyi).
	FileKindStub
)

// String returns the kind name.
func (k FileKind) String() string {
	switch k {
	case FileKindPython:
		return "python"
	case FileKindStub:
		return "stub"
	default:
		return "unknown"
	}
}

// KindForPath classifies a file by its extension.
func KindForPath(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pyi":
		return FileKindStub
	case ".py":
		return FileKindPython
	default:
		return FileKindUnknown
	}
}

// View is one window onto a buffer. Offsets are byte offsets into the
// buffer content.
type View interface {
	CursorOffset() int
	SetCursorOffset(offset int)
	ScrollTopOffset() int
	SetScrollTopOffset(offset int)
}

// Host is the editor-side collaborator a format operation works against.
type Host interface {
	// Content returns the current buffer content.
	Content() []byte

	// ReplaceContent replaces the entire buffer content.
	ReplaceContent(content []byte)

	// FileKind reports the kind of file the buffer holds.
	FileKind() FileKind

	// Directory is where the project manifest search starts.
	Directory() string

	// FillColumn is the editor's configured wrap column.
	FillColumn() int

	// VisibleViews returns every view currently showing the buffer.
	VisibleViews() []View
}

// Reporter receives user-facing messages. Summary is a one-line message;
// diagnostic is the formatter's full stderr output and may be empty.
type Reporter interface {
	Report(summary, diagnostic string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(summary, diagnostic string)

// Report implements Reporter.
func (f ReporterFunc) Report(summary, diagnostic string) {
	if f != nil {
		f(summary, diagnostic)
	}
}
