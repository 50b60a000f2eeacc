package buffer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/hook"
)

// Errors returned by buffer operations.
var (
	// ErrNoPath is returned when saving a buffer that has no file.
	ErrNoPath = errors.New("buffer has no file path")
)

// Buffer holds the content of one document and its views.
type Buffer struct {
	mu         sync.RWMutex
	path       string
	content    []byte
	revision   uint64
	saved      uint64
	fillColumn int
	mode       fs.FileMode
	views      []*View
	hooks      *hook.Manager
}

// New creates a buffer holding a copy of content.
func New(content []byte, opts ...Option) *Buffer {
	b := &Buffer{
		content:    append([]byte(nil), content...),
		fillColumn: DefaultFillColumn,
		mode:       0o644,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer from a string.
func NewFromString(s string, opts ...Option) *Buffer {
	return New([]byte(s), opts...)
}

// Open reads the file at path into a new buffer.
func Open(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open buffer: %w", err)
	}

	b := New(data, append([]Option{WithPath(path)}, opts...)...)
	if info, err := os.Stat(path); err == nil {
		b.mode = info.Mode().Perm()
	}
	return b, nil
}

// Path implements hook.Document.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Content returns a copy of the current content.
func (b *Buffer) Content() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.content...)
}

// String returns the content as a string.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.content)
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

// ReplaceContent replaces the whole content and bumps the revision. View
// offsets past the new end are clamped.
func (b *Buffer) ReplaceContent(content []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.content = append([]byte(nil), content...)
	b.revision++

	n := len(b.content)
	for _, v := range b.views {
		v.clamp(n)
	}
}

// Revision counts content replacements since the buffer was created.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Modified reports whether the content changed since it was loaded or saved.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision != b.saved
}

// FileKind implements format.Host.
func (b *Buffer) FileKind() format.FileKind {
	return format.KindForPath(b.Path())
}

// Directory implements format.Host. It is the directory of the file, or the
// working directory for buffers without one.
func (b *Buffer) Directory() string {
	if p := b.Path(); p != "" {
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(p)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// FillColumn implements format.Host.
func (b *Buffer) FillColumn() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fillColumn
}

// SetFillColumn changes the wrap column.
func (b *Buffer) SetFillColumn(col int) {
	if col <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fillColumn = col
}

// NewView opens a visible view at offset 0.
func (b *Buffer) NewView() *View {
	v := &View{buffer: b, visible: true}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.views = append(b.views, v)
	return v
}

// CloseView detaches v from the buffer.
func (b *Buffer) CloseView(v *View) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.views {
		if existing == v {
			b.views = append(b.views[:i], b.views[i+1:]...)
			return
		}
	}
}

// Views returns every view, visible or not.
func (b *Buffer) Views() []*View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*View(nil), b.views...)
}

// VisibleViews implements format.Host.
func (b *Buffer) VisibleViews() []format.View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	views := make([]format.View, 0, len(b.views))
	for _, v := range b.views {
		if v.IsVisible() {
			views = append(views, v)
		}
	}
	return views
}

// Save runs the pre-save hooks and writes the content to the buffer's
// path. A hook error aborts the save and is returned.
func (b *Buffer) Save(ctx context.Context) error {
	path := b.Path()
	if path == "" {
		return ErrNoPath
	}

	if b.hooks != nil {
		if err := b.hooks.RunPreSave(ctx, b); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.WriteFile(path, b.content, b.mode); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	b.saved = b.revision
	return nil
}
