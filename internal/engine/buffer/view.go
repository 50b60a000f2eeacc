package buffer

import "sync"

// View is a window onto a Buffer with its own cursor and scroll position.
type View struct {
	buffer *Buffer

	mu        sync.Mutex
	cursor    int
	scrollTop int
	visible   bool
}

// Buffer returns the buffer the view shows.
func (v *View) Buffer() *Buffer {
	return v.buffer
}

// CursorOffset implements format.View.
func (v *View) CursorOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

// SetCursorOffset implements format.View. The offset is clamped to the
// buffer content.
func (v *View) SetCursorOffset(offset int) {
	n := v.buffer.Len()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = clampOffset(offset, n)
}

// ScrollTopOffset implements format.View.
func (v *View) ScrollTopOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTop
}

// SetScrollTopOffset implements format.View. The offset is clamped to the
// buffer content.
func (v *View) SetScrollTopOffset(offset int) {
	n := v.buffer.Len()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTop = clampOffset(offset, n)
}

// IsVisible reports whether the view is on screen.
func (v *View) IsVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// SetVisible shows or hides the view.
func (v *View) SetVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = visible
}

// clamp is called by the buffer with its lock held.
func (v *View) clamp(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = clampOffset(v.cursor, n)
	v.scrollTop = clampOffset(v.scrollTop, n)
}

func clampOffset(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
