package buffer

import (
	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/hook"
)

// DefaultFillColumn is the wrap column used when none is configured.
const DefaultFillColumn = format.DefaultFillColumn

// Option configures a Buffer.
type Option func(*Buffer)

// WithPath associates the buffer with a file path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithFillColumn sets the editor wrap column.
func WithFillColumn(col int) Option {
	return func(b *Buffer) {
		if col > 0 {
			b.fillColumn = col
		}
	}
}

// WithHooks runs m's pre-save hooks on Save.
func WithHooks(m *hook.Manager) Option {
	return func(b *Buffer) {
		b.hooks = m
	}
}
