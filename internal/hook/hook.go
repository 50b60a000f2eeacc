package hook

import "context"

// Standard priorities. Higher values run first.
const (
	PrioritySystem = 1000
	PriorityFormat = 500
	PriorityPlugin = 100
	PriorityUser   = 0
)

// Document is what a pre-save hook is handed. Hooks that need more
// capabilities assert for them.
type Document interface {
	// Path is the file the document is about to be written to.
	Path() string
}

// Hook is the base interface for all hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority orders hooks; higher values run first.
	Priority() int
}

// PreSaveHook runs before a document is written.
type PreSaveHook interface {
	Hook

	// PreSave may modify doc. A non-nil error vetoes the save.
	PreSave(ctx context.Context, doc Document) error
}

// PreSaveFunc wraps a function as a PreSaveHook.
type PreSaveFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, doc Document) error
}

// NewPreSaveFunc creates a PreSaveFunc hook.
func NewPreSaveFunc(name string, priority int, fn func(ctx context.Context, doc Document) error) *PreSaveFunc {
	return &PreSaveFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreSaveFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreSaveFunc) Priority() int { return f.priority }

// PreSave implements PreSaveHook.
func (f *PreSaveFunc) PreSave(ctx context.Context, doc Document) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, doc)
}
