package format

import (
	"context"
	"sync"

	"github.com/dshills/blacken/internal/hook"
	"github.com/dshills/blacken/internal/logging"
)

// HookName is the name the format-on-save hook is registered under.
const HookName = "blacken"

// AutoFormat is format-on-save mode. It subscribes a pre-save hook with the
// host's hook manager while enabled.
type AutoFormat struct {
	formatter *Formatter
	hooks     *hook.Manager
	logger    *logging.Logger

	mu       sync.Mutex
	failures map[string]error
}

// NewAutoFormat creates a disabled AutoFormat.
func NewAutoFormat(f *Formatter, hooks *hook.Manager) *AutoFormat {
	return &AutoFormat{
		formatter: f,
		hooks:     hooks,
		logger:    f.logger.WithField("hook", HookName),
		failures:  make(map[string]error),
	}
}

// Enable registers the pre-save hook. Enabling twice is harmless.
func (a *AutoFormat) Enable() {
	a.hooks.RegisterPreSave(hook.NewPreSaveFunc(HookName, hook.PriorityFormat, a.preSave))
}

// Disable removes the pre-save hook.
func (a *AutoFormat) Disable() {
	a.hooks.UnregisterPreSave(HookName)
}

// Enabled reports whether the hook is registered.
func (a *AutoFormat) Enabled() bool {
	return a.hooks.IsRegistered(HookName)
}

// Toggle flips the mode and returns the new state.
func (a *AutoFormat) Toggle() bool {
	if a.Enabled() {
		a.Disable()
		return false
	}
	a.Enable()
	return true
}

// TakeFailure returns the error of the last format-on-save run for path
// and forgets it. It returns nil if that run succeeded or none failed.
func (a *AutoFormat) TakeFailure(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.failures[path]
	delete(a.failures, path)
	return err
}

func (a *AutoFormat) recordFailure(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		delete(a.failures, path)
		return
	}
	a.failures[path] = err
}

// preSave never vetoes the save. Failures are reported, logged and kept for
// TakeFailure.
func (a *AutoFormat) preSave(ctx context.Context, doc hook.Document) error {
	host, ok := doc.(Host)
	if !ok {
		a.logger.Debug("%s is not a formattable buffer", doc.Path())
		return nil
	}
	if host.FileKind() == FileKindUnknown {
		return nil
	}

	outcome, err := a.formatter.FormatOnSave(ctx, host)
	a.recordFailure(doc.Path(), err)
	if err != nil {
		a.logger.Warn("format on save %s: %v", doc.Path(), err)
		return nil
	}
	a.logger.Debug("format on save %s: %s", doc.Path(), outcome)
	return nil
}
