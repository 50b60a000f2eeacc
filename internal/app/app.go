// Package app wires the blacken components together: settings, logging,
// the process supervisor, the formatter and format-on-save. Hosts such as
// the command-line tool create one Application and format files through it.
package app

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/blacken/internal/config"
	"github.com/dshills/blacken/internal/config/watcher"
	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/hook"
	"github.com/dshills/blacken/internal/integration/process"
	"github.com/dshills/blacken/internal/logging"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for running
// formatter processes.
const DefaultShutdownTimeout = 2 * time.Second

// Application is the central coordinator for all blacken components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	logger  *logging.Logger
	store   *config.Store
	watcher *watcher.Watcher

	// Formatting
	supervisor *process.Supervisor
	pipeline   *format.Pipeline
	formatter  *format.Formatter
	hooks      *hook.Manager
	autoFormat *format.AutoFormat

	documents *DocumentManager
	metrics   *Metrics

	closed atomic.Bool
	opts   Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means config.DefaultPath().
	ConfigPath string

	// NoConfig skips the settings file; defaults and environment only.
	NoConfig bool

	// Overrides are applied above every other settings layer, keyed by
	// setting name (e.g. "line-length").
	Overrides map[string]any

	// Environ replaces os.Environ for the environment layer.
	Environ func() []string

	// LogLevel overrides the log-level setting when non-empty.
	LogLevel string

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer

	// Watch reloads settings when the settings file changes.
	Watch bool

	// FormatOnSave enables the pre-save hook on every opened buffer.
	FormatOnSave bool

	// Reporter receives user-facing failure messages.
	Reporter format.Reporter

	// MaxProcesses limits concurrent formatter processes. Zero means the
	// supervisor default.
	MaxProcesses int

	// ShutdownTimeout overrides DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Settings returns the settings store.
func (app *Application) Settings() *config.Store {
	return app.store
}

// Formatter returns the formatter.
func (app *Application) Formatter() *format.Formatter {
	return app.formatter
}

// Hooks returns the pre-save hook manager shared by all buffers.
func (app *Application) Hooks() *hook.Manager {
	return app.hooks
}

// AutoFormat returns the format-on-save controller.
func (app *Application) AutoFormat() *format.AutoFormat {
	return app.autoFormat
}

// Supervisor returns the process supervisor running formatter processes.
func (app *Application) Supervisor() *process.Supervisor {
	return app.supervisor
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// IsClosed reports whether Shutdown has been called.
func (app *Application) IsClosed() bool {
	return app.closed.Load()
}

// Shutdown stops the settings watcher and terminates any formatter still
// running. It is safe to call more than once.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}

	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	if w != nil {
		if err := w.Close(); err != nil {
			app.logger.Warn("closing settings watcher: %v", err)
		}
	}

	timeout := app.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	if app.supervisor != nil {
		app.supervisor.Shutdown(timeout)
	}

	s := app.metrics.Snapshot()
	app.logger.WithFields(map[string]any{
		"runs":   s.Runs,
		"failed": s.Failed,
	}).Debug("shutdown")
}
