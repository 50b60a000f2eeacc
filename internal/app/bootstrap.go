package app

import (
	"sort"

	"github.com/dshills/blacken/internal/config"
	"github.com/dshills/blacken/internal/config/watcher"
	"github.com/dshills/blacken/internal/engine/buffer"
	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/hook"
	"github.com/dshills/blacken/internal/integration/process"
	"github.com/dshills/blacken/internal/logging"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogger,
		b.initConfig,
		b.initFormatter,
		b.initHooks,
		b.initDocuments,
		b.initWatcher,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initLogger() error {
	cfg := logging.DefaultConfig()
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}
	if b.opts.LogLevel != "" {
		cfg.Level = logging.ParseLevel(b.opts.LogLevel)
	}
	b.app.logger = logging.New(cfg)
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initConfig loads settings. Explicit overrides are validated here so a bad
// flag fails startup instead of the first format.
func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	switch {
	case b.opts.NoConfig:
		path = ""
	case path == "":
		path = config.DefaultPath()
	}

	storeOpts := []config.Option{config.WithLogger(b.app.logger)}
	if b.opts.Environ != nil {
		storeOpts = append(storeOpts, config.WithEnviron(b.opts.Environ))
	}
	store := config.NewStore(path, storeOpts...)

	if err := store.Reload(); err != nil {
		return NewComponentError("config", "load "+path, err)
	}

	keys := make([]string, 0, len(b.opts.Overrides))
	for k := range b.opts.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := store.Set(k, b.opts.Overrides[k]); err != nil {
			return NewComponentError("config", "override", err)
		}
	}

	// The log-level setting applies unless the caller pinned a level.
	if b.opts.LogLevel == "" {
		b.app.logger.SetLevel(logging.ParseLevel(store.Settings().LogLevel))
		store.OnReload(func(s config.Settings) {
			b.app.logger.SetLevel(logging.ParseLevel(s.LogLevel))
		})
	}

	b.app.store = store
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initFormatter() error {
	logger := b.app.logger

	supervisorOpts := []process.SupervisorOption{
		process.WithProcessExitCallback(func(p *process.Process) {
			logger.WithField("pid", p.PID()).Debug("%s exited with %d after %s", p.Name, p.ExitCode(), p.Runtime())
		}),
	}
	if b.opts.MaxProcesses > 0 {
		supervisorOpts = append(supervisorOpts, process.WithMaxProcesses(b.opts.MaxProcesses))
	}
	b.app.supervisor = process.NewSupervisor(supervisorOpts...)
	b.initOrder = append(b.initOrder, "supervisor")

	b.app.pipeline = format.NewPipeline(
		format.WithSupervisor(b.app.supervisor),
		format.WithPipelineLogger(logger),
	)

	formatterOpts := []format.Option{
		format.WithPipeline(b.app.pipeline),
		format.WithLogger(logger),
	}
	if b.opts.Reporter != nil {
		formatterOpts = append(formatterOpts, format.WithReporter(b.opts.Reporter))
	}
	b.app.formatter = format.New(b.app.store, formatterOpts...)
	b.initOrder = append(b.initOrder, "formatter")
	return nil
}

func (b *bootstrapper) initHooks() error {
	b.app.hooks = hook.NewManager()
	b.app.autoFormat = format.NewAutoFormat(b.app.formatter, b.app.hooks)
	if b.opts.FormatOnSave {
		b.app.autoFormat.Enable()
	}
	b.initOrder = append(b.initOrder, "hooks")
	return nil
}

func (b *bootstrapper) initDocuments() error {
	b.app.documents = NewDocumentManager(buffer.WithHooks(b.app.hooks))
	b.initOrder = append(b.initOrder, "documents")
	return nil
}

func (b *bootstrapper) initWatcher() error {
	if !b.opts.Watch || b.app.store.Path() == "" {
		return nil
	}

	logger := b.app.logger.WithComponent("watcher")
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		logger.Warn("%v", err)
	}))
	if err != nil {
		return NewComponentError("watcher", "create", err)
	}
	if err := b.app.store.Watch(w); err != nil {
		_ = w.Close()
		return NewComponentError("watcher", "watch", err)
	}
	w.Start()

	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if b.app.watcher != nil {
				_ = b.app.watcher.Close()
				b.app.watcher = nil
			}
		case "supervisor":
			if b.app.supervisor != nil {
				b.app.supervisor.Shutdown(0)
			}
		}
	}
}
