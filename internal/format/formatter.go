package format

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/blacken/internal/logging"
	"github.com/dshills/blacken/internal/project"
)

// Formatter formats host buffers with the external formatter.
type Formatter struct {
	source   OptionsSource
	pipeline *Pipeline
	gate     *project.Gate
	reporter Reporter
	logger   *logging.Logger

	mu             sync.RWMutex
	lastDiagnostic string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithPipeline runs the formatter through p.
func WithPipeline(p *Pipeline) Option {
	return func(f *Formatter) {
		f.pipeline = p
	}
}

// WithReporter sends user-facing failure messages to r.
func WithReporter(r Reporter) Option {
	return func(f *Formatter) {
		f.reporter = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Formatter reading options from source on every call.
func New(source OptionsSource, opts ...Option) *Formatter {
	f := &Formatter{
		source: source,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.pipeline == nil {
		f.pipeline = NewPipeline(WithPipelineLogger(f.logger))
	}
	f.gate = project.NewGate(f.logger)
	f.logger = f.logger.WithComponent("formatter")
	return f
}

// Options returns the current options snapshot.
func (f *Formatter) Options() Options {
	if f.source == nil {
		return DefaultOptions()
	}
	return f.source.Options()
}

// FormatNow formats host immediately.
//
// On failure the returned error is a *FormatError and host is untouched.
// The reporter always receives the summary; it receives the formatter's
// diagnostic only when displayErrors is set. The diagnostic stays available
// from LastDiagnostic either way.
func (f *Formatter) FormatNow(ctx context.Context, host Host, displayErrors bool) (Outcome, error) {
	return f.run(ctx, host, f.Options(), displayErrors)
}

// FormatOnSave formats host the way the pre-save hook does: it returns
// OutcomeSkipped without running anything when the project has not opted
// in, and never displays the diagnostic.
func (f *Formatter) FormatOnSave(ctx context.Context, host Host) (Outcome, error) {
	opts := f.Options()
	if !f.gate.ShouldAutoFormat(host.Directory(), opts.OnlyIfProjectOptsIn) {
		return OutcomeSkipped, nil
	}
	return f.run(ctx, host, opts, false)
}

// LastDiagnostic returns the diagnostic of the most recent failed run, or
// "" if the most recent run succeeded.
func (f *Formatter) LastDiagnostic() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastDiagnostic
}

func (f *Formatter) run(ctx context.Context, host Host, opts Options, displayErrors bool) (Outcome, error) {
	cfg := opts.FormatConfig(host.FileKind())
	args := BuildArgs(cfg, host.FillColumn())

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res, err := f.pipeline.RunInDir(ctx, host.Directory(), cfg.Executable, args, host.Content())
	if err != nil {
		return OutcomeNone, f.fail(cfg.Executable, err, displayErrors)
	}

	outcome, err := Apply(host, res)
	if err != nil {
		return OutcomeNone, f.fail(cfg.Executable, err, displayErrors)
	}

	f.setDiagnostic("")
	f.logger.WithField("duration", res.Duration).Debug("%s %v", outcome, args)
	return outcome, nil
}

func (f *Formatter) fail(executable string, err error, displayErrors bool) error {
	ferr := &FormatError{Op: "format buffer", Executable: executable, Err: err}
	f.setDiagnostic(ferr.Diagnostic())

	if errors.Is(err, ErrFormatter) {
		f.logger.Warn("%v", err)
	} else {
		f.logger.Error("%v", err)
	}

	if f.reporter != nil {
		diagnostic := ""
		if displayErrors {
			diagnostic = ferr.Diagnostic()
		}
		f.reporter.Report(ferr.Summary(), diagnostic)
	}
	return ferr
}

func (f *Formatter) setDiagnostic(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDiagnostic = s
}
