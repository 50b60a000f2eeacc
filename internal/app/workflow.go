package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/blacken/internal/engine/buffer"
	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/project"
)

// Mode selects what FormatFile does with the formatted content.
type Mode int

const (
	// ModeWrite formats the file and saves it when the content changed.
	ModeWrite Mode = iota
	// ModeCheck formats in memory only and reports files that would change.
	ModeCheck
	// ModeOnSave saves the file through the pre-save hooks, the way an
	// editor save does. Project gating applies.
	ModeOnSave
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeOnSave:
		return "on-save"
	default:
		return "unknown"
	}
}

// FileResult is the result of formatting one file.
type FileResult struct {
	Path    string
	Outcome format.Outcome
	// Err is an *OperationError naming the failed step, or nil.
	Err error
}

// FormatFile formats the file at path according to mode. The file's buffer
// is closed again before returning.
func (app *Application) FormatFile(ctx context.Context, path string, mode Mode) FileResult {
	res := FileResult{Path: path}
	if app.IsClosed() {
		res.Err = NewOperationError(mode.String(), path, ErrShutdown)
		return res
	}

	doc, err := app.documents.Open(path)
	if err != nil {
		res.Err = NewOperationError("open", path, err)
		return res
	}
	defer func() { _ = app.documents.Close(path) }()

	timer := StartTimer()
	switch mode {
	case ModeOnSave:
		res.Outcome, err = app.saveWithHooks(ctx, doc)
	default:
		res.Outcome, err = app.formatter.FormatNow(ctx, doc, true)
	}
	app.metrics.RecordRun(res.Outcome, timer.Elapsed(), err)
	if err != nil {
		res.Err = NewOperationError(mode.String(), path, err)
		return res
	}

	switch {
	case mode == ModeCheck && res.Outcome == format.OutcomeApplied:
		res.Err = NewOperationError("check", path, ErrWouldReformat)
	case mode == ModeWrite && doc.Modified():
		if err := doc.Save(ctx); err != nil {
			res.Err = NewOperationError("save", path, err)
		}
	}
	return res
}

// saveWithHooks saves doc through the hook chain and infers the outcome
// from the buffer revision. A formatter failure does not stop the save but
// is still returned.
func (app *Application) saveWithHooks(ctx context.Context, doc *buffer.Buffer) (format.Outcome, error) {
	if !app.autoFormat.Enabled() {
		return format.OutcomeNone, doc.Save(ctx)
	}

	opts := app.formatter.Options()
	gated := !project.ShouldAutoFormat(doc.Directory(), opts.OnlyIfProjectOptsIn)
	rev := doc.Revision()
	_ = app.autoFormat.TakeFailure(doc.Path())

	if err := doc.Save(ctx); err != nil {
		return format.OutcomeNone, err
	}
	if err := app.autoFormat.TakeFailure(doc.Path()); err != nil {
		return format.OutcomeNone, err
	}

	switch {
	case gated:
		return format.OutcomeSkipped, nil
	case doc.Revision() != rev:
		return format.OutcomeApplied, nil
	default:
		return format.OutcomeNoOp, nil
	}
}

// FormatStream formats r to w. filename, when set, decides the file kind
// and the directory the formatter runs in; it is never read or written.
// Nothing is written to w on failure.
func (app *Application) FormatStream(ctx context.Context, r io.Reader, w io.Writer, filename string) (format.Outcome, error) {
	if app.IsClosed() {
		return format.OutcomeNone, ErrShutdown
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return format.OutcomeNone, NewOperationError("read", "stdin", err)
	}

	var opts []buffer.Option
	if filename != "" {
		opts = append(opts, buffer.WithPath(filename))
	}
	doc := buffer.New(content, opts...)

	timer := StartTimer()
	outcome, err := app.formatter.FormatNow(ctx, doc, true)
	app.metrics.RecordRun(outcome, timer.Elapsed(), err)
	if err != nil {
		return outcome, NewOperationError("format", "stdin", err)
	}

	if _, err := w.Write(doc.Content()); err != nil {
		return outcome, NewOperationError("write", "stdout", fmt.Errorf("writing output: %w", err))
	}
	return outcome, nil
}
