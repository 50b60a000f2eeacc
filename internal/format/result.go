package format

import (
	"bytes"
	"time"
)

// Result is the outcome of one formatter run. It is never modified after
// the pipeline returns it.
type Result struct {
	// ExitStatus is the process exit code; 0 means success.
	ExitStatus int

	// Stdout holds the formatted content on success.
	Stdout []byte

	// Stderr holds the formatter's diagnostics.
	Stderr []byte

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Success reports whether the formatter exited with status 0.
func (r *Result) Success() bool {
	return r.ExitStatus == 0
}

// Changed reports whether the formatted output differs from input.
func (r *Result) Changed(input []byte) bool {
	return !bytes.Equal(r.Stdout, input)
}

// Outcome is what a format operation did to the buffer.
type Outcome int

const (
	// OutcomeNone means nothing ran, e.g. an error or a gated-off save.
	OutcomeNone Outcome = iota
	// OutcomeNoOp means the formatter ran and the content was already formatted.
	OutcomeNoOp
	// OutcomeApplied means the buffer content was replaced.
	OutcomeApplied
	// OutcomeSkipped means format-on-save was gated off for the project.
	OutcomeSkipped
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoOp:
		return "unchanged"
	case OutcomeApplied:
		return "reformatted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "none"
	}
}
