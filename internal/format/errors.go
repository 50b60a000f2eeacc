package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	// ErrSpawn matches any *SpawnError.
	ErrSpawn = errors.New("formatter could not be started")

	// ErrIO matches any *IOError.
	ErrIO = errors.New("formatter pipe failure")

	// ErrTimeout matches any *TimeoutError.
	ErrTimeout = errors.New("formatter timed out")

	// ErrFormatter matches any *FormatterError.
	ErrFormatter = errors.New("formatter failed")
)

// SpawnError reports that the formatter executable could not be launched.
type SpawnError struct {
	Executable string
	Err        error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Is matches ErrSpawn.
func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }

// IOError reports a failure writing to or reading from a formatter pipe.
type IOError struct {
	Stream string // "stdin", "stdout" or "stderr"
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s pipe: %v", e.Stream, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is matches ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// TimeoutError reports that the formatter was killed after running too long.
type TimeoutError struct {
	Executable string
	After      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s killed after %s", e.Executable, e.After.Round(time.Millisecond))
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// FormatterError reports a non-zero formatter exit. The buffer is left
// untouched and Stderr carries the formatter's own diagnostic.
type FormatterError struct {
	ExitStatus int
	Stderr     []byte
}

func (e *FormatterError) Error() string {
	line := firstLine(e.Stderr)
	if line == "" {
		return fmt.Sprintf("formatter exited with status %d", e.ExitStatus)
	}
	return fmt.Sprintf("formatter exited with status %d: %s", e.ExitStatus, line)
}

// Is matches ErrFormatter.
func (e *FormatterError) Is(target error) bool { return target == ErrFormatter }

// FormatError is what FormatNow returns to the host. Summary is meant for a
// status line; Diagnostic holds the full detail for on-demand display.
type FormatError struct {
	Op         string
	Executable string // named in Summary; empty means DefaultExecutable
	Err        error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Summary returns a one-line message suitable for a status line.
func (e *FormatError) Summary() string {
	name := DefaultExecutable
	if e.Executable != "" {
		name = filepath.Base(e.Executable)
	}
	switch {
	case errors.Is(e.Err, ErrFormatter):
		return name + " failed, see diagnostics for details"
	case errors.Is(e.Err, ErrSpawn):
		return name + " could not be started: " + rootCause(e.Err)
	case errors.Is(e.Err, ErrTimeout):
		return name + " timed out"
	default:
		return name + " failed: " + rootCause(e.Err)
	}
}

// Diagnostic returns the formatter's stderr for a FormatterError, and the
// full error text otherwise.
func (e *FormatError) Diagnostic() string {
	var ferr *FormatterError
	if errors.As(e.Err, &ferr) {
		return string(ferr.Stderr)
	}
	return e.Err.Error()
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
