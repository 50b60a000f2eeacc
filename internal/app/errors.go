package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrShutdown indicates the application has been shut down.
	ErrShutdown = errors.New("application shut down")

	// ErrNotRegularFile indicates a path that cannot be formatted in place.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrDocumentNotFound indicates a document was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrWouldReformat indicates check mode found a file that is not formatted.
	ErrWouldReformat = errors.New("would reformat")
)

// OperationError names the workflow step that failed for one file or stream.
type OperationError struct {
	Op   string // "open", "write", "check", "on-save", "save", "format", ...
	Path string // file path, or "stdin"/"stdout" for streams
	Err  error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, path string, err error) *OperationError {
	return &OperationError{Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// ComponentError reports a component that failed to start.
type ComponentError struct {
	Component string // "config", "watcher", ...
	Action    string
	Err       error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }
