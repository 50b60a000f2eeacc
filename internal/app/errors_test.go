package app

import (
	"errors"
	"testing"

	"github.com/dshills/blacken/internal/format"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "file",
			err:      NewOperationError("open", "/src/mod.py", ErrNotRegularFile),
			expected: "open /src/mod.py: not a regular file",
		},
		{
			name:     "stream",
			err:      NewOperationError("format", "stdin", errors.New("boom")),
			expected: "format stdin: boom",
		},
		{
			name:     "no path",
			err:      &OperationError{Op: "save", Err: errors.New("disk full")},
			expected: "save: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := &format.FormatError{Op: "format buffer", Err: &format.FormatterError{ExitStatus: 123}}
	err := NewOperationError("on-save", "mod.py", cause)

	if !errors.Is(err, format.ErrFormatter) {
		t.Error("expected errors.Is to reach the formatter sentinel")
	}
	var ferr *format.FormatError
	if !errors.As(err, &ferr) || ferr != cause {
		t.Error("expected errors.As to find the FormatError")
	}
	if errors.Is(err, ErrWouldReformat) {
		t.Error("expected no match for an unrelated sentinel")
	}
}

func TestComponentError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{
			name:     "with action",
			err:      NewComponentError("watcher", "watch", errors.New("too many open files")),
			expected: "watcher: watch: too many open files",
		},
		{
			name:     "without action",
			err:      NewComponentError("config", "", errors.New("bad value")),
			expected: "config: bad value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
			if errors.Unwrap(tt.err) != tt.err.Err {
				t.Error("expected Unwrap to return the cause")
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrShutdown,
		ErrNotRegularFile,
		ErrDocumentNotFound,
		ErrWouldReformat,
	}

	for i, a := range sentinels {
		if a.Error() == "" {
			t.Errorf("sentinel %d has empty message", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d matches sentinel %d", i, j)
			}
		}
	}
}
