package format

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestFormatterError_Message(t *testing.T) {
	err := &FormatterError{ExitStatus: 123, Stderr: []byte("\nerror: cannot format -: Cannot parse\nOh no!\n")}
	if got := err.Error(); got != "formatter exited with status 123: error: cannot format -: Cannot parse" {
		t.Errorf("unexpected message %q", got)
	}

	empty := &FormatterError{ExitStatus: 1}
	if got := empty.Error(); got != "formatter exited with status 1" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestFormatError_SummaryAndDiagnostic(t *testing.T) {
	tests := []struct {
		name           string
		executable     string
		err            error
		wantSummary    string
		wantDiagnostic string
	}{
		{
			name:           "formatter failure",
			err:            &FormatterError{ExitStatus: 123, Stderr: []byte("line 1\nline 2\n")},
			wantSummary:    "black failed, see diagnostics for details",
			wantDiagnostic: "line 1\nline 2\n",
		},
		{
			name:           "spawn failure",
			err:            &SpawnError{Executable: "black", Err: errors.New("executable file not found in $PATH")},
			wantSummary:    "black could not be started: executable file not found in $PATH",
			wantDiagnostic: "start black: executable file not found in $PATH",
		},
		{
			name:           "timeout",
			err:            &TimeoutError{Executable: "black", After: 2 * time.Second},
			wantSummary:    "black timed out",
			wantDiagnostic: "black killed after 2s",
		},
		{
			name:           "configured executable",
			executable:     "/opt/py/bin/black-22",
			err:            &FormatterError{ExitStatus: 1, Stderr: []byte("boom\n")},
			wantSummary:    "black-22 failed, see diagnostics for details",
			wantDiagnostic: "boom\n",
		},
		{
			name:           "pipe failure",
			err:            &IOError{Stream: "stdout", Err: io.ErrUnexpectedEOF},
			wantSummary:    "black failed: unexpected EOF",
			wantDiagnostic: "stdout pipe: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ferr := &FormatError{Op: "format buffer", Executable: tt.executable, Err: tt.err}
			if got := ferr.Summary(); got != tt.wantSummary {
				t.Errorf("Summary() = %q, want %q", got, tt.wantSummary)
			}
			if got := ferr.Diagnostic(); got != tt.wantDiagnostic {
				t.Errorf("Diagnostic() = %q, want %q", got, tt.wantDiagnostic)
			}
			if !strings.HasPrefix(ferr.Error(), "format buffer: ") {
				t.Errorf("unexpected Error() %q", ferr.Error())
			}
			if !errors.Is(ferr, tt.err) {
				t.Error("expected FormatError to unwrap to the cause")
			}
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	if !errors.Is(&SpawnError{Err: io.EOF}, ErrSpawn) {
		t.Error("SpawnError should match ErrSpawn")
	}
	if !errors.Is(&IOError{Err: io.EOF}, ErrIO) {
		t.Error("IOError should match ErrIO")
	}
	if !errors.Is(&IOError{Err: io.EOF}, io.EOF) {
		t.Error("IOError should unwrap to its cause")
	}
	if !errors.Is(&TimeoutError{}, ErrTimeout) {
		t.Error("TimeoutError should match ErrTimeout")
	}
	if !errors.Is(&FormatterError{}, ErrFormatter) {
		t.Error("FormatterError should match ErrFormatter")
	}
	if errors.Is(&FormatterError{}, ErrSpawn) {
		t.Error("FormatterError must not match ErrSpawn")
	}
}
