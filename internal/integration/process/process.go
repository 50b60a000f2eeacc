package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// State represents the state of a process.
type State int

const (
	// StateCreated indicates the process has been created but not started.
	StateCreated State = iota
	// StateRunning indicates the process is currently running.
	StateRunning
	// StateExited indicates the process has exited on its own.
	StateExited
	// StateKilled indicates the process was terminated by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Process is a supervised child process with piped standard streams.
type Process struct {
	// ID is the unique identifier for this process.
	ID string

	// Name is a human-readable name, usually the executable.
	Name string

	// Cmd is the underlying exec.Cmd.
	Cmd *exec.Cmd

	// Stdin is the write end of the child's standard input.
	Stdin io.WriteCloser

	// Stdout is the read end of the child's standard output.
	Stdout io.ReadCloser

	// Stderr is the read end of the child's standard error.
	Stderr io.ReadCloser

	// Started is the time the process was started.
	Started time.Time

	done     chan struct{}
	state    atomic.Int32
	exitCode atomic.Int32

	mu      sync.RWMutex
	exitErr error
	ended   time.Time

	waitOnce sync.Once
}

// NewProcess wraps cmd. The command must not have been started.
func NewProcess(id, name string, cmd *exec.Cmd) *Process {
	p := &Process{
		ID:   id,
		Name: name,
		Cmd:  cmd,
		done: make(chan struct{}),
	}
	p.state.Store(int32(StateCreated))
	p.exitCode.Store(-1)
	return p
}

// State returns the current process state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the exit code, or -1 while the process has not been reaped.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// ExitError returns the error reported by exec.Cmd.Wait, if any.
func (p *Process) ExitError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitErr
}

// Done returns a channel that is closed once Wait has reaped the process.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// IsRunning reports whether the process has started and not been reaped.
func (p *Process) IsRunning() bool {
	return p.State() == StateRunning
}

// HasExited reports whether the process has been reaped.
func (p *Process) HasExited() bool {
	state := p.State()
	return state == StateExited || state == StateKilled
}

// PID returns the OS process ID, or -1 if not started.
func (p *Process) PID() int {
	if p.Cmd.Process == nil {
		return -1
	}
	return p.Cmd.Process.Pid
}

// Signal sends sig to the process and every descendant still in its
// process group.
func (p *Process) Signal(sig os.Signal) error {
	if !p.IsRunning() || p.Cmd.Process == nil {
		return ErrProcessNotStarted
	}
	err := signalGroup(p.Cmd.Process, sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error {
	return p.Signal(syscall.SIGKILL)
}

// Terminate sends SIGTERM to the process.
func (p *Process) Terminate() error {
	return p.Signal(syscall.SIGTERM)
}

// start launches the command. Called by the Supervisor.
func (p *Process) start() error {
	if p.State() != StateCreated {
		return ErrProcessAlreadyStarted
	}

	if err := p.Cmd.Start(); err != nil {
		return err
	}

	p.Started = time.Now()
	p.state.Store(int32(StateRunning))
	return nil
}

// Wait blocks until the process exits and returns its exit code.
//
// Wait closes the stdout and stderr pipes, so it must only be called after
// both have been read to EOF. A non-zero exit is not an error here; the
// returned error is non-nil only when the process could not be reaped.
// Safe to call more than once.
func (p *Process) Wait() (int, error) {
	if p.State() == StateCreated {
		return -1, ErrProcessNotStarted
	}

	p.waitOnce.Do(func() {
		err := p.Cmd.Wait()

		exitCode := 0
		state := StateExited
		var waitErr error

		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					state = StateKilled
				}
			} else {
				exitCode = -1
				waitErr = err
			}
		}

		p.mu.Lock()
		p.exitErr = waitErr
		p.ended = time.Now()
		p.mu.Unlock()

		p.exitCode.Store(int32(exitCode))
		p.state.Store(int32(state))
		close(p.done)
	})

	return p.ExitCode(), p.ExitError()
}

// Runtime returns how long the process ran, or has been running so far.
func (p *Process) Runtime() time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	p.mu.RLock()
	ended := p.ended
	p.mu.RUnlock()
	if ended.IsZero() {
		return time.Since(p.Started)
	}
	return ended.Sub(p.Started)
}

// closePipes releases the parent's ends of all pipes.
func (p *Process) closePipes() {
	for _, c := range []io.Closer{p.Stdin, p.Stdout, p.Stderr} {
		if c != nil {
			_ = c.Close()
		}
	}
}

// Sentinel errors for the process package.
var (
	// ErrProcessNotStarted is returned when an operation needs a running process.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrProcessAlreadyStarted is returned when starting a process twice.
	ErrProcessAlreadyStarted = errors.New("process already started")
)
