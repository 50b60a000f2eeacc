package process

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Supervisor tracks running formatter processes so they can be found,
// counted and terminated when the editor shuts down.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process

	closed atomic.Bool

	// maxProcesses limits concurrent processes (0 = unlimited)
	maxProcesses int

	onProcessExit func(p *Process)
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithMaxProcesses sets the maximum number of concurrent processes.
// A value of 0 (default) means unlimited.
func WithMaxProcesses(max int) SupervisorOption {
	return func(s *Supervisor) {
		s.maxProcesses = max
	}
}

// WithProcessExitCallback sets a callback invoked after a process is reaped.
func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onProcessExit = fn
	}
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start starts cmd with stdin, stdout and stderr piped to the caller.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	return s.StartWithID(uuid.New().String(), name, cmd)
}

// StartWithID is Start with a caller-chosen ID.
func (s *Supervisor) StartWithID(id, name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	if s.maxProcesses > 0 && len(s.processes) >= s.maxProcesses {
		return nil, fmt.Errorf("%w: %d", ErrProcessLimit, s.maxProcesses)
	}

	if _, exists := s.processes[id]; exists {
		return nil, fmt.Errorf("process ID already exists: %s", id)
	}

	if cmd.Stdin != nil || cmd.Stdout != nil || cmd.Stderr != nil {
		return nil, ErrStreamsConfigured
	}

	setProcessGroup(cmd)
	proc := NewProcess(id, name, cmd)

	var err error
	if proc.Stdin, err = cmd.StdinPipe(); err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	if proc.Stdout, err = cmd.StdoutPipe(); err != nil {
		proc.closePipes()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	if proc.Stderr, err = cmd.StderrPipe(); err != nil {
		proc.closePipes()
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := proc.start(); err != nil {
		proc.closePipes()
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	s.processes[id] = proc
	go s.monitorProcess(proc)

	return proc, nil
}

// monitorProcess drops proc from tracking once it has been reaped.
func (s *Supervisor) monitorProcess(proc *Process) {
	<-proc.Done()

	if s.onProcessExit != nil {
		func() {
			defer func() {
				_ = recover()
			}()
			s.onProcessExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	s.mu.Unlock()
}

// Get returns a process by ID, or nil.
func (s *Supervisor) Get(id string) *Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[id]
}

// List returns all tracked processes.
func (s *Supervisor) List() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		result = append(result, p)
	}
	return result
}

// Count returns the number of tracked processes.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Kill kills a process by ID.
func (s *Supervisor) Kill(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Kill()
}

// Shutdown stops accepting new processes, sends SIGTERM to the running
// ones and waits up to timeout for their owners to reap them. Survivors are
// killed, and Shutdown waits one more timeout before giving up on them.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	procs := s.List()
	if len(procs) == 0 {
		return
	}

	for _, p := range procs {
		_ = p.Terminate()
	}

	if s.awaitAll(procs, timeout) {
		return
	}

	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Kill()
		}
	}
	s.awaitAll(procs, timeout)
}

// awaitAll reports whether every proc was reaped within timeout.
func (s *Supervisor) awaitAll(procs []*Process, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Sentinel errors.
var (
	// ErrProcessNotFound is returned when a process ID is not tracked.
	ErrProcessNotFound = errors.New("process not found")

	// ErrSupervisorShutdown is returned when the supervisor is shutting down.
	ErrSupervisorShutdown = errors.New("supervisor is shutting down")

	// ErrProcessLimit is returned when the concurrent process limit is reached.
	ErrProcessLimit = errors.New("process limit reached")

	// ErrStreamsConfigured is returned when the command already has
	// Stdin, Stdout or Stderr set; the supervisor always pipes all three.
	ErrStreamsConfigured = errors.New("command streams already configured")
)
