package format

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/blacken/internal/integration/process"
	"github.com/dshills/blacken/internal/logging"
)

// Pipeline runs formatter processes. Each Run owns its pipes and output
// buffers, so one Pipeline may serve concurrent requests.
type Pipeline struct {
	supervisor *process.Supervisor
	logger     *logging.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSupervisor spawns processes through s instead of a private supervisor.
func WithSupervisor(s *process.Supervisor) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.supervisor = s
		}
	}
}

// WithPipelineLogger sets the logger for run diagnostics.
func WithPipelineLogger(l *logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.supervisor == nil {
		p.supervisor = process.NewSupervisor()
	}
	p.logger = p.logger.WithComponent("pipeline")
	return p
}

// Supervisor returns the supervisor processes are started through.
func (p *Pipeline) Supervisor() *process.Supervisor {
	return p.supervisor
}

// Run executes executable with args, feeding it input on stdin.
func (p *Pipeline) Run(ctx context.Context, executable string, args []string, input []byte) (*Result, error) {
	return p.RunInDir(ctx, "", executable, args, input)
}

// RunInDir is Run with the process working directory set to dir, so the
// formatter resolves its own project configuration from there. An empty dir
// inherits the current directory.
//
// Run returns a *SpawnError if the process cannot start, an *IOError if a
// pipe fails and a *TimeoutError if ctx's deadline kills the process. A
// non-zero exit status is not an error at this level.
func (p *Pipeline) RunInDir(ctx context.Context, dir, executable string, args []string, input []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(executable, args...)
	cmd.Dir = dir

	proc, err := p.supervisor.Start(executable, cmd)
	if err != nil {
		return nil, &SpawnError{Executable: executable, Err: err}
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group

	g.Go(func() error {
		return writeInput(proc.Stdin, input)
	})
	g.Go(func() error {
		return drain(&stdout, proc.Stdout, "stdout")
	})
	g.Go(func() error {
		return drain(&stderr, proc.Stderr, "stderr")
	})

	// The kill reaches the child's whole process group. Closing the read
	// ends unblocks the drains even if a descendant escaped the group.
	var killed atomic.Bool
	stop := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case <-ctx.Done():
			killed.Store(true)
			_ = proc.Kill()
			_ = proc.Stdout.Close()
			_ = proc.Stderr.Close()
		case <-stop:
		}
	}()

	ioErr := g.Wait()
	close(stop)
	<-watched
	code, waitErr := proc.Wait()
	elapsed := proc.Runtime()

	log := p.logger.WithFields(map[string]any{
		"pid":      proc.PID(),
		"exit":     code,
		"duration": elapsed.Round(time.Millisecond),
	})

	if killed.Load() && cutShort(proc.State(), ioErr) {
		log.Warn("%s killed: %v", executable, ctx.Err())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Executable: executable, After: elapsed}
		}
		return nil, ctx.Err()
	}
	if ioErr != nil {
		log.Error("%s: %v", executable, ioErr)
		return nil, ioErr
	}
	if waitErr != nil {
		log.Error("%s: wait: %v", executable, waitErr)
		return nil, &IOError{Stream: "wait", Err: waitErr}
	}

	log.Debug("%s read %d bytes, wrote %d bytes", executable, len(input), stdout.Len())

	return &Result{
		ExitStatus: code,
		Stdout:     stdout.Bytes(),
		Stderr:     stderr.Bytes(),
		Duration:   elapsed,
	}, nil
}

// writeInput writes all of input and closes w to signal end of input.
// A child that exits without reading its input surfaces as EPIPE; that is
// left for the exit status to explain.
func writeInput(w io.WriteCloser, input []byte) error {
	_, err := w.Write(input)
	closeErr := w.Close()

	if err != nil && !brokenPipe(err) {
		return &IOError{Stream: "stdin", Err: err}
	}
	if err == nil && closeErr != nil && !brokenPipe(closeErr) {
		return &IOError{Stream: "stdin", Err: closeErr}
	}
	return nil
}

func drain(dst *bytes.Buffer, r io.Reader, stream string) error {
	if _, err := dst.ReadFrom(r); err != nil {
		return &IOError{Stream: stream, Err: err}
	}
	return nil
}

// cutShort reports whether a kill changed the outcome of a run: the child
// died from the signal or its output was closed before EOF. A deadline that
// fires after the child exited and its output was read does not count.
func cutShort(state process.State, ioErr error) bool {
	return state == process.StateKilled || errors.Is(ioErr, os.ErrClosed)
}

func brokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
