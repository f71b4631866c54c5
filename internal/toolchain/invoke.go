package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/log"
)

// Invocation is one external command run for a project stage
type Invocation struct {
	// Tool is the logical tool name, kept for error context
	Tool string
	// Path is the resolved executable
	Path string
	// Args are the command arguments (without the executable)
	Args []string
	// Dir is the working directory, normally the project dir
	Dir string
	// Project and Stage label log lines and failure errors
	Project string
	Stage   string
	// Stdin feeds the process when set
	Stdin io.Reader
	// Stdout redirects process output when set; by default output
	// streams through the logger line by line
	Stdout io.Writer
}

// Runner executes tool invocations sequentially, streaming output
// through the logger. Cancelling the context kills the whole process
// group.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner logging through the given logger
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run starts the invocation and waits for it. A non-zero exit comes
// back as a tool failure carrying the project and stage; cancellation
// comes back wrapping ctx.Err().
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	logger := r.logger().With("tool", inv.Tool, "project", inv.Project, "stage", inv.Stage)
	logger.Debug("invoking tool",
		"command", inv.Path+" "+strings.Join(inv.Args, " "),
		"dir", inv.Dir)

	cmd := exec.Command(inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = inv.Stdin

	stdout := &lineWriter{emit: func(line string) { logger.Info(line) }}
	stderr := &lineWriter{emit: func(line string) { logger.Warn(line) }}
	if inv.Stdout != nil {
		cmd.Stdout = inv.Stdout
	} else {
		cmd.Stdout = stdout
	}
	cmd.Stderr = stderr

	// Own process group so cancellation can kill the whole tree
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed,
			fmt.Sprintf("failed to start %s for project %s (stage %s)", inv.Tool, inv.Project, inv.Stage), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			// Negative pid targets the process group
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		stdout.Flush()
		stderr.Flush()
		return fmt.Errorf("%s cancelled: %w", inv.Tool, ctx.Err())
	case waitErr = <-done:
	}

	stdout.Flush()
	stderr.Flush()

	if waitErr != nil {
		return errors.NewToolFailedError(inv.Tool, inv.Project, inv.Stage, waitErr)
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.DefaultLogger()
}

// lineWriter buffers process output and forwards complete lines
type lineWriter struct {
	emit func(line string)
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		if line != "" {
			w.emit(line)
		}
	}
	return len(p), nil
}

// Flush emits any trailing partial line
func (w *lineWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}
	line := strings.TrimRight(string(w.buf), "\r")
	w.buf = nil
	if line != "" {
		w.emit(line)
	}
}
