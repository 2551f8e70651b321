// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultShell is the interpreter used when a request names none.
const DefaultShell = "/bin/sh"

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor by feeding scripts to a shell on
// standard input.
type Executor struct {
	logger ports.Logger
	out    io.Writer
}

// NewExecutor creates a new Executor forwarding script output to out.
func NewExecutor(logger ports.Logger, out io.Writer) *Executor {
	return &Executor{
		logger: logger,
		out:    newSyncWriter(out),
	}
}

// Execute runs the request's script and returns the shell's exit code.
// Both output streams are drained concurrently and joined before the exit
// code is reported.
// The environment merges with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. req.Env (scope exports and script overrides)
func (e *Executor) Execute(ctx context.Context, req ports.ExecRequest) (int, error) {
	shell := req.Shell
	if shell == "" {
		shell = DefaultShell
	}

	codec, err := lookupCodec(req.Encoding)
	if err != nil {
		return -1, err
	}

	script, err := codec.encode(req.Script)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to encode script"), "encoding", req.Encoding)
	}

	cmd := exec.CommandContext(ctx, shell) //nolint:gosec // user provided shell
	cmd.Env = resolveEnvironment(os.Environ(), req.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return -1, zerr.Wrap(err, "failed to open stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, zerr.Wrap(err, "failed to open stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, zerr.Wrap(err, "failed to open stderr")
	}

	if err := cmd.Start(); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start shell"), "shell", shell)
	}
	e.logger.Debug("started " + shell)

	outSink, errSink := e.out, e.out
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		outSink = io.MultiWriter(e.out, vertex.Stdout())
		errSink = io.MultiWriter(e.out, vertex.Stderr())
	}

	var g errgroup.Group
	g.Go(func() error {
		return drain(codec.decoder(stdout), newHandler(req.Output, outSink))
	})
	g.Go(func() error {
		return drain(codec.decoder(stderr), newHandler(req.Output, errSink))
	})

	writeErr := writeScript(stdin, script)
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return -1, zerr.With(zerr.Wrap(waitErr, "shell failed"), "shell", shell)
		}
	}
	if writeErr != nil {
		return -1, zerr.Wrap(writeErr, "failed to write script")
	}
	if drainErr != nil {
		return -1, zerr.Wrap(drainErr, "failed to forward output")
	}

	return cmd.ProcessState.ExitCode(), nil
}

// writeScript feeds the script and closes stdin. A shell that exits before
// reading everything closes the pipe, which is not an error.
func writeScript(stdin io.WriteCloser, script []byte) error {
	_, err := stdin.Write(script)
	closeErr := stdin.Close()
	if err != nil && !errors.Is(err, syscall.EPIPE) {
		return err
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) && !errors.Is(closeErr, syscall.EPIPE) {
		return closeErr
	}
	return nil
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv []string, env map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(env))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range env {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}
