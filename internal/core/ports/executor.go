package ports

import (
	"context"

	"go.trai.ch/mach/internal/core/domain"
)

// ExecRequest describes one script run.
type ExecRequest struct {
	// Script is the expanded script text, fed to the shell on standard input.
	Script string
	// Env holds variables layered over the process environment.
	Env map[string]string
	// Shell is the interpreter path. Empty selects the executor's default.
	Shell string
	// Output selects how standard output and standard error are forwarded.
	Output domain.OutputMode
	// Encoding names the text encoding of the script and its output.
	Encoding string
}

// Executor defines the interface for running build scripts.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the script and returns the process exit code.
	// The error is reserved for failures to start or supervise the process;
	// a nonzero exit code alone is not an error.
	Execute(ctx context.Context, req ExecRequest) (int, error)
}
