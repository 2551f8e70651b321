package orchestrator

import (
	"io"

	"go.trai.ch/mach/internal/core/ports"
)

// Factory creates a fresh orchestrator for each build run, so no rule,
// variable or done flag leaks from one run into the next.
type Factory struct {
	executor  ports.Executor
	dryRun    ports.Executor
	logger    ports.Logger
	telemetry ports.Telemetry
	out       io.Writer
}

// NewFactory creates a Factory sharing the given collaborators between runs.
func NewFactory(
	executor ports.Executor,
	dryRun ports.Executor,
	logger ports.Logger,
	telemetry ports.Telemetry,
	out io.Writer,
) *Factory {
	return &Factory{
		executor:  executor,
		dryRun:    dryRun,
		logger:    logger,
		telemetry: telemetry,
		out:       out,
	}
}

// New returns an empty orchestrator.
func (f *Factory) New() *Orchestrator {
	return New(f.executor, f.dryRun, f.logger, f.telemetry, f.out)
}
