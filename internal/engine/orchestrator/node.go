package orchestrator

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mach/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mach/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/mach/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator factory Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			shell.DryRunNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}

			dryRun, err := graft.Dep[*shell.DryRunExecutor](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(executor, dryRun, log, telemetry, os.Stdout), nil
		},
	})
}
