package shell

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/logger"
	"go.trai.ch/mach/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the shell executor node.
	NodeID graft.ID = "adapter.executor"
	// DryRunNodeID is the unique identifier for the dry-run executor node.
	DryRunNodeID graft.ID = "adapter.executor.dryrun"
)

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log, os.Stdout), nil
		},
	})

	graft.Register(graft.Node[*DryRunExecutor]{
		ID:        DryRunNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*DryRunExecutor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDryRunExecutor(log), nil
		},
	})
}
