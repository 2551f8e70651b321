package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/logger"
	"go.trai.ch/mach/internal/core/ports"
)

// NodeID is the unique identifier for the Machfile loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.MachfileLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MachfileLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
