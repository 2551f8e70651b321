package logger

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/settings"
	"go.trai.ch/mach/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}

			lg := NewWithWriter(os.Stderr, log.InfoLevel)
			if err := lg.SetLevel(cfg.LogLevel); err != nil {
				return nil, err
			}
			return lg, nil
		},
	})
}
