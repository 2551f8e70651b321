package help

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/core/ports"
)

// NodeID is the unique identifier for the help renderer Graft node.
const NodeID graft.ID = "adapter.help_renderer"

func init() {
	graft.Register(graft.Node[ports.HelpRenderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.HelpRenderer, error) {
			return NewRenderer(), nil
		},
	})
}
