package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/fs"
	"go.trai.ch/mach/internal/adapters/logger"
	"go.trai.ch/mach/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// ChangeFilterNodeID is the unique identifier for the change filter Graft node.
	ChangeFilterNodeID graft.ID = "adapter.change_filter"
)

func init() {
	// The watcher is created lazily by the factory so that commands which
	// never watch do not hold an inotify instance.
	graft.Register(graft.Node[*Factory]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Factory{walker: walker, logger: log}, nil
		},
	})

	graft.Register(graft.Node[*ChangeFilter]{
		ID:        ChangeFilterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (*ChangeFilter, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewChangeFilter(hasher), nil
		},
	})
}

// Factory creates watchers on demand.
type Factory struct {
	walker *fs.Walker
	logger ports.Logger
}

// NewFactory creates a Factory.
func NewFactory(walker *fs.Walker, logger ports.Logger) *Factory {
	return &Factory{walker: walker, logger: logger}
}

// New creates a watcher.
func (f *Factory) New() (ports.Watcher, error) {
	return NewWatcher(f.walker, f.logger)
}

// Walker returns the walker used to enumerate watched trees.
func (f *Factory) Walker() *fs.Walker {
	return f.walker
}
