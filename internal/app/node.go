package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mach/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/help"               //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/settings"           //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			orchestrator.NodeID,
			help.NodeID,
			logger.NodeID,
			settings.NodeID,
			watcher.WatcherNodeID,
			watcher.ChangeFilterNodeID,
			fs.WalkerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
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

			return NewComponents(a, log, telemetry), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.MachfileLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[*orchestrator.Factory](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.HelpRenderer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*settings.Settings](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[*watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	filter, err := graft.Dep[*watcher.ChangeFilter](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	a := New(loader, factory, renderer, log, cfg, os.Stdout)
	return a.WithWatch(WatchDeps{Watchers: watchers, Filter: filter, Files: walker}), nil
}
