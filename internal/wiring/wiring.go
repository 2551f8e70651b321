// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mach/internal/adapters/config"
	_ "go.trai.ch/mach/internal/adapters/fs"
	_ "go.trai.ch/mach/internal/adapters/help"
	_ "go.trai.ch/mach/internal/adapters/logger"
	_ "go.trai.ch/mach/internal/adapters/settings"
	_ "go.trai.ch/mach/internal/adapters/shell"
	_ "go.trai.ch/mach/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/mach/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/mach/internal/app"
	_ "go.trai.ch/mach/internal/engine/orchestrator"
)
