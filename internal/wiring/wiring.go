// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/blaze/internal/adapters/config"
	_ "go.trai.ch/blaze/internal/adapters/daemon"
	_ "go.trai.ch/blaze/internal/adapters/logger"
	_ "go.trai.ch/blaze/internal/adapters/shell"
	_ "go.trai.ch/blaze/internal/adapters/telemetry"
	_ "go.trai.ch/blaze/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/blaze/internal/app"
	_ "go.trai.ch/blaze/internal/engine/analysis"
)
