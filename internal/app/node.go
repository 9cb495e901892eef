package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blaze/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/daemon"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/engine/analysis"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds what the command line needs from the application.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.RCNodeID,
			daemon.NodeID,
			analysis.CacheNodeID,
			shell.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.WorkspaceLoader](ctx)
	if err != nil {
		return nil, err
	}
	rcLoader, err := graft.Dep[ports.RCLoader](ctx)
	if err != nil {
		return nil, err
	}
	connector, err := graft.Dep[ports.DaemonConnector](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[*analysis.Cache](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, rcLoader, connector, cache, executor, tracer, fsWatcher, log), nil
}
