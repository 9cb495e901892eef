package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blaze/internal/adapters/logger"
	"go.trai.ch/blaze/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the workspace loader Graft node.
	NodeID graft.ID = "adapter.workspace_loader"
	// RCNodeID is the unique identifier for the rc loader Graft node.
	RCNodeID graft.ID = "adapter.rc_loader"
)

func init() {
	graft.Register(graft.Node[ports.WorkspaceLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WorkspaceLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.RCLoader]{
		ID:        RCNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RCLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
