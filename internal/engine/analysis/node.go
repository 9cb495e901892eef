package analysis

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blaze/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/blaze/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/blaze/internal/core/ports"
)

const (
	// AnalyzerNodeID is the unique identifier for the analyzer Graft node.
	AnalyzerNodeID graft.ID = "engine.analyzer"
	// CacheNodeID is the unique identifier for the analysis cache Graft node.
	CacheNodeID graft.ID = "engine.analysis_cache"
)

func init() {
	graft.Register(graft.Node[*Analyzer]{
		ID:        AnalyzerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Analyzer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewAnalyzer(log), nil
		},
	})

	graft.Register(graft.Node[*Cache]{
		ID:        CacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, AnalyzerNodeID},
		Run: func(ctx context.Context) (*Cache, error) {
			loader, err := graft.Dep[ports.WorkspaceLoader](ctx)
			if err != nil {
				return nil, err
			}
			analyzer, err := graft.Dep[*Analyzer](ctx)
			if err != nil {
				return nil, err
			}
			return NewCache(loader, analyzer), nil
		},
	})
}
