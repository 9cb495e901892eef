package ports

import "go.trai.ch/blaze/internal/core/domain"

// WorkspaceLoader defines the interface for loading the build file of a workspace.
//
//go:generate mockgen -source=workspace_loader.go -destination=mocks/mock_workspace_loader.go -package=mocks
type WorkspaceLoader interface {
	// DiscoverRoot walks up from cwd and returns the first directory containing a build file.
	DiscoverRoot(cwd string) (string, error)

	// Load reads the build file at the workspace root and returns the target definitions.
	Load(root string) (*domain.Workspace, error)
}

// RCLoader defines the interface for reading startup and command defaults.
type RCLoader interface {
	// LoadRC reads the rc file at the workspace root. A missing file yields defaults.
	LoadRC(root string) (*domain.RCOptions, error)
}
