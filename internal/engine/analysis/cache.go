package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cache keeps loaded workspaces and analysis results warm between requests.
//
// Workspace entries are validated against the build file's modification time and size.
// Analysis results belong to the workspace entry they were computed from and are dropped
// together with it.
type Cache struct {
	loader   ports.WorkspaceLoader
	analyzer *Analyzer

	mu         sync.Mutex
	workspaces map[string]*workspaceEntry
}

type workspaceEntry struct {
	workspace *domain.Workspace
	mtime     time.Time
	size      int64
	results   map[string]*domain.AnalysisResult
}

// NewCache creates an empty cache.
func NewCache(loader ports.WorkspaceLoader, analyzer *Analyzer) *Cache {
	return &Cache{
		loader:     loader,
		analyzer:   analyzer,
		workspaces: make(map[string]*workspaceEntry),
	}
}

// Workspace returns the workspace at root, reloading it if the build file changed.
// The boolean reports a cache hit.
func (c *Cache) Workspace(root string) (*domain.Workspace, bool, error) {
	buildFile := filepath.Join(root, domain.BuildFileName)
	info, err := os.Stat(buildFile)
	if err != nil {
		c.Invalidate(root)
		return nil, false, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", buildFile)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.workspaces[root]; ok && e.mtime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.workspace, true, nil
	}

	ws, err := c.loader.Load(root)
	if err != nil {
		delete(c.workspaces, root)
		return nil, false, err
	}
	c.workspaces[root] = &workspaceEntry{
		workspace: ws,
		mtime:     info.ModTime(),
		size:      info.Size(),
		results:   make(map[string]*domain.AnalysisResult),
	}
	return ws, false, nil
}

// Analyze returns the analysis of labels in cfg, computing it on a miss.
// The boolean reports a cache hit.
func (c *Cache) Analyze(
	ctx context.Context,
	ws *domain.Workspace,
	labels []domain.Label,
	cfg *domain.Configuration,
) (*domain.AnalysisResult, bool, error) {
	key := resultKey(labels, cfg)

	c.mu.Lock()
	entry, ok := c.workspaces[ws.Root()]
	if ok && entry.workspace == ws {
		if result, hit := entry.results[key]; hit {
			c.mu.Unlock()
			return result, true, nil
		}
	}
	c.mu.Unlock()

	result, err := c.analyzer.Analyze(ctx, ws, labels, cfg)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.workspaces[ws.Root()]; ok && entry.workspace == ws {
		entry.results[key] = result
	}
	return result, false, nil
}

// Invalidate drops everything cached for root.
func (c *Cache) Invalidate(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.workspaces, root)
}

func resultKey(labels []domain.Label, cfg *domain.Configuration) string {
	var b strings.Builder
	b.WriteString(cfg.ShortCacheKey())
	for _, l := range labels {
		b.WriteByte(' ')
		b.WriteString(l.String())
	}
	return b.String()
}
