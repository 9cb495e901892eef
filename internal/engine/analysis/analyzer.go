package analysis

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// Analyzer configures targets and builds the action graph for a set of requested labels.
type Analyzer struct {
	logger ports.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(logger ports.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

type targetKey struct {
	label     domain.Label
	configKey string
}

// configured is an analyzed target plus the outputs it exposes to dependents,
// keyed by workspace-relative path.
type configured struct {
	target  domain.ConfiguredTarget
	exports map[string]domain.Artifact
}

type run struct {
	ws       *domain.Workspace
	host     *domain.Configuration
	builder  *domain.ActionGraphBuilder
	done     map[targetKey]*configured
	visiting map[targetKey]bool
	path     []domain.Label
}

// Analyze configures labels in cfg together with their transitive deps and tools.
//
// Deps are analyzed in the same configuration, tools in the host configuration.
// Each (label, configuration) pair is configured once.
func (a *Analyzer) Analyze(
	ctx context.Context,
	ws *domain.Workspace,
	labels []domain.Label,
	cfg *domain.Configuration,
) (*domain.AnalysisResult, error) {
	host, err := ws.Configuration(domain.HostConfigurationName)
	if err != nil {
		host = cfg
	}

	r := &run{
		ws:       ws,
		host:     host,
		builder:  domain.NewActionGraphBuilder(),
		done:     make(map[targetKey]*configured),
		visiting: make(map[targetKey]bool),
	}

	targets := make([]domain.ConfiguredTarget, 0, len(labels))
	for _, l := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := r.analyze(l, cfg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, c.target)
	}

	graph, err := r.builder.Build()
	if err != nil {
		return nil, err
	}

	a.logger.Debug(fmt.Sprintf("analyzed %d configured targets, %d actions", len(r.done), graph.Len()))
	return &domain.AnalysisResult{Targets: targets, Graph: graph}, nil
}

func (r *run) analyze(label domain.Label, cfg *domain.Configuration) (*configured, error) {
	key := targetKey{label: label, configKey: cfg.ShortCacheKey()}
	if c, ok := r.done[key]; ok {
		return c, nil
	}
	if r.visiting[key] {
		return nil, r.cycleError(label)
	}

	def, err := r.ws.Target(label)
	if err != nil {
		return nil, err
	}

	r.visiting[key] = true
	r.path = append(r.path, label)

	available := make(map[string]domain.Artifact)
	if err := r.collect(def, def.Deps, cfg, available); err != nil {
		return nil, err
	}
	if err := r.collect(def, def.Tools, r.host, available); err != nil {
		return nil, err
	}

	c, err := r.configure(def, cfg, available)
	if err != nil {
		return nil, err
	}

	delete(r.visiting, key)
	r.path = r.path[:len(r.path)-1]
	r.done[key] = c
	return c, nil
}

// collect analyzes each dependency and merges its exports into available.
// Earlier dependencies win when two export the same path.
func (r *run) collect(
	def *domain.Target,
	deps []domain.Label,
	cfg *domain.Configuration,
	available map[string]domain.Artifact,
) error {
	for _, dep := range deps {
		if _, err := r.ws.Target(dep); err != nil {
			return zerr.With(
				zerr.With(zerr.Wrap(domain.ErrMissingDependency, ""), "target", def.Label.String()),
				"dependency", dep.String(),
			)
		}
		c, err := r.analyze(dep, cfg)
		if err != nil {
			return err
		}
		for p, a := range c.exports {
			if _, exists := available[p]; !exists {
				available[p] = a
			}
		}
	}
	return nil
}

func (r *run) configure(
	def *domain.Target,
	cfg *domain.Configuration,
	available map[string]domain.Artifact,
) (*configured, error) {
	c := &configured{
		target: domain.ConfiguredTarget{
			Label:         def.Label,
			Configuration: cfg,
		},
		exports: make(map[string]domain.Artifact),
	}
	owner := c.target.Owner()

	for _, tmpl := range def.Actions {
		action := &domain.Action{
			Mnemonic:        tmpl.Mnemonic,
			Owner:           owner,
			Command:         tmpl.Command,
			Environment:     tmpl.Environment,
			ProgressMessage: tmpl.ProgressMessage,
		}

		for _, in := range tmpl.Inputs {
			rel := resolvePath(def.Label.Package, in)
			if a, ok := c.exports[rel]; ok {
				action.Inputs = append(action.Inputs, a)
				continue
			}
			if a, ok := available[rel]; ok {
				action.Inputs = append(action.Inputs, a)
				continue
			}
			action.Inputs = append(action.Inputs, domain.NewSourceArtifact(rel))
		}

		for _, out := range tmpl.Outputs {
			rel := resolvePath(def.Label.Package, out)
			artifact := domain.NewDerivedArtifact(path.Join(cfg.OutputDir(), rel))
			action.Outputs = append(action.Outputs, artifact)
			c.exports[rel] = artifact
			c.target.Outputs = append(c.target.Outputs, artifact)
		}

		if err := r.builder.Register(action); err != nil {
			return nil, zerr.With(err, "target", def.Label.String())
		}
	}

	return c, nil
}

func (r *run) cycleError(label domain.Label) error {
	start := 0
	for i, l := range r.path {
		if l == label {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(r.path)-start+1)
	for _, l := range r.path[start:] {
		parts = append(parts, l.String())
	}
	parts = append(parts, label.String())
	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, ""), "cycle", strings.Join(parts, " -> "))
}

// resolvePath turns a declared path into a workspace-relative one.
// Paths starting with // are already workspace-relative; all others are relative to pkg.
func resolvePath(pkg, p string) string {
	if rest, ok := strings.CutPrefix(p, domain.LabelPrefix); ok {
		return path.Clean(rest)
	}
	return path.Join(pkg, p)
}
