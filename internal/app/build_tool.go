package app

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/engine/analysis"
	"go.trai.ch/blaze/internal/engine/visitor"
	"go.trai.ch/blaze/internal/ui/output"
	"go.trai.ch/zerr"
)

// BuildResult is the outcome of a processed build request.
type BuildResult struct {
	ExitCode domain.ExitCode
	Err      error
	// ActionCount is the number of actions that ran successfully.
	ActionCount int
	Analysis    *domain.AnalysisResult
}

// BuildTool runs the loading, analysis and execution phases of a build request.
type BuildTool struct {
	cache    *analysis.Cache
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewBuildTool creates a BuildTool.
func NewBuildTool(cache *analysis.Cache, executor ports.Executor, tracer ports.Tracer, logger ports.Logger) *BuildTool {
	return &BuildTool{
		cache:    cache,
		executor: executor,
		tracer:   tracer,
		logger:   logger,
	}
}

// ProcessRequest runs a build request to completion and reports its exit condition.
func (b *BuildTool) ProcessRequest(ctx context.Context, req *domain.BuildRequest) BuildResult {
	ctx, span := b.tracer.Start(ctx, req.CommandName(),
		ports.WithAttribute("command_id", req.CommandID().String()),
		ports.WithAttribute("targets", strings.Join(req.Targets(), " ")),
	)
	defer span.End()

	result, err := b.Analyze(ctx, req)
	if err != nil {
		span.RecordError(err)
		return BuildResult{ExitCode: domain.ExitCodeFor(err), Err: err}
	}

	stderr := req.OutErr().Err()
	if req.Options().NoBuild {
		output.Infof(stderr, "Found %d targets...", len(result.Targets))
		return BuildResult{ExitCode: domain.ExitSuccess, Analysis: result}
	}

	executed, err := b.execute(ctx, req, result)
	if err != nil {
		span.RecordError(err)
		output.Failedf(stderr, "Build did NOT complete successfully")
		return BuildResult{ExitCode: domain.ExitCodeFor(err), Err: err, ActionCount: executed, Analysis: result}
	}

	output.Infof(stderr, "Build completed successfully, %d actions executed", executed)
	return BuildResult{ExitCode: domain.ExitSuccess, ActionCount: executed, Analysis: result}
}

// Analyze runs the loading and analysis phases of req.
func (b *BuildTool) Analyze(ctx context.Context, req *domain.BuildRequest) (*domain.AnalysisResult, error) {
	stderr := req.OutErr().Err()
	root := req.StartupOptions().WorkspaceRoot

	ctx, loading := b.tracer.Start(ctx, "loading")
	ws, hit, err := b.cache.Workspace(root)
	if err != nil {
		loading.RecordError(err)
		loading.End()
		return nil, err
	}
	loading.SetAttribute("cache_hit", hit)

	labels, err := analysis.ResolvePatterns(ws, req.Targets())
	if err != nil {
		loading.RecordError(err)
		loading.End()
		return nil, err
	}
	loading.End()

	cfg, err := ws.Configuration(req.Options().Configuration)
	if err != nil {
		return nil, err
	}

	ctx, analyzing := b.tracer.Start(ctx, "analysis", ports.WithAttribute("configuration", cfg.Name()))
	defer analyzing.End()

	result, hit, err := b.cache.Analyze(ctx, ws, labels, cfg)
	if err != nil {
		analyzing.RecordError(err)
		return nil, err
	}
	analyzing.SetAttribute("cache_hit", hit)

	output.Infof(stderr, "Analyzed %d targets (%d actions configured).", len(result.Targets), result.Graph.Len())
	return result, nil
}

// execute runs the actions needed for the requested targets in dependency order.
// Without keep going the first failure stops the build; with it, only actions
// depending on a failed output are skipped.
func (b *BuildTool) execute(ctx context.Context, req *domain.BuildRequest, result *domain.AnalysisResult) (int, error) {
	ctx, span := b.tracer.Start(ctx, "execution")
	defer span.End()

	needed, err := visitor.Reachable(result.Graph, result.TopLevelArtifacts()...)
	if err != nil {
		return 0, err
	}
	pending := make(map[*domain.Action]struct{}, len(needed))
	for _, a := range needed {
		pending[a] = struct{}{}
	}
	span.SetAttribute("actions", len(pending))

	outErr := req.OutErr()
	keepGoing := req.Options().KeepGoing
	root := req.StartupOptions().WorkspaceRoot
	failedOutputs := make(map[domain.Artifact]struct{})

	var executed, failed, step int
	for action := range result.Graph.Walk() {
		if _, ok := pending[action]; !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		step++

		if dependsOnFailure(action, failedOutputs) {
			markFailed(action, failedOutputs)
			continue
		}

		_, _ = fmt.Fprintf(outErr.Err(), "[%d / %d] %s\n", step, len(pending), action.Describe())
		if err := b.runAction(ctx, action, root, outErr); err != nil {
			failed++
			markFailed(action, failedOutputs)
			output.Errorf(outErr.Err(), "%s", err)
			if !keepGoing {
				return executed, zerr.With(fmt.Errorf("%w: %w", domain.ErrBuildFailed, err), "failed_actions", failed)
			}
			continue
		}
		executed++
	}

	if failed > 0 {
		return executed, zerr.With(zerr.Wrap(domain.ErrBuildFailed, ""), "failed_actions", failed)
	}
	return executed, nil
}

func (b *BuildTool) runAction(ctx context.Context, action *domain.Action, root string, outErr domain.OutErr) error {
	ctx, span := b.tracer.Start(ctx, action.Describe(),
		ports.WithAttribute("mnemonic", action.Mnemonic),
		ports.WithAttribute("owner", action.Owner.Label.String()),
	)
	defer span.End()

	if err := b.executor.Execute(ctx, action, root, outErr.Out(), outErr.Err()); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func dependsOnFailure(action *domain.Action, failed map[domain.Artifact]struct{}) bool {
	for _, in := range action.Inputs {
		if _, ok := failed[in]; ok {
			return true
		}
	}
	return false
}

func markFailed(action *domain.Action, failed map[domain.Artifact]struct{}) {
	for _, out := range action.Outputs {
		failed[out] = struct{}{}
	}
}
