package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports/mocks"
	"go.trai.ch/blaze/internal/engine/analysis"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newAnalyzer(t *testing.T) *analysis.Analyzer {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return analysis.NewAnalyzer(logger)
}

func TestAnalyzer_Analyze(t *testing.T) {
	ws := newWorkspace(t)
	cfg, err := ws.Configuration("")
	require.NoError(t, err)
	host, err := ws.Configuration(domain.HostConfigurationName)
	require.NoError(t, err)

	result, err := newAnalyzer(t).Analyze(context.Background(), ws, labels("//app:app"), cfg)
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	app := result.Targets[0]
	assert.Equal(t, domain.NewLabel("app", "app"), app.Label)
	assert.Equal(t, []domain.Artifact{
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/config.h"),
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/main.o"),
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/app"),
	}, app.Outputs)
	assert.Equal(t, 5, result.Graph.Len())

	link, err := result.Graph.GeneratingAction(domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/app"))
	require.NoError(t, err)
	assert.Equal(t, "Link", link.Mnemonic)
	assert.Equal(t, app.Owner(), link.Owner)
	assert.Equal(t, []domain.Artifact{
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/main.o"),
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/lib/util.o"),
	}, link.Inputs)

	compile, err := result.Graph.GeneratingAction(domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/main.o"))
	require.NoError(t, err)
	assert.Equal(t, []domain.Artifact{
		domain.NewSourceArtifact("app/main.c"),
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/config.h"),
	}, compile.Inputs)

	// The tool is configured for the host.
	tool, err := result.Graph.GeneratingAction(domain.NewDerivedArtifact("blaze-out/host/bin/tools/gen.sh"))
	require.NoError(t, err)
	assert.Equal(t, host.ShortCacheKey(), tool.Owner.ConfigurationKey)
	assert.Equal(t, domain.NewLabel("tools", "gen"), tool.Owner.Label)
}

func TestAnalyzer_ConfiguresEachTargetOnce(t *testing.T) {
	ws := newWorkspace(t)
	cfg, err := ws.Configuration("")
	require.NoError(t, err)

	// lib:util is reached directly and through app:app.
	result, err := newAnalyzer(t).Analyze(context.Background(), ws, labels("//app:app", "//lib:util"), cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Graph.Len())
	require.Len(t, result.Targets, 2)
	assert.Equal(t, result.Targets[1].Outputs, []domain.Artifact{
		domain.NewDerivedArtifact("blaze-out/fastbuild/bin/lib/util.o"),
	})
}

func TestAnalyzer_SeparateConfigurations(t *testing.T) {
	ws := newWorkspace(t)
	opt, err := ws.Configuration("opt")
	require.NoError(t, err)

	result, err := newAnalyzer(t).Analyze(context.Background(), ws, labels("//lib:util"), opt)
	require.NoError(t, err)

	require.Len(t, result.Targets, 1)
	assert.Equal(t, opt.ShortCacheKey(), result.Targets[0].Owner().ConfigurationKey)
	assert.Equal(t, []domain.Artifact{
		domain.NewDerivedArtifact("blaze-out/opt/bin/lib/util.o"),
	}, result.Targets[0].Outputs)
}

func TestAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		targets []*domain.Target
		wantErr error
		meta    map[string]string
	}{
		{
			name: "dependency cycle",
			targets: []*domain.Target{
				{Label: domain.NewLabel("a", "a"), Deps: []domain.Label{domain.NewLabel("b", "b")}},
				{Label: domain.NewLabel("b", "b"), Deps: []domain.Label{domain.NewLabel("a", "a")}},
			},
			wantErr: domain.ErrCycleDetected,
			meta:    map[string]string{"cycle": "//a:a -> //b:b -> //a:a"},
		},
		{
			name: "missing dependency",
			targets: []*domain.Target{
				{Label: domain.NewLabel("a", "a"), Deps: []domain.Label{domain.NewLabel("b", "b")}},
			},
			wantErr: domain.ErrMissingDependency,
			meta:    map[string]string{"dependency": "//b:b"},
		},
		{
			name: "conflicting outputs",
			targets: []*domain.Target{
				{
					Label: domain.NewLabel("a", "a"),
					Actions: []domain.ActionTemplate{
						{Mnemonic: "One", Outputs: []string{"out"}},
						{Mnemonic: "Two", Outputs: []string{"out"}},
					},
				},
			},
			wantErr: domain.ErrArtifactConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := domain.NewWorkspace("/ws")
			for _, tgt := range tt.targets {
				require.NoError(t, ws.AddTarget(tgt))
			}
			cfg, err := ws.Configuration("")
			require.NoError(t, err)

			_, err = newAnalyzer(t).Analyze(context.Background(), ws, labels("//a:a"), cfg)
			require.ErrorIs(t, err, tt.wantErr)

			if len(tt.meta) > 0 {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				for k, v := range tt.meta {
					assert.Equal(t, v, zErr.Metadata()[k])
				}
			}
		})
	}
}

func TestAnalyzer_CanceledContext(t *testing.T) {
	ws := newWorkspace(t)
	cfg, err := ws.Configuration("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = newAnalyzer(t).Analyze(ctx, ws, labels("//app:app"), cfg)
	require.ErrorIs(t, err, context.Canceled)
}
