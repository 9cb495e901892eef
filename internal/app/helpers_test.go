package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/adapters/config"
	"go.trai.ch/blaze/internal/adapters/telemetry"
	"go.trai.ch/blaze/internal/app"
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/blaze/internal/core/ports/mocks"
	"go.trai.ch/blaze/internal/engine/analysis"
	"go.uber.org/mock/gomock"
)

const sampleBuildfile = `
version: "1"
configurations:
  opt:
    copt: "-O2"
packages:
  lib:
    util:
      actions:
        - mnemonic: Compile
          inputs: [util.c]
          outputs: [util.o]
          cmd: [cc, -c, lib/util.c]
  app:
    app:
      deps: ["//lib:util"]
      actions:
        - mnemonic: Compile
          inputs: [main.c]
          outputs: [main.o]
          cmd: [cc, -c, app/main.c]
          environment:
            CC: clang
        - mnemonic: Link
          inputs: [main.o, "//lib/util.o"]
          outputs: [app]
          progress: Linking //app:app
`

var fixedCommandID = uuid.MustParse("6f1c1c43-7d2f-4d9a-9a51-1f3e2d4c5b6a")

type fixture struct {
	root     string
	startup  domain.StartupOptions
	log      *mocks.MockLogger
	executor *mocks.MockExecutor
	cache    *analysis.Cache
	loader   *config.Loader
	runtime  *app.Runtime
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.BuildFileName), []byte(sampleBuildfile), domain.FilePerm))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	loader := config.NewLoader(log)
	f := &fixture{
		root: root,
		startup: domain.StartupOptions{
			WorkspaceRoot: root,
			OutputBase:    filepath.Join(root, domain.BlazeDirName),
			IdleTimeout:   domain.DefaultIdleTimeout,
		},
		log:      log,
		executor: mocks.NewMockExecutor(ctrl),
		cache:    analysis.NewCache(loader, analysis.NewAnalyzer(log)),
		loader:   loader,
	}
	f.runtime = f.newRuntime(telemetry.NewNoOpTracer())
	return f
}

func (f *fixture) newRuntime(tracer ports.Tracer) *app.Runtime {
	tool := app.NewBuildTool(f.cache, f.executor, tracer, f.log)
	defaults := domain.BuildOptions{Configuration: domain.DefaultConfigurationName}
	return app.NewRuntime(tool, f.startup, defaults, f.log).
		WithCommandIDs(func() uuid.UUID { return fixedCommandID })
}

type execution struct {
	code   int
	stdout string
	stderr string
}

func (f *fixture) exec(t *testing.T, args ...string) execution {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code, err := f.runtime.Exec(context.Background(), args, domain.NewOutErr(&stdout, &stderr), time.Now())
	require.NoError(t, err)
	return execution{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
