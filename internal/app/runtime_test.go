package app_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/build"
	"go.trai.ch/blaze/internal/core/domain"
	"go.uber.org/mock/gomock"
)

func TestRuntime_PrintAction(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		goldenName string
	}{
		{
			name:       "all mnemonics",
			args:       []string{"print_action", "//app:app"},
			goldenName: "print_action_all",
		},
		{
			name:       "filtered in another configuration",
			args:       []string{"print_action", "--config=opt", "--print_action_mnemonics=Link", "//app:app"},
			goldenName: "print_action_filtered",
		},
		{
			name:       "several targets",
			args:       []string{"print_action", "--print_action_mnemonics=Compile", "//..."},
			goldenName: "print_action_recursive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res := f.exec(t, tt.args...)
			require.Equal(t, 0, res.code, res.stderr)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(res.stdout))
		})
	}
}

func TestRuntime_PrintActionNeverExecutes(t *testing.T) {
	f := newFixture(t)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res := f.exec(t, "print_action", "//app:app")
	assert.Equal(t, 0, res.code)
}

func TestRuntime_Build(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var ran []string
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), f.root, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Action, _ string, stdout, _ io.Writer) error {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, a.Owner.Label.String()+" "+a.Mnemonic)
			_, _ = fmt.Fprintf(stdout, "ran %s\n", a.Mnemonic)
			return nil
		}).
		Times(3)

	res := f.exec(t, "build", "//app:app")

	require.Equal(t, 0, res.code, res.stderr)
	assert.ElementsMatch(t, []string{"//lib:util Compile", "//app:app Compile", "//app:app Link"}, ran)
	assert.Equal(t, "//app:app Link", ran[2], "link runs after its inputs")
	assert.Contains(t, res.stdout, "ran Link")
	assert.Contains(t, res.stderr, "[3 / 3] Linking //app:app")
	assert.Contains(t, res.stderr, "INFO: Build completed successfully, 3 actions executed")
}

func TestRuntime_BuildStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ErrActionFailed).
		Times(1)

	res := f.exec(t, "build", "//app:app")

	assert.Equal(t, domain.ExitBuildFailure.Int(), res.code)
	assert.Contains(t, res.stderr, "FAILED: Build did NOT complete successfully")
	assert.Contains(t, res.stderr, "ERROR: "+domain.ErrBuildFailed.Error())
}

func TestRuntime_BuildKeepGoing(t *testing.T) {
	f := newFixture(t)

	var ran []string
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *domain.Action, _ string, _, _ io.Writer) error {
			ran = append(ran, a.Owner.Label.String())
			if a.Owner.Label == domain.NewLabel("lib", "util") {
				return domain.ErrActionFailed
			}
			return nil
		}).
		Times(2)

	res := f.exec(t, "build", "-k", "//app:app")

	assert.Equal(t, domain.ExitBuildFailure.Int(), res.code)
	assert.ElementsMatch(t, []string{"//lib:util", "//app:app"}, ran, "link depends on the failed output and is skipped")
}

func TestRuntime_NoBuild(t *testing.T) {
	f := newFixture(t)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res := f.exec(t, "build", "--nobuild", "//...")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, "INFO: Found 2 targets...")
}

func TestRuntime_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		code    domain.ExitCode
		message string
	}{
		{name: "no command", args: nil, code: domain.ExitCommandLineError, message: "no command given"},
		{name: "unknown command", args: []string{"frobnicate"}, code: domain.ExitCommandLineError, message: "unknown command"},
		{name: "unknown flag", args: []string{"build", "--bogus"}, code: domain.ExitCommandLineError, message: "unknown flag"},
		{name: "no targets", args: []string{"build"}, code: domain.ExitCommandLineError, message: "no targets specified"},
		{name: "missing target", args: []string{"build", "//nope:nope"}, code: domain.ExitAnalysisFailure, message: "target not found"},
		{name: "bad pattern", args: []string{"print_action", "app:app"}, code: domain.ExitCommandLineError, message: "invalid label"},
		{
			name:    "unknown configuration",
			args:    []string{"build", "--config=nope", "//app:app"},
			code:    domain.ExitCommandLineError,
			message: "unknown configuration",
		},
		{name: "unknown info key", args: []string{"info", "nokey"}, code: domain.ExitCommandLineError, message: "unknown info key"},
		{name: "extra arguments", args: []string{"shutdown", "now"}, code: domain.ExitCommandLineError, message: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res := f.exec(t, tt.args...)

			assert.Equal(t, tt.code.Int(), res.code)
			assert.Contains(t, res.stderr, "ERROR: ")
			assert.Contains(t, res.stderr, tt.message)
			assert.False(t, f.runtime.ShouldShutdown())
		})
	}
}

func TestRuntime_Shutdown(t *testing.T) {
	f := newFixture(t)

	res := f.exec(t, "shutdown")
	assert.Equal(t, 0, res.code)
	assert.True(t, f.runtime.ShouldShutdown())

	res = f.exec(t, "version")
	assert.Equal(t, 0, res.code)
	assert.False(t, f.runtime.ShouldShutdown(), "the signal belongs to the last command only")
}

func TestRuntime_Info(t *testing.T) {
	f := newFixture(t)

	res := f.exec(t, "info", "workspace")
	assert.Equal(t, f.root+"\n", res.stdout)

	res = f.exec(t, "info")
	assert.Contains(t, res.stdout, "output_base: "+f.startup.OutputBase+"\n")
	assert.Contains(t, res.stdout, "command_id: "+fixedCommandID.String()+"\n")
	assert.Contains(t, res.stdout, "server_pid: ")
}

func TestRuntime_Version(t *testing.T) {
	f := newFixture(t)

	res := f.exec(t, "version")
	assert.Equal(t, fmt.Sprintf("blaze version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date), res.stdout)
}

func TestRuntime_RejectsMissingStreams(t *testing.T) {
	f := newFixture(t)

	_, err := f.runtime.Exec(context.Background(), []string{"version"}, domain.OutErr{}, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidArguments)

	_, err = f.runtime.Exec(context.Background(), []string{"version"}, domain.NewOutErr(&bytes.Buffer{}, nil), time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidArguments)
}

func TestRuntime_ReloadsRCDefaultsPerRequest(t *testing.T) {
	f := newFixture(t)
	f.runtime.WithRCLoader(f.loader)

	res := f.exec(t, "print_action", "--print_action_mnemonics=Compile", "//lib:util")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "//lib:util [fastbuild]")

	rc := filepath.Join(f.root, domain.RCFileName)
	require.NoError(t, os.WriteFile(rc, []byte("[build]\nconfig = \"opt\"\n"), domain.FilePerm))

	res = f.exec(t, "print_action", "--print_action_mnemonics=Compile", "//lib:util")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "//lib:util [opt]")
	assert.NotContains(t, res.stdout, "[fastbuild]")

	res = f.exec(t, "print_action", "--config=fastbuild", "//lib:util")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "//lib:util [fastbuild]", "flags still override the rc file")
}

func TestRuntime_BrokenRCFileFailsRequest(t *testing.T) {
	f := newFixture(t)
	f.runtime.WithRCLoader(f.loader)

	rc := filepath.Join(f.root, domain.RCFileName)
	require.NoError(t, os.WriteFile(rc, []byte("[build\n"), domain.FilePerm))

	res := f.exec(t, "print_action", "//lib:util")
	assert.Equal(t, domain.ExitCodeFor(domain.ErrConfigParseFailed).Int(), res.code)
	assert.Contains(t, res.stderr, domain.ErrConfigParseFailed.Error())
	assert.Empty(t, res.stdout)
}
