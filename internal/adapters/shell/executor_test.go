package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/adapters/shell"
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) (*shell.Executor, *mocks.MockLogger) {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	return shell.NewExecutor(logger), logger
}

func TestExecutor_Execute_StreamsOutput(t *testing.T) {
	executor, logger := newExecutor(t)
	gomock.InOrder(
		logger.EXPECT().Debug("Genrule: line1"),
		logger.EXPECT().Debug("Genrule: line2"),
	)

	var stdout, stderr bytes.Buffer
	action := &domain.Action{
		Mnemonic: "Genrule",
		Command:  []string{"sh", "-c", "echo line1; echo line2"},
	}

	err := executor.Execute(context.Background(), action, t.TempDir(), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	executor, logger := newExecutor(t)
	logger.EXPECT().Debug("Genrule: part1part2").Times(1)
	logger.EXPECT().Debug("Genrule: tail").Times(1)

	action := &domain.Action{
		Mnemonic: "Genrule",
		Command:  []string{"sh", "-c", "printf part1; sleep 0.1; echo part2; printf tail >&2"},
	}

	var stdout, stderr bytes.Buffer
	err := executor.Execute(context.Background(), action, t.TempDir(), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "tail", stderr.String())
}

func TestExecutor_Execute_RunsInRootAndCreatesOutputDirs(t *testing.T) {
	executor, logger := newExecutor(t)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	root := t.TempDir()
	out := domain.NewDerivedArtifact("blaze-out/fastbuild/bin/app/out.txt")
	action := &domain.Action{
		Mnemonic: "Genrule",
		Outputs:  []domain.Artifact{out},
		Command:  []string{"sh", "-c", "echo $GREETING > " + out.String()},
		Environment: map[string]string{
			"GREETING": "hello",
		},
	}

	err := executor.Execute(context.Background(), action, root, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, out.String()))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestExecutor_Execute_Failure(t *testing.T) {
	executor, logger := newExecutor(t)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	action := &domain.Action{
		Mnemonic: "Compile",
		Outputs:  []domain.Artifact{domain.NewDerivedArtifact("out/a.o")},
		Command:  []string{"sh", "-c", "exit 42"},
	}

	err := executor.Execute(context.Background(), action, t.TempDir(), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrActionFailed)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
	assert.Equal(t, "Compile out/a.o", zErr.Metadata()["action"])
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	executor, _ := newExecutor(t)

	action := &domain.Action{Mnemonic: "Bad", Command: []string{"nonexistent-command-xyz123"}}

	err := executor.Execute(context.Background(), action, t.TempDir(), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrActionFailed)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, -1, zErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor, _ := newExecutor(t)

	err := executor.Execute(context.Background(), &domain.Action{Mnemonic: "Noop"}, t.TempDir(), nil, nil)
	require.NoError(t, err)
}

func TestExecutor_Execute_ContextCanceled(t *testing.T) {
	executor, logger := newExecutor(t)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	action := &domain.Action{Mnemonic: "Sleep", Command: []string{"sleep", "10"}}
	err := executor.Execute(ctx, action, t.TempDir(), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrActionFailed)
}

func TestResolveEnvironment(t *testing.T) {
	sysEnv := []string{"PATH=/usr/bin", "HOME=/home/me", "SECRET=token", "malformed"}
	actionEnv := map[string]string{"CC": "clang", "HOME": "/tmp/home"}

	got := shell.ResolveEnvironment(sysEnv, actionEnv)

	assert.Equal(t, []string{"CC=clang", "HOME=/tmp/home", "PATH=/usr/bin"}, got)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755)) //nolint:gosec // test executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("x"), domain.FilePerm))

	got, err := shell.LookPath("tool", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, exe, got)

	_, err = shell.LookPath("data", []string{"PATH=" + dir})
	require.Error(t, err)

	_, err = shell.LookPath("tool", nil)
	require.Error(t, err)
}
