package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/cmd/blaze/commands"
	"go.trai.ch/blaze/internal/app"
	"go.trai.ch/blaze/internal/build"
)

type mockApp struct {
	dispatchFunc func(ctx context.Context, args []string, opts app.DispatchOptions, stdout, stderr io.Writer) int
	serveErr     error
	served       bool
	statusCalled bool
	stopCalled   bool
}

func (m *mockApp) Dispatch(ctx context.Context, args []string, opts app.DispatchOptions, stdout, stderr io.Writer) int {
	if m.dispatchFunc != nil {
		return m.dispatchFunc(ctx, args, opts, stdout, stderr)
	}
	return 0
}

func (m *mockApp) ServeDaemon(context.Context) error {
	m.served = true
	return m.serveErr
}

func (m *mockApp) DaemonStatus(_ context.Context, w io.Writer) error {
	m.statusCalled = true
	_, _ = fmt.Fprintln(w, "Server is running")
	return nil
}

func (m *mockApp) StopDaemon(_ context.Context, w io.Writer) error {
	m.stopCalled = true
	_, _ = fmt.Fprintln(w, "Server stopped")
	return nil
}

func TestCommands_Dispatch(t *testing.T) {
	t.Run("forwards everything after the command unparsed", func(t *testing.T) {
		var capturedArgs []string
		var capturedOpts app.DispatchOptions

		mock := &mockApp{
			dispatchFunc: func(_ context.Context, args []string, opts app.DispatchOptions, _, _ io.Writer) int {
				capturedArgs = args
				capturedOpts = opts
				return 3
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"--batch", "build", "//app:app", "--config", "opt", "-k"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"build", "//app:app", "--config", "opt", "-k"}, capturedArgs)
		assert.True(t, capturedOpts.Batch)
		assert.Equal(t, 3, cli.ExitCode())
	})

	t.Run("server mode by default", func(t *testing.T) {
		var capturedOpts app.DispatchOptions
		mock := &mockApp{
			dispatchFunc: func(_ context.Context, _ []string, opts app.DispatchOptions, _, _ io.Writer) int {
				capturedOpts = opts
				return 0
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"info", "workspace"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, capturedOpts.Batch)
	})

	t.Run("writes to the configured streams", func(t *testing.T) {
		mock := &mockApp{
			dispatchFunc: func(_ context.Context, _ []string, _ app.DispatchOptions, stdout, stderr io.Writer) int {
				_, _ = io.WriteString(stdout, "out")
				_, _ = io.WriteString(stderr, "err")
				return 0
			},
		}

		cli := commands.New(mock)
		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
		cli.SetOutput(stdout, stderr)
		cli.SetArgs([]string{"version"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "out", stdout.String())
		assert.Equal(t, "err", stderr.String())
	})

	t.Run("shows usage when no command is given", func(t *testing.T) {
		mock := &mockApp{
			dispatchFunc: func(context.Context, []string, app.DispatchOptions, io.Writer, io.Writer) int {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_Daemon(t *testing.T) {
	t.Run("serve", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		cli.SetArgs([]string{"daemon", "serve"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, mock.served)
	})

	t.Run("serve failure", func(t *testing.T) {
		mock := &mockApp{serveErr: errors.New("socket in use")}
		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"daemon", "serve"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "socket in use")
	})

	t.Run("status", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"daemon", "status"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, mock.statusCalled)
		assert.Contains(t, buf.String(), "Server is running")
	})

	t.Run("stop", func(t *testing.T) {
		mock := &mockApp{}
		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"daemon", "stop"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, mock.stopCalled)
		assert.Contains(t, buf.String(), "Server stopped")
	})
}

func TestCommands_VersionFlag(t *testing.T) {
	mock := &mockApp{
		dispatchFunc: func(context.Context, []string, app.DispatchOptions, io.Writer, io.Writer) int {
			panic("should not be called")
		},
	}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
