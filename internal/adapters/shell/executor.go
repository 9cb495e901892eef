// Package shell provides the action executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
)

// inheritedEnv lists the variables an action inherits from the server environment.
var inheritedEnv = []string{"HOME", "PATH", "TERM", "TMPDIR", "USER"}

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the action's command from the workspace root.
//
// Parent directories of the action's outputs are created first. The command sees
// only the inherited variables plus the action's own environment. Output goes to
// stdout and stderr and is mirrored line by line to the debug log.
func (e *Executor) Execute(ctx context.Context, action *domain.Action, root string, stdout, stderr io.Writer) error {
	if len(action.Command) == 0 {
		return nil
	}

	for _, out := range action.Outputs {
		dir := filepath.Join(root, filepath.Dir(out.String()))
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", dir)
		}
	}

	name := action.Command[0]
	env := resolveEnvironment(os.Environ(), action.Environment)

	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, string(filepath.Separator)) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, action.Command[1:]...) //nolint:gosec // commands come from the build file
	cmd.Args[0] = name
	cmd.Dir = root
	cmd.Env = env

	outLog := &logWriter{logger: e.logger, prefix: action.Mnemonic + ": "}
	errLog := &logWriter{logger: e.logger, prefix: action.Mnemonic + ": "}
	cmd.Stdout = io.MultiWriter(stdout, outLog)
	cmd.Stderr = io.MultiWriter(stderr, errLog)

	err := cmd.Run()
	outLog.Flush()
	errLog.Flush()
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	failure := zerr.With(fmt.Errorf("%w: %w", domain.ErrActionFailed, err), "action", action.Describe())
	return zerr.With(failure, "exit_code", exitCode)
}

// logWriter forwards complete lines to the debug log.
type logWriter struct {
	logger ports.Logger
	prefix string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.logger.Debug(w.prefix + strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush logs a trailing line without newline.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.logger.Debug(w.prefix + w.buf.String())
		w.buf.Reset()
	}
}

// resolveEnvironment keeps the inherited variables of sysEnv and applies the action's overrides.
// The result is sorted by key.
func resolveEnvironment(sysEnv []string, actionEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok && slices.Contains(inheritedEnv, k) {
			envMap[k] = v
		}
	}

	maps.Copy(envMap, actionEnv)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
