// Package config loads the workspace build file and the rc file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	supportedVersion = "1"
	rootPackageKey   = "."
)

// Loader implements ports.WorkspaceLoader and ports.RCLoader.
type Loader struct {
	Logger ports.Logger
	FS     fs.FS
}

// NewLoader creates a new Loader reading from the local filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: HostFS()}
}

// DiscoverRoot walks up from cwd to the first directory containing a build file.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		if _, err := l.stat(filepath.Join(currentDir, domain.BuildFileName)); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "cwd", cwd)
}

// Load reads the build file at root and returns the workspace it describes.
func (l *Loader) Load(root string) (*domain.Workspace, error) {
	configPath := filepath.Join(root, domain.BuildFileName)

	var buildfile Buildfile
	if err := l.readAndUnmarshalYAML(configPath, &buildfile); err != nil {
		return nil, err
	}

	if buildfile.Version != "" && buildfile.Version != supportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", domain.BuildFileName, buildfile.Version, supportedVersion))
	}

	ws := domain.NewWorkspace(root)
	for _, name := range slices.Sorted(maps.Keys(buildfile.Configurations)) {
		if err := domain.ValidateTargetName(name); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid configuration name"), "configuration", name)
		}
		ws.SetConfiguration(domain.NewConfiguration(name, buildfile.Configurations[name]))
	}

	for _, pkgKey := range slices.Sorted(maps.Keys(buildfile.Packages)) {
		pkg, err := packagePath(pkgKey)
		if err != nil {
			return nil, err
		}
		targets := buildfile.Packages[pkgKey]
		for _, name := range slices.Sorted(maps.Keys(targets)) {
			target, err := buildTarget(pkg, name, targets[name])
			if err != nil {
				return nil, zerr.With(err, "package", pkgKey)
			}
			if err := ws.AddTarget(target); err != nil {
				return nil, err
			}
		}
	}

	return ws, nil
}

// LoadRC reads the rc file at root. A missing file yields the defaults.
func (l *Loader) LoadRC(root string) (*domain.RCOptions, error) {
	opts := &domain.RCOptions{
		Startup: domain.StartupOptions{
			WorkspaceRoot: root,
			OutputBase:    filepath.Join(root, domain.DefaultOutputBase()),
			IdleTimeout:   domain.DefaultIdleTimeout,
		},
		Build: domain.BuildOptions{Configuration: domain.DefaultConfigurationName},
	}

	rcPath := filepath.Join(root, domain.RCFileName)
	data, err := l.readFile(rcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", rcPath)
	}

	var rc RCFile
	md, err := toml.Decode(string(data), &rc)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "path", rcPath)
	}
	for _, key := range md.Undecoded() {
		l.Logger.Warn(fmt.Sprintf("unknown option %q in %s", key.String(), domain.RCFileName))
	}

	if rc.Startup.OutputBase != "" {
		opts.Startup.OutputBase = resolveRelative(root, rc.Startup.OutputBase)
	}
	if rc.Startup.IdleTimeout > 0 {
		opts.Startup.IdleTimeout = rc.Startup.IdleTimeout
	}
	if rc.Build.Config != "" {
		opts.Build.Configuration = rc.Build.Config
	}
	opts.Build.KeepGoing = rc.Build.KeepGoing
	opts.Build.Mnemonics = rc.Build.Mnemonics

	return opts, nil
}

func buildTarget(pkg, name string, dto *TargetDTO) (*domain.Target, error) {
	if err := domain.ValidateTargetName(name); err != nil {
		return nil, err
	}
	label := domain.NewLabel(pkg, name)
	target := &domain.Target{Label: label}
	if dto == nil {
		return target, nil
	}

	var err error
	if target.Deps, err = resolveLabels(pkg, dto.Deps); err != nil {
		return nil, zerr.With(err, "target", label.String())
	}
	if target.Tools, err = resolveLabels(pkg, dto.Tools); err != nil {
		return nil, zerr.With(err, "target", label.String())
	}

	for i, a := range dto.Actions {
		if a == nil || a.Mnemonic == "" {
			err := zerr.Wrap(domain.ErrConfigParseFailed, "action without mnemonic")
			return nil, zerr.With(zerr.With(err, "target", label.String()), "index", i)
		}
		target.Actions = append(target.Actions, domain.ActionTemplate{
			Mnemonic:        a.Mnemonic,
			Inputs:          a.Inputs,
			Outputs:         a.Outputs,
			Command:         a.Cmd,
			Environment:     a.Environment,
			ProgressMessage: a.Progress,
		})
	}

	return target, nil
}

// resolveLabels parses dependency labels; the :name form refers to pkg.
func resolveLabels(pkg string, raw []string) ([]domain.Label, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	labels := make([]domain.Label, 0, len(raw))
	for _, s := range raw {
		if name, ok := strings.CutPrefix(s, ":"); ok {
			if err := domain.ValidateTargetName(name); err != nil {
				return nil, err
			}
			labels = append(labels, domain.NewLabel(pkg, name))
			continue
		}
		l, err := domain.ParseLabel(s)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// packagePath normalizes a package key of the build file.
func packagePath(key string) (string, error) {
	if key == rootPackageKey || key == "" {
		return "", nil
	}
	clean := path.Clean(strings.Trim(key, "/"))
	if clean != strings.Trim(key, "/") || strings.HasPrefix(clean, "..") {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidLabel, "invalid package path"), "package", key)
	}
	return clean, nil
}

func resolveRelative(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target any) error {
	data, err := l.readFile(configPath)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "path", configPath)
	}

	return nil
}
