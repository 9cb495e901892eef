package config

import "time"

// Buildfile represents the structure of the BUILD.yaml file.
type Buildfile struct {
	Version        string                           `yaml:"version"`
	Configurations map[string]map[string]string     `yaml:"configurations"`
	Packages       map[string]map[string]*TargetDTO `yaml:"packages"`
}

// TargetDTO represents a target definition in the build file.
type TargetDTO struct {
	Deps    []string     `yaml:"deps"`
	Tools   []string     `yaml:"tools"`
	Actions []*ActionDTO `yaml:"actions"`
}

// ActionDTO represents an action template of a target.
type ActionDTO struct {
	Mnemonic    string            `yaml:"mnemonic"`
	Inputs      []string          `yaml:"inputs"`
	Outputs     []string          `yaml:"outputs"`
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
	Progress    string            `yaml:"progress"`
}

// RCFile represents the structure of the .blazerc.toml file.
type RCFile struct {
	Startup StartupDTO `toml:"startup"`
	Build   BuildDTO   `toml:"build"`
}

// StartupDTO holds server startup options.
type StartupDTO struct {
	OutputBase  string        `toml:"output_base"`
	IdleTimeout time.Duration `toml:"idle_timeout"`
}

// BuildDTO holds defaults for build-like commands.
type BuildDTO struct {
	Config    string   `toml:"config"`
	KeepGoing bool     `toml:"keep_going"`
	Mnemonics []string `toml:"print_action_mnemonics"`
}
