package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// ActionTemplate declares an action a target creates during analysis.
// Inputs and outputs are package-relative unless prefixed with //.
type ActionTemplate struct {
	Mnemonic        string
	Inputs          []string
	Outputs         []string
	Command         []string
	Environment     map[string]string
	ProgressMessage string
}

// Target is a target definition as loaded from the build file.
type Target struct {
	Label   Label
	Deps    []Label
	Tools   []Label
	Actions []ActionTemplate
}

// Workspace is the loaded build file: targets and configurations rooted at a directory.
type Workspace struct {
	root           string
	targets        map[Label]*Target
	configurations map[string]*Configuration
}

// NewWorkspace creates an empty workspace rooted at root.
// The default and host configurations are always defined.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		root:    root,
		targets: make(map[Label]*Target),
		configurations: map[string]*Configuration{
			DefaultConfigurationName: NewConfiguration(DefaultConfigurationName, nil),
			HostConfigurationName:    NewConfiguration(HostConfigurationName, nil),
		},
	}
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// AddTarget adds a target definition.
func (w *Workspace) AddTarget(t *Target) error {
	if _, exists := w.targets[t.Label]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateTarget, ""), "label", t.Label.String())
	}
	w.targets[t.Label] = t
	return nil
}

// Target returns the target with the given label.
func (w *Workspace) Target(l Label) (*Target, error) {
	t, ok := w.targets[l]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrTargetNotFound, ""), "label", l.String())
	}
	return t, nil
}

// Labels returns every target label, sorted by package and name.
func (w *Workspace) Labels() []Label {
	labels := slices.Collect(maps.Keys(w.targets))
	slices.SortFunc(labels, CompareLabels)
	return labels
}

// SetConfiguration defines or replaces a named configuration.
func (w *Workspace) SetConfiguration(c *Configuration) {
	w.configurations[c.Name()] = c
}

// Configuration returns the named configuration.
func (w *Workspace) Configuration(name string) (*Configuration, error) {
	if name == "" {
		name = DefaultConfigurationName
	}
	c, ok := w.configurations[name]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownConfiguration, ""), "configuration", name)
	}
	return c, nil
}

// ConfigurationNames returns the sorted names of all configurations.
func (w *Workspace) ConfigurationNames() []string {
	return slices.Sorted(maps.Keys(w.configurations))
}

// CompareLabels orders labels by package, then name.
func CompareLabels(a, b Label) int {
	if a.Package != b.Package {
		if a.Package < b.Package {
			return -1
		}
		return 1
	}
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	default:
		return 0
	}
}
