package domain

import "slices"

// ConfiguredTarget is a target analyzed in a specific configuration.
type ConfiguredTarget struct {
	Label         Label
	Configuration *Configuration
	Outputs       []Artifact
}

// Owner returns the value key actions of this target carry.
func (t ConfiguredTarget) Owner() ActionOwner {
	return ActionOwner{
		Label:            t.Label,
		ConfigurationKey: t.Configuration.ShortCacheKey(),
	}
}

// OwnedBy reports whether the action belongs to this configured target.
func (t ConfiguredTarget) OwnedBy(a *Action) bool {
	return a.Owner == t.Owner()
}

// AnalysisResult is the output of the analysis phase.
type AnalysisResult struct {
	Targets []ConfiguredTarget
	Graph   *ActionGraph
}

// TopLevelArtifacts returns the outputs of every requested target, in order.
func (r *AnalysisResult) TopLevelArtifacts() []Artifact {
	var out []Artifact
	for _, t := range r.Targets {
		out = append(out, t.Outputs...)
	}
	return slices.Clip(out)
}
