package domain

import "strings"

// ActionOwner identifies the configured target an action belongs to.
// It is a value key rather than a reference so actions do not share a lifetime with the target graph.
type ActionOwner struct {
	Label            Label
	ConfigurationKey string
}

// Action is a unit of build work with ordered inputs, outputs and an owner.
// Actions are identified by pointer.
type Action struct {
	Mnemonic        string
	Inputs          []Artifact
	Outputs         []Artifact
	Owner           ActionOwner
	Command         []string
	Environment     map[string]string
	ProgressMessage string
}

// PrimaryOutput returns the first declared output, or the zero artifact if there is none.
func (a *Action) PrimaryOutput() Artifact {
	if len(a.Outputs) == 0 {
		return Artifact{}
	}
	return a.Outputs[0]
}

// Describe returns a one-line description of the action for progress reporting.
func (a *Action) Describe() string {
	if a.ProgressMessage != "" {
		return a.ProgressMessage
	}
	var b strings.Builder
	b.WriteString(a.Mnemonic)
	if out := a.PrimaryOutput(); !out.Path.IsZero() {
		b.WriteString(" ")
		b.WriteString(out.String())
	}
	return b.String()
}
