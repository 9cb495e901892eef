package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ActionGraph indexes actions and artifacts and the edges between them.
// A graph is immutable once built; a new analysis produces a new graph.
type ActionGraph struct {
	generating map[Artifact]*Action
	sources    map[Artifact]struct{}
	dependents map[Artifact][]*Action
	inputs     map[*Action][]Artifact
	order      []*Action
}

// ActionGraphBuilder collects actions and produces an ActionGraph.
type ActionGraphBuilder struct {
	actions    []*Action
	inputs     map[*Action][]Artifact
	generating map[Artifact]*Action
}

// NewActionGraphBuilder creates an empty builder.
func NewActionGraphBuilder() *ActionGraphBuilder {
	return &ActionGraphBuilder{
		inputs:     make(map[*Action][]Artifact),
		generating: make(map[Artifact]*Action),
	}
}

// Register adds an action to the graph under construction.
// The action's inputs are captured at registration; later edits to the action do not affect the graph.
func (b *ActionGraphBuilder) Register(a *Action) error {
	if _, exists := b.inputs[a]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateAction, ""), "action", a.Describe())
	}

	for _, out := range a.Outputs {
		if prev, exists := b.generating[out]; exists {
			err := zerr.With(zerr.Wrap(ErrArtifactConflict, ""), "artifact", out.String())
			err = zerr.With(err, "first", prev.Describe())
			return zerr.With(err, "second", a.Describe())
		}
	}

	for _, out := range a.Outputs {
		b.generating[out] = a
	}
	b.inputs[a] = slices.Clone(a.Inputs)
	b.actions = append(b.actions, a)
	return nil
}

// Build validates the registered actions and returns an immutable graph.
// It fails if a derived input has no generating action or if the actions form a cycle.
func (b *ActionGraphBuilder) Build() (*ActionGraph, error) {
	g := &ActionGraph{
		generating: make(map[Artifact]*Action, len(b.generating)),
		sources:    make(map[Artifact]struct{}),
		dependents: make(map[Artifact][]*Action),
		inputs:     make(map[*Action][]Artifact, len(b.inputs)),
	}

	for out, a := range b.generating {
		g.generating[out] = a
	}

	for _, a := range b.actions {
		inputs := b.inputs[a]
		g.inputs[a] = inputs
		for _, in := range inputs {
			if _, generated := g.generating[in]; !generated {
				if !in.Source {
					err := zerr.With(zerr.Wrap(ErrMissingGeneratingAction, ""), "artifact", in.String())
					return nil, zerr.With(err, "action", a.Describe())
				}
				g.sources[in] = struct{}{}
			}
			if !slices.Contains(g.dependents[in], a) {
				g.dependents[in] = append(g.dependents[in], a)
			}
		}
	}

	order, err := g.topologicalOrder(b.actions)
	if err != nil {
		return nil, err
	}
	g.order = order

	return g, nil
}

// topologicalOrder orders actions so every action follows the producers of its inputs.
func (g *ActionGraph) topologicalOrder(actions []*Action) ([]*Action, error) {
	order := make([]*Action, 0, len(actions))
	state := make(map[*Action]int, len(actions)) // 0: unvisited, 1: visiting, 2: visited
	var path []*Action

	var visit func(a *Action) error
	visit = func(a *Action) error {
		state[a] = 1
		path = append(path, a)

		for _, in := range g.inputs[a] {
			producer, ok := g.generating[in]
			if !ok {
				continue
			}
			switch state[producer] {
			case 1:
				return buildActionCycleError(path, producer)
			case 0:
				if err := visit(producer); err != nil {
					return err
				}
			}
		}

		state[a] = 2
		path = path[:len(path)-1]
		order = append(order, a)
		return nil
	}

	for _, a := range actions {
		if state[a] == 0 {
			if err := visit(a); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func buildActionCycleError(path []*Action, repeated *Action) error {
	start := slices.Index(path, repeated)
	parts := make([]string, 0, len(path)-start+1)
	for _, a := range path[start:] {
		parts = append(parts, a.Describe())
	}
	parts = append(parts, repeated.Describe())
	return zerr.With(zerr.Wrap(ErrCycleDetected, ""), "cycle", strings.Join(parts, " -> "))
}

// GeneratingAction returns the action producing the artifact.
// It returns nil without error for a source artifact known to the graph.
func (g *ActionGraph) GeneratingAction(a Artifact) (*Action, error) {
	if producer, ok := g.generating[a]; ok {
		return producer, nil
	}
	if _, ok := g.sources[a]; ok {
		return nil, nil
	}
	return nil, unknownArtifact(a)
}

// InputsOf returns the declared inputs of the action in registration order.
// The returned slice is a copy.
func (g *ActionGraph) InputsOf(a *Action) ([]Artifact, error) {
	inputs, ok := g.inputs[a]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownEntity, ""), "action", a.Describe())
	}
	return slices.Clone(inputs), nil
}

// DependentActions returns the actions that declare the artifact as an input.
// A known artifact with no dependents yields an empty, non-nil slice.
func (g *ActionGraph) DependentActions(a Artifact) ([]*Action, error) {
	if !g.Contains(a) {
		return nil, unknownArtifact(a)
	}
	dependents := g.dependents[a]
	if dependents == nil {
		return []*Action{}, nil
	}
	return slices.Clone(dependents), nil
}

// Contains reports whether the artifact is part of the graph.
func (g *ActionGraph) Contains(a Artifact) bool {
	if _, ok := g.generating[a]; ok {
		return true
	}
	_, ok := g.sources[a]
	return ok
}

// HasAction reports whether the action is registered in the graph.
func (g *ActionGraph) HasAction(a *Action) bool {
	_, ok := g.inputs[a]
	return ok
}

// Len returns the number of actions in the graph.
func (g *ActionGraph) Len() int {
	return len(g.order)
}

// Walk returns an iterator that yields actions so that producers precede their consumers.
func (g *ActionGraph) Walk() iter.Seq[*Action] {
	return func(yield func(*Action) bool) {
		for _, a := range g.order {
			if !yield(a) {
				return
			}
		}
	}
}

// Artifacts returns an iterator over every artifact in the graph, sources first.
func (g *ActionGraph) Artifacts() iter.Seq[Artifact] {
	return func(yield func(Artifact) bool) {
		seen := make(map[Artifact]struct{}, len(g.sources))
		for _, a := range g.order {
			for _, in := range g.inputs[a] {
				if _, ok := g.sources[in]; !ok {
					continue
				}
				if _, dup := seen[in]; dup {
					continue
				}
				seen[in] = struct{}{}
				if !yield(in) {
					return
				}
			}
		}
		for _, a := range g.order {
			for _, out := range a.Outputs {
				if !yield(out) {
					return
				}
			}
		}
	}
}

func unknownArtifact(a Artifact) error {
	return zerr.With(zerr.Wrap(ErrUnknownEntity, ""), "artifact", a.String())
}
