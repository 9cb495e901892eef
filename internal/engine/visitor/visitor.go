// Package visitor walks the bipartite action graph with pluggable selection and collection policies.
package visitor

import (
	"go.trai.ch/blaze/internal/core/domain"
)

// ShouldVisitFunc decides whether an action is in scope.
// It must be pure: the traversal may ask about the same action more than once.
type ShouldVisitFunc func(*domain.Action) bool

// VisitActionFunc is called once for every in-scope action reached by the traversal.
type VisitActionFunc func(*domain.Action)

// Visitor walks from artifacts to their generating actions and from actions to their inputs.
//
// An action that fails shouldVisit is neither visited nor expanded, so the walk only
// reaches in-scope actions through in-scope paths. The visited sets live as long as the
// visitor: an action is passed to visitAction at most once across all Visit calls.
// A Visitor is not safe for concurrent use; several visitors may walk the same graph concurrently.
type Visitor struct {
	graph       *domain.ActionGraph
	shouldVisit ShouldVisitFunc
	visitAction VisitActionFunc

	visitedActions   map[*domain.Action]struct{}
	visitedArtifacts map[domain.Artifact]struct{}
}

// New creates a visitor over graph.
func New(graph *domain.ActionGraph, shouldVisit ShouldVisitFunc, visitAction VisitActionFunc) *Visitor {
	return &Visitor{
		graph:            graph,
		shouldVisit:      shouldVisit,
		visitAction:      visitAction,
		visitedActions:   make(map[*domain.Action]struct{}),
		visitedArtifacts: make(map[domain.Artifact]struct{}),
	}
}

// VisitArtifacts walks the graph starting from the generating actions of roots.
// It fails with domain.ErrUnknownEntity before visiting anything if a root is not in the graph.
func (v *Visitor) VisitArtifacts(roots ...domain.Artifact) error {
	for _, root := range roots {
		if !v.graph.Contains(root) {
			_, err := v.graph.GeneratingAction(root)
			return err
		}
	}

	stack := make([]node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, node{artifact: roots[i]})
	}
	return v.walk(stack)
}

// VisitActions walks the graph starting from the given actions.
// It fails with domain.ErrUnknownEntity before visiting anything if an action is not in the graph.
func (v *Visitor) VisitActions(roots ...*domain.Action) error {
	for _, root := range roots {
		if !v.graph.HasAction(root) {
			_, err := v.graph.InputsOf(root)
			return err
		}
	}

	stack := make([]node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, node{action: roots[i]})
	}
	return v.walk(stack)
}

// node is either an artifact or an action waiting to be expanded.
type node struct {
	action   *domain.Action
	artifact domain.Artifact
}

// walk runs an iterative depth-first traversal. Children are pushed in reverse so they
// are expanded in declaration order.
func (v *Visitor) walk(stack []node) error {
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.action == nil {
			if _, seen := v.visitedArtifacts[n.artifact]; seen {
				continue
			}
			v.visitedArtifacts[n.artifact] = struct{}{}

			producer, err := v.graph.GeneratingAction(n.artifact)
			if err != nil {
				return err
			}
			if producer != nil {
				stack = append(stack, node{action: producer})
			}
			continue
		}

		if _, seen := v.visitedActions[n.action]; seen {
			continue
		}
		if !v.shouldVisit(n.action) {
			continue
		}
		v.visitedActions[n.action] = struct{}{}
		v.visitAction(n.action)

		inputs, err := v.graph.InputsOf(n.action)
		if err != nil {
			return err
		}
		for i := len(inputs) - 1; i >= 0; i-- {
			stack = append(stack, node{artifact: inputs[i]})
		}
	}
	return nil
}
