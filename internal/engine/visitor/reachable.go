package visitor

import "go.trai.ch/blaze/internal/core/domain"

// Reachable returns every action needed to produce roots, in discovery order.
func Reachable(graph *domain.ActionGraph, roots ...domain.Artifact) ([]*domain.Action, error) {
	var actions []*domain.Action
	v := New(graph,
		func(*domain.Action) bool { return true },
		func(a *domain.Action) { actions = append(actions, a) },
	)
	if err := v.VisitArtifacts(roots...); err != nil {
		return nil, err
	}
	return actions, nil
}
