package visitor

import (
	"slices"

	"go.trai.ch/blaze/internal/core/domain"
)

// MatchFunc selects which in-scope actions are collected.
type MatchFunc func(*domain.Action) bool

// MatchAll collects every in-scope action.
func MatchAll() MatchFunc {
	return func(*domain.Action) bool { return true }
}

// MatchMnemonics collects actions whose mnemonic is one of names.
// An empty list matches every action.
func MatchMnemonics(names ...string) MatchFunc {
	if len(names) == 0 {
		return MatchAll()
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(a *domain.Action) bool {
		_, ok := set[a.Mnemonic]
		return ok
	}
}

// PrintActionVisitor collects the actions owned by one configured target.
//
// Actions are in scope when their owner label and configuration key equal the target's;
// in-scope actions are collected when the matcher accepts them. Actions returns a copy of
// everything collected so far and never clears it.
type PrintActionVisitor struct {
	*Visitor
	target  domain.ConfiguredTarget
	actions []*domain.Action
}

// NewPrintActionVisitor creates a visitor scoped to target.
func NewPrintActionVisitor(
	graph *domain.ActionGraph,
	target domain.ConfiguredTarget,
	match MatchFunc,
) *PrintActionVisitor {
	p := &PrintActionVisitor{target: target}
	owner := target.Owner()

	shouldVisit := func(a *domain.Action) bool {
		return a.Owner.Label == owner.Label && a.Owner.ConfigurationKey == owner.ConfigurationKey
	}
	visitAction := func(a *domain.Action) {
		if match(a) {
			p.actions = append(p.actions, a)
		}
	}

	p.Visitor = New(graph, shouldVisit, visitAction)
	return p
}

// VisitTarget walks from the target's own outputs.
func (p *PrintActionVisitor) VisitTarget() error {
	return p.VisitArtifacts(p.target.Outputs...)
}

// Target returns the configured target the visitor is scoped to.
func (p *PrintActionVisitor) Target() domain.ConfiguredTarget {
	return p.target
}

// Actions returns the collected actions in visit order.
func (p *PrintActionVisitor) Actions() []*domain.Action {
	return slices.Clone(p.actions)
}
