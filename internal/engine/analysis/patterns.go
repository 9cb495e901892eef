// Package analysis turns target patterns and a loaded workspace into configured targets
// and an action graph.
package analysis

import (
	"slices"
	"strings"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	allTargetsName   = "all"
	recursiveSuffix  = "..."
	packageSeparator = "/"
)

// ResolvePatterns expands target patterns into a sorted, deduplicated list of labels.
//
// Supported forms are //pkg:name, //pkg (short form), :name (root package),
// //pkg:all, //pkg/... and //... .
func ResolvePatterns(ws *domain.Workspace, patterns []string) ([]domain.Label, error) {
	if len(patterns) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	labels := ws.Labels()
	seen := make(map[domain.Label]struct{})
	var result []domain.Label

	for _, pattern := range patterns {
		matched, err := resolvePattern(ws, labels, pattern)
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotFound, ""), "pattern", pattern)
		}
		for _, l := range matched {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			result = append(result, l)
		}
	}

	slices.SortFunc(result, domain.CompareLabels)
	return result, nil
}

func resolvePattern(ws *domain.Workspace, labels []domain.Label, pattern string) ([]domain.Label, error) {
	if strings.HasPrefix(pattern, ":") {
		pattern = domain.LabelPrefix + pattern
	}
	if !strings.HasPrefix(pattern, domain.LabelPrefix) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidLabel, ""), "pattern", pattern)
	}
	body := strings.TrimPrefix(pattern, domain.LabelPrefix)

	if body == recursiveSuffix {
		return labels, nil
	}
	if pkg, ok := strings.CutSuffix(body, packageSeparator+recursiveSuffix); ok {
		return filter(labels, func(l domain.Label) bool {
			return l.Package == pkg || strings.HasPrefix(l.Package, pkg+packageSeparator)
		}), nil
	}
	if pkg, ok := strings.CutSuffix(body, ":"+allTargetsName); ok {
		return filter(labels, func(l domain.Label) bool { return l.Package == pkg }), nil
	}

	label, err := domain.ParseLabel(pattern)
	if err != nil {
		return nil, err
	}
	if _, err := ws.Target(label); err != nil {
		return nil, err
	}
	return []domain.Label{label}, nil
}

func filter(labels []domain.Label, keep func(domain.Label) bool) []domain.Label {
	var out []domain.Label
	for _, l := range labels {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
