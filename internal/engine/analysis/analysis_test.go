package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/core/domain"
)

// newWorkspace returns a small C-like workspace:
//
//	//lib:util    compiles util.c into util.o
//	//tools:gen   produces gen.sh, used as a tool
//	//app:app     generates config.h with gen, compiles main.c and links against util.o
func newWorkspace(t *testing.T) *domain.Workspace {
	t.Helper()

	ws := domain.NewWorkspace("/ws")
	ws.SetConfiguration(domain.NewConfiguration("opt", map[string]string{"copt": "-O2"}))

	targets := []*domain.Target{
		{
			Label: domain.NewLabel("lib", "util"),
			Actions: []domain.ActionTemplate{{
				Mnemonic: "Compile",
				Inputs:   []string{"util.c"},
				Outputs:  []string{"util.o"},
				Command:  []string{"cc", "-c", "lib/util.c"},
			}},
		},
		{
			Label: domain.NewLabel("tools", "gen"),
			Actions: []domain.ActionTemplate{{
				Mnemonic: "Genrule",
				Inputs:   []string{"gen.in"},
				Outputs:  []string{"gen.sh"},
			}},
		},
		{
			Label: domain.NewLabel("app", "app"),
			Deps:  []domain.Label{domain.NewLabel("lib", "util")},
			Tools: []domain.Label{domain.NewLabel("tools", "gen")},
			Actions: []domain.ActionTemplate{
				{Mnemonic: "Genrule", Inputs: []string{"//tools/gen.sh"}, Outputs: []string{"config.h"}},
				{Mnemonic: "Compile", Inputs: []string{"main.c", "config.h"}, Outputs: []string{"main.o"}},
				{Mnemonic: "Link", Inputs: []string{"main.o", "//lib/util.o"}, Outputs: []string{"app"}},
			},
		},
		{
			Label: domain.NewLabel("app/sub", "extra"),
		},
	}
	for _, tgt := range targets {
		require.NoError(t, ws.AddTarget(tgt))
	}
	return ws
}

func labels(ls ...string) []domain.Label {
	out := make([]domain.Label, 0, len(ls))
	for _, s := range ls {
		l, err := domain.ParseLabel(s)
		if err != nil {
			panic(err)
		}
		out = append(out, l)
	}
	return out
}
