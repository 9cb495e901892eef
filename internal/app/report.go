package app

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/blaze/internal/core/domain"
	"go.trai.ch/blaze/internal/ui/output"
	"go.trai.ch/blaze/internal/ui/style"
)

// WriteActionReport prints the actions collected for one configured target.
func WriteActionReport(w io.Writer, target domain.ConfiguredTarget, actions []*domain.Action) error {
	var b strings.Builder

	owner := fmt.Sprintf("%s [%s]", target.Label, target.Configuration.Name())
	noun := "actions"
	if len(actions) == 1 {
		noun = "action"
	}
	b.WriteString(output.Styled(w, style.Heading).Render(fmt.Sprintf("%s: %d %s", owner, len(actions), noun)))
	b.WriteString("\n")

	emphasis := output.Styled(w, style.Emphasis)
	key := output.Styled(w, style.Key)
	writeField := func(name, value string) {
		fmt.Fprintf(&b, "  %s %s\n", key.Render(name+":"), value)
	}

	for _, a := range actions {
		b.WriteString("\n")
		fmt.Fprintf(&b, "action '%s'\n", emphasis.Render(a.Describe()))
		writeField("Mnemonic", a.Mnemonic)
		writeField("Owner", owner)
		writeField("Inputs", artifactList(a.Inputs))
		writeField("Outputs", artifactList(a.Outputs))
		if len(a.Environment) > 0 {
			env := make([]string, 0, len(a.Environment))
			for _, k := range slices.Sorted(maps.Keys(a.Environment)) {
				env = append(env, k+"="+a.Environment[k])
			}
			writeField("Environment", "["+strings.Join(env, ", ")+"]")
		}
		if len(a.Command) > 0 {
			writeField("Command Line", strings.Join(a.Command, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func artifactList(artifacts []domain.Artifact) string {
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.String()
	}
	return "[" + strings.Join(paths, ", ") + "]"
}
