package app_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/app"
	"go.trai.ch/blaze/internal/core/domain"
)

func TestWriteActionReport_NoActions(t *testing.T) {
	target := domain.ConfiguredTarget{
		Label:         domain.NewLabel("pkg", "empty"),
		Configuration: domain.NewConfiguration(domain.DefaultConfigurationName, nil),
	}

	var buf bytes.Buffer
	require.NoError(t, app.WriteActionReport(&buf, target, nil))

	g := goldie.New(t)
	g.Assert(t, "report_empty", buf.Bytes())
}
