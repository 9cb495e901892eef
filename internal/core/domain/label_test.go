package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blaze/internal/core/domain"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Label
		wantErr error
	}{
		{name: "full form", input: "//src/lib:core", want: domain.Label{Package: "src/lib", Name: "core"}},
		{name: "short form", input: "//src/lib", want: domain.Label{Package: "src/lib", Name: "lib"}},
		{name: "root package", input: "//:app", want: domain.Label{Package: "", Name: "app"}},
		{name: "missing prefix", input: "src:lib", wantErr: domain.ErrInvalidLabel},
		{name: "empty", input: "//", wantErr: domain.ErrInvalidLabel},
		{name: "trailing slash", input: "//src/:lib", wantErr: domain.ErrInvalidLabel},
		{name: "leading slash", input: "///a", wantErr: domain.ErrInvalidLabel},
		{name: "leading slash full form", input: "///a:b", wantErr: domain.ErrInvalidLabel},
		{name: "bad name", input: "//src:lib core", wantErr: domain.ErrInvalidTargetName},
		{name: "empty name", input: "//src:", wantErr: domain.ErrInvalidTargetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseLabel(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "//src/lib:core", domain.NewLabel("src/lib", "core").String())
	assert.Equal(t, "//:app", domain.NewLabel("", "app").String())
	assert.Equal(t, "//a:b", domain.NewLabel("/a/", "b").String())
}

func TestLabel_RoundTrip(t *testing.T) {
	l := domain.NewLabel("tools/gen", "gen")
	parsed, err := domain.ParseLabel(l.String())
	require.NoError(t, err)
	assert.Equal(t, l, parsed)
}

func TestCompareLabels(t *testing.T) {
	a := domain.NewLabel("a", "z")
	b := domain.NewLabel("b", "a")
	c := domain.NewLabel("b", "b")

	assert.Negative(t, domain.CompareLabels(a, b))
	assert.Negative(t, domain.CompareLabels(b, c))
	assert.Positive(t, domain.CompareLabels(c, a))
	assert.Zero(t, domain.CompareLabels(b, b))
}
