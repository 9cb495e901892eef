package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/blaze/internal/core/domain"
)

func TestConfiguration_ShortCacheKey(t *testing.T) {
	t.Run("stable across instances and option order", func(t *testing.T) {
		c1 := domain.NewConfiguration("opt", map[string]string{"copt": "-O2", "cpu": "k8"})
		c2 := domain.NewConfiguration("opt", map[string]string{"cpu": "k8", "copt": "-O2"})

		assert.Equal(t, c1.ShortCacheKey(), c2.ShortCacheKey())
		assert.Len(t, c1.ShortCacheKey(), 16)
	})

	t.Run("differs by name", func(t *testing.T) {
		c1 := domain.NewConfiguration("opt", nil)
		c2 := domain.NewConfiguration("dbg", nil)

		assert.NotEqual(t, c1.ShortCacheKey(), c2.ShortCacheKey())
	})

	t.Run("differs by option value", func(t *testing.T) {
		c1 := domain.NewConfiguration("opt", map[string]string{"cpu": "k8"})
		c2 := domain.NewConfiguration("opt", map[string]string{"cpu": "arm64"})

		assert.NotEqual(t, c1.ShortCacheKey(), c2.ShortCacheKey())
	})

	t.Run("key and value boundaries are kept apart", func(t *testing.T) {
		c1 := domain.NewConfiguration("opt", map[string]string{"a": "b=c"})
		c2 := domain.NewConfiguration("opt", map[string]string{"a=b": "c"})

		assert.NotEqual(t, c1.ShortCacheKey(), c2.ShortCacheKey())
	})
}

func TestConfiguration_OptionsAreCopied(t *testing.T) {
	opts := map[string]string{"cpu": "k8"}
	c := domain.NewConfiguration("opt", opts)
	key := c.ShortCacheKey()

	opts["cpu"] = "arm64"
	c.Options()["cpu"] = "arm64"

	assert.Equal(t, "k8", c.Options()["cpu"])
	assert.Equal(t, key, c.ShortCacheKey())
}

func TestConfiguration_OutputDir(t *testing.T) {
	c := domain.NewConfiguration("fastbuild", nil)
	assert.Equal(t, "blaze-out/fastbuild/bin", c.OutputDir())
}
