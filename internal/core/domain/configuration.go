package domain

import (
	"encoding/binary"
	"fmt"
	"maps"
	"path"
	"slices"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultConfigurationName is used when a build does not select a configuration.
	DefaultConfigurationName = "fastbuild"

	// HostConfigurationName is the configuration tools are analyzed in.
	HostConfigurationName = "host"

	// OutputRoot is the workspace-relative directory holding derived artifacts.
	OutputRoot = "blaze-out"
)

// Configuration is a named set of build options.
// Two configurations with the same name and options share a cache key.
type Configuration struct {
	name     string
	options  map[string]string
	cacheKey string
}

// NewConfiguration creates a configuration and computes its cache key.
func NewConfiguration(name string, options map[string]string) *Configuration {
	c := &Configuration{
		name:    name,
		options: maps.Clone(options),
	}
	c.cacheKey = computeCacheKey(name, c.options)
	return c
}

// Name returns the configuration name.
func (c *Configuration) Name() string {
	return c.name
}

// Options returns a copy of the configuration options.
func (c *Configuration) Options() map[string]string {
	return maps.Clone(c.options)
}

// ShortCacheKey returns a compact identifier derived from the name and the options.
func (c *Configuration) ShortCacheKey() string {
	return c.cacheKey
}

// OutputDir returns the workspace-relative directory derived artifacts of this configuration live in.
func (c *Configuration) OutputDir() string {
	return path.Join(OutputRoot, c.name, "bin")
}

// computeCacheKey hashes the name and the sorted options. Every field is
// length-prefixed, so no choice of characters in keys or values can make two
// distinct option sets hash the same input.
func computeCacheKey(name string, options map[string]string) string {
	d := xxhash.New()
	writeField(d, name)
	for _, k := range slices.Sorted(maps.Keys(options)) {
		writeField(d, k)
		writeField(d, options[k])
	}

	return fmt.Sprintf("%016x", d.Sum64())
}

func writeField(d *xxhash.Digest, s string) {
	_, _ = d.Write(binary.AppendUvarint(nil, uint64(len(s))))
	_, _ = d.WriteString(s)
}
