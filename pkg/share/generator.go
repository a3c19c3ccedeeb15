package share

import (
	"fmt"
	"slices"
)

// Generator synthesizes the desired share for a dataset path name from the
// configured option bundles.
type Generator struct {
	mountPrefix string
	defaults    Bundle
	custom      map[string]Bundle
}

// NewGenerator creates a generator. custom is keyed by exact dataset path name.
func NewGenerator(mountPrefix string, defaults Bundle, custom map[string]Bundle) *Generator {
	return &Generator{
		mountPrefix: mountPrefix,
		defaults:    defaults,
		custom:      custom,
	}
}

// MountPrefix returns the mount root the generator prefixes paths with.
func (g *Generator) MountPrefix() string {
	return g.mountPrefix
}

// Bundle returns the merged option bundle for pathName.
func (g *Generator) Bundle(pathName string) Bundle {
	override, ok := g.custom[pathName]
	if !ok {
		return Merge(g.defaults, nil)
	}
	return Merge(g.defaults, override)
}

// Build returns the desired share for pathName. The result has no ID and its
// comment always carries the ownership marker.
func (g *Generator) Build(pathName string) (*Share, error) {
	opts, err := DecodeOptions(g.Bundle(pathName))
	if err != nil {
		return nil, fmt.Errorf("share options for %q: %w", pathName, err)
	}

	return &Share{
		Path:         g.mountPrefix + pathName,
		Aliases:      slices.Clone(opts.Aliases),
		Comment:      TagAsAutoCreated(opts.Comment),
		Hosts:        slices.Clone(opts.Hosts),
		RO:           opts.RO,
		MaprootUser:  opts.MaprootUser,
		MaprootGroup: opts.MaprootGroup,
		MapallUser:   opts.MapallUser,
		MapallGroup:  opts.MapallGroup,
		Security:     slices.Clone(opts.Security),
		Enabled:      opts.Enabled,
		Networks:     slices.Clone(opts.Networks),
	}, nil
}
