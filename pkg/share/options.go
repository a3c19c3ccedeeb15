package share

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Options is the settable part of a share as written in the share_options
// section of the configuration. Keys follow the appliance wire names.
type Options struct {
	Comment      string   `mapstructure:"comment"`
	Aliases      []string `mapstructure:"aliases"`
	Hosts        []string `mapstructure:"hosts"`
	Networks     []string `mapstructure:"networks"`
	Security     []string `mapstructure:"security"`
	RO           bool     `mapstructure:"ro"`
	Enabled      bool     `mapstructure:"enabled"`
	MaprootUser  *string  `mapstructure:"maproot_user"`
	MaprootGroup *string  `mapstructure:"maproot_group"`
	MapallUser   *string  `mapstructure:"mapall_user"`
	MapallGroup  *string  `mapstructure:"mapall_group"`
}

// Bundle is an undecoded option set. Presence of a key matters: a key set
// to its zero value in an override still wins over the default.
type Bundle map[string]any

// DecodeOptions decodes a bundle into Options. Keys absent from the bundle
// keep their zero value except enabled, which defaults to true. Unknown keys
// are rejected.
func DecodeOptions(b Bundle) (Options, error) {
	opts := Options{Enabled: true}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return Options{}, fmt.Errorf("failed to create options decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(b)); err != nil {
		return Options{}, fmt.Errorf("invalid share options: %w", err)
	}
	return opts, nil
}

// Merge returns override with every key it does not set filled from defaults.
// A nil override yields a copy of defaults.
func Merge(defaults, override Bundle) Bundle {
	merged := make(Bundle, len(defaults)+len(override))
	maps.Copy(merged, defaults)
	maps.Copy(merged, override)
	return merged
}

