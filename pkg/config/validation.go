package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags first, then rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

func validateCustomRules(cfg *Config) error {
	for i, prefix := range cfg.Shares {
		if strings.TrimSpace(prefix) != prefix {
			return fmt.Errorf("shares[%d]: %q has surrounding whitespace", i, prefix)
		}
	}

	if _, err := share.DecodeOptions(cfg.ShareOptions.Default); err != nil {
		return fmt.Errorf("share_options.default: %w", err)
	}

	for _, name := range sortedKeys(cfg.ShareOptions.Custom) {
		if name == "" {
			return errors.New("share_options.custom: empty dataset name")
		}
		merged := share.Merge(cfg.ShareOptions.Default, cfg.ShareOptions.Custom[name])
		if _, err := share.DecodeOptions(merged); err != nil {
			return fmt.Errorf("share_options.custom[%q]: %w", name, err)
		}
	}
	return nil
}

// Warnings returns problems that do not prevent a run, such as per-dataset
// options no configured prefix can ever select.
func Warnings(cfg *Config) []string {
	var warnings []string
	for _, name := range sortedKeys(cfg.ShareOptions.Custom) {
		covered := slices.ContainsFunc(cfg.Shares, func(prefix string) bool {
			return strings.HasPrefix(name, prefix)
		})
		if !covered {
			warnings = append(warnings,
				fmt.Sprintf("share_options.custom[%q] is not matched by any entry in shares", name))
		}
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		if e.Param() != "" {
			return fmt.Errorf("%s: validation failed on '%s=%s' (value: %v)", e.Namespace(), e.Tag(), e.Param(), e.Value())
		}
		return fmt.Errorf("%s: validation failed on '%s' (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
