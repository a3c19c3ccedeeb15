// Package cmdutil provides shared utilities for recursive-nfs commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/marmos91/recursive-nfs/internal/cli/output"
	"github.com/marmos91/recursive-nfs/internal/cli/prompt"
	"github.com/marmos91/recursive-nfs/pkg/config"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	NoColor    bool
	Verbose    bool
}

// LoadConfig loads and validates the configuration selected by --config.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// IsColorDisabled returns whether color output is disabled.
func IsColorDisabled() bool {
	return Flags.NoColor
}

// ColorEnabled reports whether w should receive ANSI colors.
func ColorEnabled(w io.Writer) bool {
	return !IsColorDisabled() && output.IsTerminal(w)
}

// NewPrinter returns a table printer on w honoring --no-color.
func NewPrinter(w io.Writer) *output.Printer {
	return output.NewPrinter(w, output.FormatTable, ColorEnabled(w))
}

// PrintOutput prints data in the specified format (JSON, YAML, or table).
// For table format, it displays emptyMsg if data is empty, otherwise uses the tableRenderer.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, tableRenderer output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, tableRenderer)
	}
}

// IsTableOutput reports whether -o selects the human readable format.
func IsTableOutput() bool {
	format, err := GetOutputFormatParsed()
	return err == nil && format == output.FormatTable
}

// BoolToYesNo converts a boolean to "yes" or "no" string.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
// Useful for table display where empty fields should show "-".
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// HandleAbort checks if error is an abort (Ctrl+C) and prints a message.
// Returns nil for abort (user cancelled), otherwise returns the original error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		_, _ = fmt.Fprintln(os.Stdout, "\nAborted.")
		return nil
	}
	return err
}
