// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

// Confirmer asks yes/no questions on a terminal.
type Confirmer struct {
	// Stdin and Stdout override the terminal; nil means os.Stdin/os.Stdout.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Confirm prompts the user for yes/no confirmation. An empty answer selects
// defaultYes. Returns ErrAborted if the user presses Ctrl+C or closes stdin.
func (c *Confirmer) Confirm(label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	p := promptui.Prompt{
		Label: fmt.Sprintf("%s [%s]", label, hint),
		Validate: func(input string) error {
			_, err := ParseAnswer(input, defaultYes)
			return err
		},
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
	}

	result, err := p.Run()
	if err != nil {
		if IsAborted(err) {
			return false, ErrAborted
		}
		return false, err
	}
	return ParseAnswer(result, defaultYes)
}

// Confirm asks on the process terminal.
func Confirm(label string, defaultYes bool) (bool, error) {
	return (&Confirmer{}).Confirm(label, defaultYes)
}

// ConfirmWithForce returns true immediately if force is true,
// otherwise prompts for confirmation defaulting to no.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}

// ParseAnswer interprets a typed answer. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseAnswer(input string, defaultYes bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("answer y or n")
	}
}
