package cmdutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/marmos91/recursive-nfs/internal/cli/prompt"
	"github.com/marmos91/recursive-nfs/pkg/reconcile"
)

// Asker asks one yes/no question.
type Asker func(label string, defaultYes bool) (bool, error)

// StageConfirmer answers the reconciliation engine's questions, either
// interactively or from flags.
type StageConfirmer struct {
	// AssumeYes accepts stale deletions, updates and creates without asking.
	AssumeYes bool
	// DeleteManual accepts deletion of conflicting manual shares without
	// asking. Without it, --yes keeps them.
	DeleteManual bool
	// Ask prompts the operator; nil means the process terminal.
	Ask Asker
}

// Confirm implements reconcile.Confirmer.
func (c *StageConfirmer) Confirm(ctx context.Context, q reconcile.Question) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if q.Stage == reconcile.StageConflicts {
		if c.DeleteManual {
			return true, nil
		}
		if c.AssumeYes {
			return false, nil
		}
	} else if c.AssumeYes {
		return true, nil
	}

	ask := c.Ask
	if ask == nil {
		ask = TerminalAsker()
	}
	return ask(q.Label, q.DefaultYes)
}

// TerminalAsker prompts on the controlling terminal. When stdin is not a
// terminal (datasets were piped in), it falls back to /dev/tty and, without
// one, to plain line input on stdin.
func TerminalAsker() Asker {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return (&prompt.Confirmer{}).Confirm
	}
	if tty, err := os.Open("/dev/tty"); err == nil {
		return (&prompt.Confirmer{Stdin: tty}).Confirm
	}
	return ReaderAsker(os.Stdin, os.Stderr)
}

// ReaderAsker reads answers line by line from in, prompting on out. End of
// input aborts.
func ReaderAsker(in io.Reader, out io.Writer) Asker {
	scanner := bufio.NewScanner(in)
	return func(label string, defaultYes bool) (bool, error) {
		hint := "y/N"
		if defaultYes {
			hint = "Y/n"
		}
		for {
			_, _ = fmt.Fprintf(out, "%s [%s]: ", label, hint)
			if !scanner.Scan() {
				return false, prompt.ErrAborted
			}
			answer, err := prompt.ParseAnswer(scanner.Text(), defaultYes)
			if err == nil {
				return answer, nil
			}
			_, _ = fmt.Fprintln(out, err)
		}
	}
}
