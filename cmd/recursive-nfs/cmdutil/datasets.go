package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marmos91/recursive-nfs/internal/logger"
	"github.com/marmos91/recursive-nfs/internal/telemetry"
	"github.com/marmos91/recursive-nfs/pkg/dataset"
)

// DatasetFlags selects where dataset names come from.
type DatasetFlags struct {
	File  string
	Stdin bool
}

// Register adds --datasets-file and --stdin to cmd.
func (f *DatasetFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.File, "datasets-file", "d", "", "File holding the output of 'zfs list -o name' (default: query the appliance)")
	cmd.Flags().BoolVarP(&f.Stdin, "stdin", "s", false, "Read the output of 'zfs list -o name' from stdin")
}

// Datasets is the outcome of loading and filtering dataset names.
type Datasets struct {
	Source   dataset.Kind `json:"source" yaml:"source"`
	All      []string     `json:"all" yaml:"all"`
	Relevant []string     `json:"relevant" yaml:"relevant"`
}

// LoadDatasets reads every dataset name from the selected source and keeps the
// ones matching the configured prefixes.
func LoadDatasets(ctx context.Context, cmd *cobra.Command, run *Run, flags DatasetFlags) (*Datasets, error) {
	src := dataset.Source{File: flags.File, Stdin: flags.Stdin, In: cmd.InOrStdin()}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDatasetSrc)
	defer span.End()

	if src.Kind() == dataset.KindStdin && isInteractive(cmd.InOrStdin()) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Reading the output of 'zfs list -o name' from stdin, finish with Ctrl+D")
	}

	all, err := dataset.Load(ctx, src, run.Client)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	relevant := dataset.SelectRelevant(all, run.Config.Shares)

	logger.DebugCtx(ctx, "Datasets loaded",
		logger.KeySource, string(src.Kind()),
		"total", len(all),
		"relevant", len(relevant),
	)
	return &Datasets{Source: src.Kind(), All: all, Relevant: relevant}, nil
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
