package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
)

// Kind identifies where a dataset list came from.
type Kind string

const (
	KindFile  Kind = "file"
	KindStdin Kind = "stdin"
	KindAPI   Kind = "api"
)

// Lister queries the appliance for dataset names.
type Lister interface {
	ListDatasets(ctx context.Context) ([]string, error)
}

// Source selects where datasets are read from. File wins over Stdin, and the
// appliance is queried only when neither is set.
type Source struct {
	File  string
	Stdin bool
	In    io.Reader
}

// Kind returns the source that Load will use.
func (s Source) Kind() Kind {
	switch {
	case s.File != "":
		return KindFile
	case s.Stdin:
		return KindStdin
	default:
		return KindAPI
	}
}

// Load returns every dataset name from the selected source. Listings read from
// a file or stdin must carry the NAME header; appliance results are sorted.
func Load(ctx context.Context, src Source, lister Lister) ([]string, error) {
	switch src.Kind() {
	case KindFile:
		f, err := os.Open(src.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open datasets file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ReadListing(f)

	case KindStdin:
		in := src.In
		if in == nil {
			in = os.Stdin
		}
		return ReadListing(in)

	default:
		if lister == nil {
			return nil, fmt.Errorf("no dataset lister configured")
		}
		names, err := lister.ListDatasets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query datasets: %w", err)
		}
		names = slices.Clone(names)
		slices.Sort(names)
		return names, nil
	}
}
