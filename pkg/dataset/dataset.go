// Package dataset turns dataset listings into the set of dataset names that
// need an NFS share.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ListingHeader is the first line printed by `zfs list -o name`.
const ListingHeader = "NAME"

var (
	// ErrEmptyInput is returned when a listing contains no non-blank lines.
	ErrEmptyInput = errors.New("no list of datasets was received")

	// ErrMissingHeader is returned when a listing does not start with ListingHeader.
	ErrMissingHeader = errors.New("expected list header 'NAME' from 'zfs list -o name'")

	// ErrNoDatasets is returned when a listing holds a header but no datasets.
	ErrNoDatasets = errors.New("dataset listing contains no datasets")
)

// ParseListing validates the output of `zfs list -o name` and returns the
// dataset names without the header. Lines are trimmed and blank lines dropped.
func ParseListing(lines []string) ([]string, error) {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			filtered = append(filtered, line)
		}
	}

	if len(filtered) == 0 {
		return nil, ErrEmptyInput
	}
	if filtered[0] != ListingHeader {
		return nil, fmt.Errorf("%w, got %q", ErrMissingHeader, filtered[0])
	}

	datasets := filtered[1:]
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}
	return datasets, nil
}

// ReadListing reads a listing line by line from r and parses it.
func ReadListing(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset listing: %w", err)
	}
	return ParseListing(lines)
}

// SelectRelevant returns the datasets that start with at least one of the
// prefixes. Matching is a literal string prefix ("tank/f" matches
// "tank/foo"); input order is preserved.
func SelectRelevant(datasets, prefixes []string) []string {
	var relevant []string
	for _, ds := range datasets {
		for _, prefix := range prefixes {
			if strings.HasPrefix(ds, prefix) {
				relevant = append(relevant, ds)
				break
			}
		}
	}
	return relevant
}
