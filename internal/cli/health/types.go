// Package health describes the result of probing the appliance API.
package health

import (
	"strconv"
	"time"

	"github.com/marmos91/recursive-nfs/internal/cli/timeutil"
)

// Status values of a Report.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// Report is the outcome of one availability probe.
type Report struct {
	Status    string    `json:"status" yaml:"status"`
	URL       string    `json:"url" yaml:"url"`
	CheckedAt time.Time `json:"checked_at" yaml:"checked_at"`
	LatencyMs int64     `json:"latency_ms" yaml:"latency_ms"`
	// Shares and AutoShares are only set when the appliance answered.
	Shares     int    `json:"shares" yaml:"shares"`
	AutoShares int    `json:"auto_shares" yaml:"auto_shares"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport starts a report for url checked at now.
func NewReport(url string, now time.Time) *Report {
	return &Report{Status: StatusUnavailable, URL: url, CheckedAt: now}
}

// Available reports whether the probe succeeded.
func (r *Report) Available() bool {
	return r.Status == StatusAvailable
}

// Pairs returns the report as "key: value" lines for display.
func (r *Report) Pairs() [][2]string {
	pairs := [][2]string{
		{"Appliance", r.URL},
		{"Status", r.Status},
		{"Checked", timeutil.FormatTime(r.CheckedAt)},
		{"Latency", timeutil.FormatDuration(time.Duration(r.LatencyMs) * time.Millisecond)},
	}
	if r.Available() {
		pairs = append(pairs,
			[2]string{"Shares", strconv.Itoa(r.Shares)},
			[2]string{"Managed shares", strconv.Itoa(r.AutoShares)},
		)
	}
	if r.Error != "" {
		pairs = append(pairs, [2]string{"Error", r.Error})
	}
	return pairs
}
