// Package prometheus implements metrics.ReconcileMetrics on a private
// Prometheus registry written to a node_exporter textfile.
package prometheus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/recursive-nfs/pkg/metrics"
)

const namespace = "recursive_nfs"

// ReconcileMetrics is the Prometheus implementation of metrics.ReconcileMetrics.
type ReconcileMetrics struct {
	registry *prometheus.Registry
	textfile string

	planned      *prometheus.GaugeVec
	operations   *prometheus.CounterVec
	runDuration  prometheus.Gauge
	runTimestamp prometheus.Gauge
	runResult    *prometheus.GaugeVec
}

var _ metrics.ReconcileMetrics = (*ReconcileMetrics)(nil)

// NewReconcileMetrics creates metrics that Flush writes to textfile.
//
// Returns nil if textfile is empty. Callers should then pass a nil
// metrics.ReconcileMetrics to the engine.
func NewReconcileMetrics(textfile string) *ReconcileMetrics {
	if textfile == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &ReconcileMetrics{
		registry: reg,
		textfile: textfile,
		planned: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "planned_operations",
				Help:      "Number of share operations planned by the last run, by stage",
			},
			[]string{"stage"},
		),
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Share operations of the last run by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		runTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		runResult: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_result",
				Help:      "1 for the result of the last run, 0 otherwise",
			},
			[]string{"result"},
		),
	}
}

// RecordPlanned implements metrics.ReconcileMetrics.
func (m *ReconcileMetrics) RecordPlanned(stage string, count int) {
	if m == nil {
		return
	}
	m.planned.WithLabelValues(stage).Set(float64(count))
}

// RecordOperation implements metrics.ReconcileMetrics.
func (m *ReconcileMetrics) RecordOperation(stage, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(stage, outcome).Inc()
}

// RecordRun implements metrics.ReconcileMetrics.
func (m *ReconcileMetrics) RecordRun(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Set(duration.Seconds())
	m.runTimestamp.SetToCurrentTime()
	for _, r := range []string{metrics.ResultSuccess, metrics.ResultFailure} {
		v := 0.0
		if r == result {
			v = 1
		}
		m.runResult.WithLabelValues(r).Set(v)
	}
}

// Flush writes the registry to the textfile atomically.
func (m *ReconcileMetrics) Flush() error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.textfile), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *ReconcileMetrics) Registry() *prometheus.Registry {
	return m.registry
}
