// Package metrics defines the observability hooks of a reconciliation run.
package metrics

import "time"

// Outcome of a single planned operation.
const (
	OutcomeApplied  = "applied"
	OutcomeFailed   = "failed"
	OutcomeDeclined = "declined"
	OutcomeSkipped  = "skipped"
)

// Result of a whole run.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ReconcileMetrics collects counts about one reconciliation run.
//
// The interface is optional: pass nil to disable metrics collection. Callers
// must check for nil before calling any method.
//
// Example usage:
//
//	m := prometheus.NewReconcileMetrics(cfg.Metrics.Textfile)
//	engine := reconcile.NewEngine(gateway, confirmer, reconcile.WithMetrics(m))
type ReconcileMetrics interface {
	// RecordPlanned records how many operations a stage intends to perform.
	//
	// Parameters:
	//   - stage: "conflicts", "stale", "updates" or "creates"
	//   - count: number of shares in the stage
	RecordPlanned(stage string, count int)

	// RecordOperation records the outcome of one share operation.
	//
	// Parameters:
	//   - stage: stage the operation belongs to
	//   - outcome: one of the Outcome* constants
	RecordOperation(stage string, outcome string)

	// RecordRun records the end of a run.
	//
	// Parameters:
	//   - result: ResultSuccess or ResultFailure
	//   - duration: wall time of the run
	RecordRun(result string, duration time.Duration)

	// Flush persists collected metrics. It is called once per run.
	Flush() error
}
