package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/recursive-nfs/internal/logger"
	"github.com/marmos91/recursive-nfs/internal/telemetry"
	"github.com/marmos91/recursive-nfs/pkg/metrics"
	"github.com/marmos91/recursive-nfs/pkg/progress"
)

// stageRule describes how one stage is presented and gated.
type stageRule struct {
	question   string
	defaultYes bool
	// mandatory stages fail the run with ErrDeclined when refused.
	mandatory bool
	start     string // "Removing %d present manual shares"
	step      string // "Removing share %s (%d remaining)..."
	done      string // "Removed %d shares"
}

var stageRules = map[Stage]stageRule{
	StageConflicts: {
		question: "Do you want to delete them?",
		start:    "Removing %d present manual shares",
		step:     "Removing share %s (%d remaining)...",
		done:     "Removed %d manual shares",
	},
	StageStale: {
		question:  "Do you want to delete these automatically created shares?",
		mandatory: true,
		start:     "Removing %d stale shares",
		step:      "Removing share %s (%d remaining)...",
		done:      "Removed %d stale shares",
	},
	StageUpdates: {
		question:   "Do you want to update them?",
		defaultYes: true,
		start:      "Updating %d shares",
		step:       "Updating share %s (%d remaining)...",
		done:       "Updated %d shares",
	},
	StageCreates: {
		question:   "Do you want to create them?",
		defaultYes: true,
		start:      "Creating %d shares",
		step:       "Creating share %s (%d remaining)...",
		done:       "Created %d shares",
	},
}

// Result records what a run changed on the appliance.
type Result struct {
	Deleted       []int    `json:"deleted" yaml:"deleted"`
	Updated       []int    `json:"updated" yaml:"updated"`
	Created       []string `json:"created" yaml:"created"`
	ConflictsKept int      `json:"conflicts_kept" yaml:"conflicts_kept"`
}

// Mutations returns the number of appliance calls that changed state.
func (r *Result) Mutations() int {
	return len(r.Deleted) + len(r.Updated) + len(r.Created)
}

// Engine applies plans against a Gateway.
type Engine struct {
	gateway   Gateway
	confirmer Confirmer
	view      View
	reporter  progress.Reporter
	metrics   metrics.ReconcileMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithView shows every non-empty stage before its question.
func WithView(v View) Option {
	return func(e *Engine) { e.view = v }
}

// WithReporter reports per-share progress.
func WithReporter(r progress.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithMetrics records planned and applied operations. A nil value disables
// metrics.
func WithMetrics(m metrics.ReconcileMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine. A nil confirmer accepts every default.
func NewEngine(gw Gateway, confirmer Confirmer, opts ...Option) *Engine {
	if confirmer == nil {
		confirmer = AcceptDefaults
	}
	e := &Engine{
		gateway:   gw,
		confirmer: confirmer,
		reporter:  progress.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.reporter == nil {
		e.reporter = progress.Nop()
	}
	return e
}

// Apply runs the four stages of plan in order. It stops at the first failed
// appliance call, at a declined stale cleanup (ErrDeclined) and at a failed
// confirmation. The returned Result is never nil and holds the changes made
// before the run stopped.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRun)
	defer span.End()

	if lc := logger.FromContext(ctx); lc != nil {
		telemetry.SetAttributes(ctx, telemetry.RunID(lc.RunID))
		if id := telemetry.TraceID(ctx); id != "" {
			ctx = logger.WithContext(ctx, lc.WithTrace(id))
		}
	}

	res := &Result{}
	err := e.apply(ctx, plan, res)

	outcome := metrics.ResultSuccess
	if err != nil {
		outcome = metrics.ResultFailure
		telemetry.RecordError(ctx, err)
	}
	if e.metrics != nil {
		e.metrics.RecordRun(outcome, time.Since(start))
		if ferr := e.metrics.Flush(); ferr != nil {
			logger.WarnCtx(ctx, "Failed to write metrics", logger.Err(ferr))
		}
	}

	logger.InfoCtx(ctx, "Reconciliation finished",
		"result", outcome,
		"deleted", len(res.Deleted),
		"updated", len(res.Updated),
		"created", len(res.Created),
		logger.DurationMs(logger.Duration(start)),
	)
	return res, err
}

func (e *Engine) apply(ctx context.Context, plan *Plan, res *Result) error {
	if plan == nil {
		return fmt.Errorf("%w: nil plan", ErrInconsistentState)
	}

	for _, stage := range Stages {
		changes := plan.Stage(stage)
		if e.metrics != nil {
			e.metrics.RecordPlanned(stage.String(), len(changes))
		}
		if len(changes) == 0 {
			logger.DebugCtx(ctx, "Nothing to do", logger.Stage(stage.String()))
			continue
		}

		if err := e.runStage(ctx, stage, changes, res); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runStage(ctx context.Context, stage Stage, changes []Change, res *Result) error {
	rule := stageRules[stage]

	ctx = logger.StageContext(ctx, stage.String())
	ctx, span := telemetry.StartStageSpan(ctx, stage.String(), len(changes))
	defer span.End()

	if e.view != nil {
		e.view.ShowStage(stage, changes)
	}

	ok, err := e.confirmer.Confirm(ctx, Question{
		Stage:      stage,
		Label:      rule.question,
		DefaultYes: rule.defaultYes,
		Count:      len(changes),
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("confirmation for %s failed: %w", stage, err)
	}

	if !ok {
		e.recordAll(stage, len(changes), metrics.OutcomeDeclined)
		if stage == StageConflicts {
			res.ConflictsKept = len(changes)
		}
		if rule.mandatory {
			logger.WarnCtx(ctx, "Stage declined, aborting run", logger.Count(len(changes)))
			return fmt.Errorf("%w: %s", ErrDeclined, stage)
		}
		logger.InfoCtx(ctx, "Stage declined", logger.Count(len(changes)))
		return nil
	}

	label := fmt.Sprintf(rule.start, len(changes))
	done := fmt.Sprintf(rule.done, len(changes))
	applied := 0
	err = progress.Track(e.reporter, label, done, func(op progress.Operation) error {
		for i, change := range changes {
			op.Update(fmt.Sprintf(rule.step, change.PathName, len(changes)-i))
			if err := e.applyChange(ctx, change, res); err != nil {
				return err
			}
			applied++
		}
		return nil
	})

	if e.metrics != nil {
		for range applied {
			e.metrics.RecordOperation(stage.String(), metrics.OutcomeApplied)
		}
	}
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordOperation(stage.String(), metrics.OutcomeFailed)
		}
		e.recordAll(stage, len(changes)-applied-1, metrics.OutcomeSkipped)
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "Stage failed",
			"applied", applied,
			"remaining", len(changes)-applied,
			logger.Err(err),
		)
		return err
	}

	logger.InfoCtx(ctx, "Stage applied", logger.Count(applied))
	return nil
}

func (e *Engine) applyChange(ctx context.Context, c Change, res *Result) error {
	switch c.Stage {
	case StageConflicts, StageStale:
		if c.Actual == nil || !c.Actual.HasID() {
			return fmt.Errorf("%w: %s share %q has no id", ErrInconsistentState, c.Stage, c.PathName)
		}
		if err := e.gateway.DeleteShare(ctx, c.Actual.ID); err != nil {
			return fmt.Errorf("failed to delete share %q (id %d): %w", c.PathName, c.Actual.ID, err)
		}
		logger.DebugCtx(ctx, "Share deleted", logger.PathName(c.PathName), logger.ShareID(c.Actual.ID))
		res.Deleted = append(res.Deleted, c.Actual.ID)

	case StageUpdates:
		if c.Actual == nil || c.Desired == nil || c.Desired.ID != c.Actual.ID {
			return fmt.Errorf("%w: update of %q is not paired with its share", ErrInconsistentState, c.PathName)
		}
		if _, err := e.gateway.UpdateShare(ctx, c.Desired.ID, c.Desired.Request()); err != nil {
			return fmt.Errorf("failed to update share %q (id %d): %w", c.PathName, c.Desired.ID, err)
		}
		logger.DebugCtx(ctx, "Share updated", logger.PathName(c.PathName), logger.ShareID(c.Desired.ID))
		res.Updated = append(res.Updated, c.Desired.ID)

	case StageCreates:
		if c.Desired == nil {
			return fmt.Errorf("%w: create of %q has no desired share", ErrInconsistentState, c.PathName)
		}
		created, err := e.gateway.CreateShare(ctx, c.Desired.Request())
		if err != nil {
			return fmt.Errorf("failed to create share %q: %w", c.PathName, err)
		}
		args := []any{logger.PathName(c.PathName), logger.Path(c.Desired.Path)}
		if created != nil {
			args = append(args, logger.ShareID(created.ID))
		}
		logger.DebugCtx(ctx, "Share created", args...)
		res.Created = append(res.Created, c.PathName)

	default:
		return fmt.Errorf("%w: unknown stage %q", ErrInconsistentState, c.Stage)
	}
	return nil
}

func (e *Engine) recordAll(stage Stage, n int, outcome string) {
	if e.metrics == nil {
		return
	}
	for range n {
		e.metrics.RecordOperation(stage.String(), outcome)
	}
}

// IsDeclined reports whether err stems from a refused mandatory stage.
func IsDeclined(err error) bool {
	return errors.Is(err, ErrDeclined)
}
