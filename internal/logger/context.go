package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds the fields attached to every log line of one
// reconciliation run.
type LogContext struct {
	RunID     string
	TraceID   string
	Stage     string
	DryRun    bool
	StartTime time.Time
}

// NewLogContext starts a LogContext for the run identified by runID.
func NewLogContext(runID string) *LogContext {
	return &LogContext{RunID: runID, StartTime: time.Now()}
}

// WithContext returns a copy of ctx carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext returns the LogContext stored in ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithStage returns a copy with the stage set
func (lc *LogContext) WithStage(stage string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.Stage = stage
	}
	return c
}

// WithTrace returns a copy with the trace id set
func (lc *LogContext) WithTrace(traceID string) *LogContext {
	c := lc.Clone()
	if c != nil {
		c.TraceID = traceID
	}
	return c
}

// DurationMs returns the time since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}

// StageContext derives a context whose LogContext carries stage. Without a
// LogContext in ctx it returns ctx unchanged.
func StageContext(ctx context.Context, stage string) context.Context {
	lc := FromContext(ctx)
	if lc == nil {
		return ctx
	}
	return WithContext(ctx, lc.WithStage(stage))
}
