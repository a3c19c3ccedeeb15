package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys.
const (
	AttrRunID      = "reconcile.run_id"
	AttrStage      = "reconcile.stage"
	AttrPlanned    = "reconcile.planned"
	AttrPathName   = "share.path_name"
	AttrShareID    = "share.id"
	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"
)

// Span names.
const (
	SpanRun        = "reconcile.run"
	SpanStage      = "reconcile.stage"
	SpanAppliance  = "appliance.request"
	SpanDatasetSrc = "datasets.load"
)

// RunID returns an attribute for the reconciliation run id.
func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Stage returns an attribute for a reconciliation stage.
func Stage(name string) attribute.KeyValue {
	return attribute.String(AttrStage, name)
}

// Planned returns an attribute for the number of operations planned in a stage.
func Planned(n int) attribute.KeyValue {
	return attribute.Int(AttrPlanned, n)
}

// PathName returns an attribute for a share's dataset path name.
func PathName(name string) attribute.KeyValue {
	return attribute.String(AttrPathName, name)
}

// ShareID returns an attribute for an appliance share id.
func ShareID(id int) attribute.KeyValue {
	return attribute.Int(AttrShareID, id)
}

// HTTPStatus returns an attribute for an HTTP response status.
func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}

// StartStageSpan starts a span for one reconciliation stage.
func StartStageSpan(ctx context.Context, stage string, planned int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanStage+"."+stage, trace.WithAttributes(Stage(stage), Planned(planned)))
}

// StartApplianceSpan starts a client span for one appliance API call.
func StartApplianceSpan(ctx context.Context, method, route string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAppliance,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, method),
			attribute.String(AttrHTTPRoute, route),
		),
	)
}
