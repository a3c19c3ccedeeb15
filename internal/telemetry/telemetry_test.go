package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "recursive-nfs", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())
	assert.NotNil(t, Tracer())
}

func TestStartSpanWithoutInit(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartStageSpan(ctx, "create", 3)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	_, span = StartApplianceSpan(ctx, "GET", "/sharing/nfs")
	span.End()
}

func TestSpanHelpersWithoutActiveSpan(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		RecordError(ctx, nil)
		RecordError(ctx, errors.New("test error"))
		SetAttributes(ctx, PathName("tank/media"))
	})

	assert.Equal(t, "", TraceID(ctx))
	assert.Equal(t, "", SpanID(ctx))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1.0).Description(), "AlwaysOn")
	assert.Contains(t, sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		got  func() any
		want any
	}{
		{"RunID", AttrRunID, func() any { return RunID("abc").Value.AsString() }, "abc"},
		{"Stage", AttrStage, func() any { return Stage("stale").Value.AsString() }, "stale"},
		{"PathName", AttrPathName, func() any { return PathName("tank/a").Value.AsString() }, "tank/a"},
		{"ShareID", AttrShareID, func() any { return ShareID(42).Value.AsInt64() }, int64(42)},
		{"HTTPStatus", AttrHTTPStatus, func() any { return HTTPStatus(200).Value.AsInt64() }, int64(200)},
		{"Planned", AttrPlanned, func() any { return Planned(2).Value.AsInt64() }, int64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got())
		})
	}

	assert.Equal(t, AttrShareID, string(ShareID(1).Key))
}
