package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTrace_Success(t *testing.T) {
	recorder := withRecorder(t)

	err := Trace(context.Background(), "filter", func(ctx context.Context, span *Span) error {
		span.SetAttribute("tabula.rows", 42)
		span.SetAttribute("tabula.columns", []string{"a", "b"})
		return nil
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "tabula.filter", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	a := attrs(spans[0])
	assert.Equal(t, "filter", a["tabula.operation"].AsString())
	assert.Equal(t, int64(42), a["tabula.rows"].AsInt64())
	assert.Equal(t, []string{"a", "b"}, a["tabula.columns"].AsStringSlice())
}

func TestTrace_Error(t *testing.T) {
	recorder := withRecorder(t)

	err := Trace(context.Background(), "sort", func(ctx context.Context, span *Span) error {
		return tableerrors.ColumnNotFound("depth")
	})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "column_not_found", attrs(spans[0])["error.type"].AsString())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestInitTracing_ExportsToWriter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	shutdown, err := InitTracing(cfg)
	require.NoError(t, err)

	_, span := NewSpan(context.Background(), "load")
	span.End(nil)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "tabula.load")
	assert.Contains(t, buf.String(), "tabula")
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(2).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), samplerFor(0.5).Description())
}
