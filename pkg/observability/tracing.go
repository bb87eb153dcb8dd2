// Package observability provides OpenTelemetry tracing for tabula
// operations.
//
// Until InitTracing is called spans go to the global no-op provider, so
// instrumented code costs almost nothing when tracing is disabled.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

const instrumentationName = "github.com/ajitpratap0/tabula"

// Tracer returns the tabula tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Span wraps a trace.Span with attribute batching.
type Span struct {
	span       trace.Span
	attributes []attribute.KeyValue
}

// NewSpan starts a span named "tabula.<operation>".
func NewSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, "tabula."+operation,
		trace.WithAttributes(attribute.String("tabula.operation", operation)))
	return ctx, &Span{span: span}
}

// SetAttribute adds an attribute, applied when the span ends.
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	case []string:
		attr = attribute.StringSlice(key, v)
	default:
		attr = attribute.String(key, stringpool.ValueToString(v))
	}

	s.attributes = append(s.attributes, attr)
}

// End records err, if any, and ends the span.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		s.attributes = append(s.attributes, attribute.String("error.type", string(tableerrors.TypeOf(err))))
	} else {
		s.span.SetStatus(codes.Ok, "")
	}

	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// Trace runs fn inside a span for operation and ends the span with fn's
// error.
func Trace(ctx context.Context, operation string, fn func(ctx context.Context, span *Span) error) error {
	ctx, span := NewSpan(ctx, operation)
	err := fn(ctx, span)
	span.End(err)
	return err
}
