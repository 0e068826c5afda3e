// Package tracing wraps transport calls in OpenTelemetry spans, named after
// the Dispatch API operation that issued them.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/vespabridge/searchkit"

// Tracer returns the package-wide tracer, resolved lazily against whatever
// TracerProvider the host process has configured via otel.SetTracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span named op and returns the derived context together
// with a finish function that records err (if any) on the span before
// ending it. Callers defer finish(&err) around the traced call.
func StartSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := Tracer().Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}
