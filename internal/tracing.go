package internal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/AnatoleLucet/velo"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// traceFlush wraps a flush in a span. A panic escaping fn marks the span
// as failed before it propagates.
func (r *Runtime) traceFlush(reason string, pending int, fn func()) {
	_, span := r.tracer.Start(context.Background(), "velo.flush",
		trace.WithAttributes(
			attribute.String("velo.engine_id", r.id.String()),
			attribute.String("velo.flush.reason", reason),
			attribute.Int("velo.flush.pending", pending),
		),
	)
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			span.RecordError(fmt.Errorf("reaction panicked: %v", p))
			span.SetStatus(codes.Error, "reaction panicked")
			panic(p)
		}
	}()

	fn()
	span.SetStatus(codes.Ok, "")
}
