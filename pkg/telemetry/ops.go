package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OpRecorder traces and counts named operations. Every finished operation adds
// one to the counter with op, backend and outcome attributes.
type OpRecorder struct {
	tracer  trace.Tracer
	counter metric.Int64Counter
}

// NewOpRecorder creates an OpRecorder on the global providers set by Setup.
func NewOpRecorder(scope, counterName string) (*OpRecorder, error) {
	counter, err := otel.Meter(scope).Int64Counter(counterName,
		metric.WithDescription("Completed operations by backend and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", counterName, err)
	}
	return &OpRecorder{tracer: otel.Tracer(scope), counter: counter}, nil
}

// Start opens a span named op. The returned func ends the span and records
// the outcome; pass the operation's error (nil on success).
func (o *OpRecorder) Start(ctx context.Context, op, backend string) (context.Context, func(error)) {
	ctx, span := o.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("backend", backend)))
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		o.counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("backend", backend),
			attribute.String("outcome", outcome),
		))
		span.End()
	}
}
