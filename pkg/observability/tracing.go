package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the tracer pipeline stages record spans on.
func Tracer() trace.Tracer {
	return otel.Tracer("chatledger/pipeline")
}

// StartStage opens a span for one pipeline stage and returns a closer that
// records the error status and the stage duration metric.
func StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	ctx, span := Tracer().Start(ctx, stage, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("pipeline.stage", stage))
	start := time.Now()

	return ctx, func(err error) {
		StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
