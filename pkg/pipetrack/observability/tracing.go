package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("pipetrack")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span for the entire pipeline run.
	StartRunSpan(ctx context.Context, pipelineName, runID string) (context.Context, trace.Span)

	// StartStepSpan starts a span for a step execution.
	// The step span should be a child of the run span.
	StartStepSpan(ctx context.Context, stepKey string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddEventToSpan attaches an event to the current span in context.
	AddEventToSpan(ctx context.Context, evt events.Event)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for the entire pipeline run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, pipelineName, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipetrack.run",
		trace.WithAttributes(
			attribute.String("pipeline.name", pipelineName),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStepSpan starts a span for a step execution.
func (m *otelSpanManager) StartStepSpan(ctx context.Context, stepKey string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pipetrack.step."+stepKey,
		trace.WithAttributes(
			attribute.String("step.key", stepKey),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddEventToSpan adds evt as a span event named after its type.
func (m *otelSpanManager) AddEventToSpan(ctx context.Context, evt events.Event) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.name", evt.PipelineName()),
	}
	if evt.IsStepScoped() {
		attrs = append(attrs,
			attribute.String("step.key", evt.StepKey()),
			attribute.String("step.kind", evt.StepKindValue()),
		)
	}
	span.AddEvent(string(evt.EventType()), trace.WithAttributes(attrs...))
}
