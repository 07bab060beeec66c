package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent counts one constructed event.
	RecordEvent(ctx context.Context, evt events.Event)

	// RecordStep records a step execution with its duration and error status.
	RecordStep(ctx context.Context, stepKey string, duration time.Duration, err error)

	// RecordRun records a pipeline run completion.
	RecordRun(ctx context.Context, pipelineName string, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	events      metric.Int64Counter
	stepLatency metric.Float64Histogram
	stepErrors  metric.Int64Counter
	runs        metric.Int64Counter
	runLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("pipetrack")

	eventCounter, err := meter.Int64Counter("pipetrack.events",
		metric.WithDescription("Number of events constructed"),
	)
	if err != nil {
		return nil, err
	}

	stepLatency, err := meter.Float64Histogram("pipetrack.step.latency_ms",
		metric.WithDescription("Step execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter("pipetrack.step.errors",
		metric.WithDescription("Number of failed step executions"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("pipetrack.pipeline.runs",
		metric.WithDescription("Number of pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("pipetrack.pipeline.latency_ms",
		metric.WithDescription("Pipeline run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		events:      eventCounter,
		stepLatency: stepLatency,
		stepErrors:  stepErrors,
		runs:        runs,
		runLatency:  runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvent counts an event by type and pipeline.
func (m *otelMetrics) RecordEvent(ctx context.Context, evt events.Event) {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", string(evt.EventType())),
		attribute.String("pipeline_name", evt.PipelineName()),
	))
}

// RecordStep records a step execution.
func (m *otelMetrics) RecordStep(ctx context.Context, stepKey string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("step_key", stepKey))
	m.stepLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.stepErrors.Add(ctx, 1, attrs)
	}
}

// RecordRun records a pipeline run.
func (m *otelMetrics) RecordRun(ctx context.Context, pipelineName string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("pipeline_name", pipelineName),
		attribute.Bool("success", success),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
