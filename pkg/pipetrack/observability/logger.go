// Package observability provides structured logging, metrics, and tracing
// for pipeline runs.
//
// Features:
//   - Structured logging via slog (Go stdlib); *slog.Logger is the event LogSink
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Log output formats accepted by NewLogger.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewLogger builds a logger writing to w in the given format ("json" or "text").
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
}

// EnrichStepLogger adds run and step context to a logger.
//
// Example:
//
//	enriched := EnrichStepLogger(logger, "run-123", "transform")
//	enriched.Info("doing work") // includes run_id and step_key
func EnrichStepLogger(logger *slog.Logger, runID, stepKey string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("step_key", stepKey),
	)
}

// LogRunStart logs the start of a pipeline run.
func LogRunStart(logger *slog.Logger, pipelineName, runID string) {
	if logger == nil {
		return
	}
	logger.Debug("pipeline run starting",
		slog.String("pipeline_name", pipelineName),
		slog.String("run_id", runID),
	)
}

// LogRunComplete logs successful run completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, stepCount int) {
	if logger == nil {
		return
	}
	logger.Debug("pipeline run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps_executed", stepCount),
	)
}

// LogRunError logs a failed run.
func LogRunError(logger *slog.Logger, runID string, durationMs float64, failedSteps []string) {
	if logger == nil {
		return
	}
	logger.Debug("pipeline run failed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Any("failed_steps", failedSteps),
	)
}

// LogStepRetry logs a retry of a step after a transient failure.
func LogStepRetry(logger *slog.Logger, stepKey string, attempt int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("retrying step",
		slog.String("step_key", stepKey),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// LogStoreError logs an event store failure (non-fatal).
func LogStoreError(logger *slog.Logger, runID string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("event store failed",
		slog.String("run_id", runID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
