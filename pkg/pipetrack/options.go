package pipetrack

import (
	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/observability"
)

// runConfig holds configuration for plan execution.
type runConfig struct {
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	retry          pterrors.RetryConfig
	processEvents  bool
	processID      int
	metricsEnabled bool
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		retry:   pterrors.NoRetry,
	}
}

// ExecuteOption configures execution behavior.
type ExecuteOption func(*runConfig)

// WithMetrics records event counts and step and run latencies.
// A nil recorder means observability.NewMetricsRecorder().
func WithMetrics(recorder observability.MetricsRecorder) ExecuteOption {
	return func(c *runConfig) {
		if recorder == nil {
			recorder = observability.NewMetricsRecorder()
		}
		c.metrics = recorder
		c.metricsEnabled = true
	}
}

// WithSpanManager enables tracing of the run and its steps.
// A nil manager means observability.NewSpanManager().
func WithSpanManager(spans observability.SpanManager) ExecuteOption {
	return func(c *runConfig) {
		if spans == nil {
			spans = observability.NewSpanManager()
		}
		c.spans = spans
	}
}

// WithRetry sets the retry policy for steps that do not set their own.
// Default: no retries.
func WithRetry(cfg pterrors.RetryConfig) ExecuteOption {
	return func(c *runConfig) {
		c.retry = cfg
	}
}

// WithProcessEvents emits PIPELINE_PROCESS_START and PIPELINE_PROCESS_STARTED
// with processID before the run starts. A processID that is not positive
// makes Execute fail with ErrInvalidProcessID before any step runs.
func WithProcessEvents(processID int) ExecuteOption {
	return func(c *runConfig) {
		c.processEvents = true
		c.processID = processID
	}
}
