package pipetrack

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/eventlog"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/observability"
)

// PipelineContext is the read-only context of one pipeline run.
// It extends context.Context with the pipeline's name, run ID, logger,
// tags and event store.
//
// PipelineContext is immutable after creation. ForStep derives a
// StepContext for each step with an enriched logger.
type PipelineContext struct {
	context.Context

	name    string
	runID   string
	logger  *slog.Logger
	tags    events.Tags
	store   eventlog.Store
	metrics observability.MetricsRecorder
}

// Compile-time interface check.
var _ events.PipelineContext = (*PipelineContext)(nil)

// ContextOption configures a PipelineContext.
type ContextOption func(*PipelineContext)

// WithLogger sets the logger for the context.
// The logger will be enriched with run_id and step_key for each step.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *PipelineContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunID sets the run identifier.
// If not set, a UUID will be auto-generated.
func WithRunID(id string) ContextOption {
	return func(c *PipelineContext) {
		if id != "" {
			c.runID = id
		}
	}
}

// WithTags sets tags inherited by every step of the run.
func WithTags(tags events.Tags) ContextOption {
	return func(c *PipelineContext) {
		c.tags = tags
	}
}

// WithEventStore sets the store every event of the run is appended to.
func WithEventStore(store eventlog.Store) ContextOption {
	return func(c *PipelineContext) {
		c.store = store
	}
}

// NewPipelineContext creates a pipeline context from a standard context.
//
// Example:
//
//	pc := pipetrack.NewPipelineContext(context.Background(), "nightly_etl",
//	    pipetrack.WithLogger(logger),
//	    pipetrack.WithEventStore(store))
func NewPipelineContext(ctx context.Context, pipelineName string, opts ...ContextOption) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	pc := &PipelineContext{
		Context: ctx,
		name:    pipelineName,
		runID:   uuid.New().String(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(pc)
	}

	return pc
}

// PipelineName returns the name of the running pipeline.
func (c *PipelineContext) PipelineName() string {
	return c.name
}

// RunID returns the run identifier.
func (c *PipelineContext) RunID() string {
	return c.runID
}

// Logger returns the configured logger. Never nil.
func (c *PipelineContext) Logger() *slog.Logger {
	return c.logger
}

// Log returns the sink pipeline events are written to.
func (c *PipelineContext) Log() events.LogSink {
	return c.sinkFor(c.logger)
}

// Tags returns the run-level tags.
func (c *PipelineContext) Tags() events.Tags {
	return c.tags
}

// EventStore returns the event store, or nil if not configured.
func (c *PipelineContext) EventStore() eventlog.Store {
	return c.store
}

func (c *PipelineContext) sinkFor(logger *slog.Logger) events.LogSink {
	if c.metrics == nil {
		return logger
	}
	return observability.NewMeteredSink(logger, c.metrics)
}

// with returns a copy bound to ctx and metrics.
func (c *PipelineContext) with(ctx context.Context, metrics observability.MetricsRecorder) *PipelineContext {
	cp := *c
	cp.Context = ctx
	cp.metrics = metrics
	return &cp
}

// ForStep derives the context of one step. Step tags are merged over the
// run tags.
func (c *PipelineContext) ForStep(step Step) *StepContext {
	logger := observability.EnrichStepLogger(c.logger, c.runID, step.Key)
	return &StepContext{
		Context:  c.Context,
		pipeline: c,
		step:     step,
		tags:     c.tags.Merge(step.Tags),
		logger:   logger,
		sink:     c.sinkFor(logger),
		attempt:  1,
	}
}

// StepContext is the read-only context of one executing step.
type StepContext struct {
	context.Context

	pipeline *PipelineContext
	step     Step
	tags     events.Tags
	logger   *slog.Logger
	sink     events.LogSink
	attempt  int
}

// Compile-time interface check.
var _ events.StepContext = (*StepContext)(nil)

// PipelineName returns the name of the running pipeline.
func (c *StepContext) PipelineName() string { return c.pipeline.name }

// RunID returns the run identifier.
func (c *StepContext) RunID() string { return c.pipeline.runID }

// Log returns the sink step events are written to.
func (c *StepContext) Log() events.LogSink { return c.sink }

// Logger returns the logger enriched with run_id and step_key.
func (c *StepContext) Logger() *slog.Logger { return c.logger }

// StepKey returns the key of the step.
func (c *StepContext) StepKey() string { return c.step.Key }

// SolidName returns the solid instance name.
func (c *StepContext) SolidName() string { return c.step.Solid.Name }

// SolidDefinitionName returns the solid definition name.
func (c *StepContext) SolidDefinitionName() string { return c.step.Solid.DefinitionName }

// StepKind returns how the step is executed.
func (c *StepContext) StepKind() events.StepKind { return c.step.Kind }

// Tags returns the merged run and step tags.
func (c *StepContext) Tags() events.Tags { return c.tags }

// Attempt returns the compute attempt number (1 = first attempt).
func (c *StepContext) Attempt() int { return c.attempt }

// Pipeline returns the enclosing pipeline context.
func (c *StepContext) Pipeline() *PipelineContext { return c.pipeline }

// withContext returns a copy bound to ctx.
func (c *StepContext) withContext(ctx context.Context) *StepContext {
	cp := *c
	cp.Context = ctx
	return &cp
}
