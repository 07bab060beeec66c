package events

// LogSink receives the structured log write performed by every event
// construction. Implementations must be safe for concurrent use and must
// complete the write before returning. *slog.Logger satisfies LogSink.
type LogSink interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// PipelineContext is the read-only view of a running pipeline that
// pipeline-scoped constructors read from.
type PipelineContext interface {
	// PipelineName returns the name of the running pipeline.
	PipelineName() string

	// Log returns the sink event construction writes to.
	Log() LogSink
}

// StepContext is the read-only view of a running step that step-scoped
// constructors read from. Every step-scoped field of an event comes from
// here, never from the caller.
type StepContext interface {
	PipelineContext

	// StepKey returns the unique key of the step within the plan.
	StepKey() string

	// SolidName returns the name of the solid instance the step belongs to.
	SolidName() string

	// SolidDefinitionName returns the name of the solid's definition.
	SolidDefinitionName() string

	// StepKind returns how the step is executed.
	StepKind() StepKind

	// Tags returns the tags attached to events of this step.
	Tags() Tags
}

// Structured field keys used in the construction log write.
const (
	LogKeyEvent        = "event"
	LogKeyPipelineName = "pipeline_name"
)
