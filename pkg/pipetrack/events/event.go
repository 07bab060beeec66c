package events

import (
	"fmt"
	"reflect"
	"strings"
)

// StepIdentity holds the step-scoped fields of an event. They are always
// present together: either an event was built from a step context and
// carries all of them, or it carries none.
type StepIdentity struct {
	StepKey             string
	SolidName           string
	SolidDefinitionName string
	StepKindValue       string
}

// Event is an immutable record of one lifecycle transition of a pipeline
// run. Build events with FromStep, FromPipeline, PipelineInitFailure or
// the typed constructors; the zero Event is not valid.
type Event struct {
	eventType    EventType
	pipelineName string
	step         *StepIdentity
	tags         Tags
	data         SpecificData
}

// New builds an event after checking the type, pipeline name, step identity
// and payload. It is the checked path used when decoding events; engine code
// should use the context-based constructors instead.
func New(t EventType, pipelineName string, step *StepIdentity, tags Tags, data SpecificData) (Event, error) {
	return newEvent("New", t, pipelineName, step, tags, data)
}

func newEvent(op string, t EventType, pipelineName string, step *StepIdentity, tags Tags, data SpecificData) (Event, error) {
	if !t.Valid() {
		return Event{}, contractErrorf(op, t, ErrUnknownEventType, "unknown event type")
	}
	if pipelineName == "" {
		return Event{}, contractErrorf(op, t, ErrInvalidContext, "pipeline name is required")
	}
	if step != nil && step.StepKey == "" {
		return Event{}, contractErrorf(op, t, ErrInvalidContext, "step key is required")
	}
	if err := validateSpecificData(op, t, data); err != nil {
		return Event{}, err
	}

	evt := Event{
		eventType:    t,
		pipelineName: pipelineName,
		tags:         tags,
		data:         data,
	}
	if step != nil {
		s := *step
		evt.step = &s
	}
	return evt, nil
}

// EventType returns the event's type.
func (e Event) EventType() EventType { return e.eventType }

// PipelineName returns the name of the pipeline the event belongs to.
func (e Event) PipelineName() string { return e.pipelineName }

// Step returns the step-scoped fields, or false for pipeline-scoped events.
func (e Event) Step() (StepIdentity, bool) {
	if e.step == nil {
		return StepIdentity{}, false
	}
	return *e.step, true
}

// StepKey returns the step key, or "" for pipeline-scoped events.
func (e Event) StepKey() string {
	if e.step == nil {
		return ""
	}
	return e.step.StepKey
}

// SolidName returns the name of the solid owning the step, or "".
func (e Event) SolidName() string {
	if e.step == nil {
		return ""
	}
	return e.step.SolidName
}

// SolidDefinitionName returns the solid's definition name, or "".
func (e Event) SolidDefinitionName() string {
	if e.step == nil {
		return ""
	}
	return e.step.SolidDefinitionName
}

// StepKindValue returns the raw step kind, or "".
func (e Event) StepKindValue() string {
	if e.step == nil {
		return ""
	}
	return e.step.StepKindValue
}

// StepKind parses the step kind. Returns false for pipeline-scoped events
// and for step kinds outside the known enumeration.
func (e Event) StepKind() (StepKind, bool) {
	if e.step == nil {
		return "", false
	}
	k, err := ParseStepKind(e.step.StepKindValue)
	if err != nil {
		return "", false
	}
	return k, true
}

// IsStepScoped reports whether the event carries step-scoped fields.
func (e Event) IsStepScoped() bool { return e.step != nil }

// Tags returns the event's tags. Pipeline-scoped events have none.
func (e Event) Tags() Tags { return e.tags }

// SpecificData returns the payload, or nil when the event has none.
func (e Event) SpecificData() SpecificData { return e.data }

// IsStepEvent reports whether the event's type is a step event type.
func (e Event) IsStepEvent() bool { return e.eventType.IsStepEvent() }

// IsFailure reports whether the event's type is a failure event type.
func (e Event) IsFailure() bool { return e.eventType.IsFailure() }

// IsStepFailure reports whether the event records a step failure.
func (e Event) IsStepFailure() bool { return e.eventType == EventTypeStepFailure }

// IsStepSuccess reports whether the event records a step success.
// It is false for every other type, including non-step events.
func (e Event) IsStepSuccess() bool { return e.eventType == EventTypeStepSuccess }

// IsSuccessfulOutput reports whether the event records a step output.
func (e Event) IsSuccessfulOutput() bool { return e.eventType == EventTypeStepOutput }

// StepOutputData returns the payload of a STEP_OUTPUT event.
// Panics with a *ContractError for any other type.
func (e Event) StepOutputData() StepOutputData {
	e.assertType("StepOutputData", EventTypeStepOutput)
	return e.data.(StepOutputData)
}

// StepSuccessData returns the payload of a STEP_SUCCESS event.
// Panics with a *ContractError for any other type.
func (e Event) StepSuccessData() StepSuccessData {
	e.assertType("StepSuccessData", EventTypeStepSuccess)
	return e.data.(StepSuccessData)
}

// StepFailureData returns the payload of a STEP_FAILURE event.
// Panics with a *ContractError for any other type.
func (e Event) StepFailureData() StepFailureData {
	e.assertType("StepFailureData", EventTypeStepFailure)
	return e.data.(StepFailureData)
}

// StepMaterializationData returns the payload of a STEP_MATERIALIZATION event.
// Panics with a *ContractError for any other type.
func (e Event) StepMaterializationData() StepMaterializationData {
	e.assertType("StepMaterializationData", EventTypeStepMaterialization)
	return e.data.(StepMaterializationData)
}

// PipelineProcessStartedData returns the payload of a PIPELINE_PROCESS_STARTED event.
// Panics with a *ContractError for any other type.
func (e Event) PipelineProcessStartedData() PipelineProcessStartedData {
	e.assertType("PipelineProcessStartedData", EventTypePipelineProcessStarted)
	return e.data.(PipelineProcessStartedData)
}

// PipelineInitFailureData returns the payload of a PIPELINE_INIT_FAILURE event.
// The second result is false if the event was built without a payload.
// Panics with a *ContractError for any other type.
func (e Event) PipelineInitFailureData() (PipelineInitFailureData, bool) {
	e.assertType("PipelineInitFailureData", EventTypePipelineInitFailure)
	d, ok := e.data.(PipelineInitFailureData)
	return d, ok
}

func (e Event) assertType(method string, expected EventType) {
	if e.eventType != expected {
		panic(contractErrorf(method, e.eventType, ErrTypeMismatch,
			"only callable when event type is %s", expected))
	}
}

// Equal reports whether two events hold the same values.
func (e Event) Equal(other Event) bool {
	if e.eventType != other.eventType || e.pipelineName != other.pipelineName {
		return false
	}
	if (e.step == nil) != (other.step == nil) {
		return false
	}
	if e.step != nil && *e.step != *other.step {
		return false
	}
	if !e.tags.Equal(other.tags) {
		return false
	}
	return reflect.DeepEqual(e.data, other.data)
}

// String returns a short human-readable description.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(string(e.eventType))
	fmt.Fprintf(&b, " pipeline=%s", e.pipelineName)
	if e.step != nil {
		fmt.Fprintf(&b, " step=%s", e.step.StepKey)
	}
	return b.String()
}
