package events

import (
	"fmt"
	"math"

	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
)

// DefaultOutputName is the output name used by steps with a single output.
const DefaultOutputName = "result"

// SpecificData is the per-type payload carried by an Event.
// The set of implementations is closed; each variant belongs to exactly
// one EventType.
type SpecificData interface {
	// EventType returns the event type this payload belongs to.
	EventType() EventType

	validate() error
}

// StepOutputData records a value produced by a step.
type StepOutputData struct {
	OutputName       string `json:"output_name"`
	ValueRepr        string `json:"value_repr,omitempty"`
	IntermediatePath string `json:"intermediate_path,omitempty"`
}

// EventType implements SpecificData.
func (StepOutputData) EventType() EventType { return EventTypeStepOutput }

func (d StepOutputData) validate() error {
	if d.OutputName == "" {
		return errRequired("output_name")
	}
	return nil
}

// StepSuccessData records a successful step completion.
type StepSuccessData struct {
	DurationMs float64 `json:"duration_ms"`
}

// EventType implements SpecificData.
func (StepSuccessData) EventType() EventType { return EventTypeStepSuccess }

func (d StepSuccessData) validate() error {
	if math.IsNaN(d.DurationMs) || math.IsInf(d.DurationMs, 0) {
		return errInvalid("duration_ms must be finite")
	}
	if d.DurationMs < 0 {
		return errInvalid("duration_ms must not be negative")
	}
	return nil
}

// StepFailureData describes why a step failed.
type StepFailureData struct {
	Error    *pterrors.SerializableErrorInfo `json:"error"`
	Category pterrors.Category               `json:"category"`
}

// EventType implements SpecificData.
func (StepFailureData) EventType() EventType { return EventTypeStepFailure }

func (d StepFailureData) validate() error {
	if d.Error == nil {
		return errRequired("error")
	}
	if !d.Category.Valid() {
		return errInvalid(fmt.Sprintf("unknown category %d", int(d.Category)))
	}
	return nil
}

// StepMaterializationData records an artifact persisted by a step.
type StepMaterializationData struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// EventType implements SpecificData.
func (StepMaterializationData) EventType() EventType { return EventTypeStepMaterialization }

func (d StepMaterializationData) validate() error {
	if d.Name == "" {
		return errRequired("name")
	}
	if d.Path == "" {
		return errRequired("path")
	}
	return nil
}

// PipelineInitFailureData describes why a pipeline context could not be built.
type PipelineInitFailureData struct {
	Error *pterrors.SerializableErrorInfo `json:"error"`
}

// EventType implements SpecificData.
func (PipelineInitFailureData) EventType() EventType { return EventTypePipelineInitFailure }

func (d PipelineInitFailureData) validate() error {
	if d.Error == nil {
		return errRequired("error")
	}
	return nil
}

// PipelineProcessStartedData records the OS process running the pipeline.
type PipelineProcessStartedData struct {
	ProcessID int `json:"process_id"`
}

// EventType implements SpecificData.
func (PipelineProcessStartedData) EventType() EventType { return EventTypePipelineProcessStarted }

func (d PipelineProcessStartedData) validate() error {
	if d.ProcessID <= 0 {
		return errInvalid("process_id must be positive")
	}
	return nil
}

// requiresData lists the event types that cannot be built without a payload.
var requiresData = newEventTypeSet(
	EventTypeStepOutput,
	EventTypeStepFailure,
	EventTypeStepSuccess,
	EventTypeStepMaterialization,
	EventTypePipelineProcessStarted,
)

// RequiresData reports whether events of type t must carry a payload.
func (t EventType) RequiresData() bool {
	return requiresData.has(t)
}

type dataError string

func (e dataError) Error() string { return string(e) }

func errRequired(field string) error { return dataError(field + " is required") }

func errInvalid(msg string) error { return dataError(msg) }

// validateSpecificData checks that data is the variant owned by t.
// Types that require a payload reject nil; every other type accepts nil.
func validateSpecificData(op string, t EventType, data SpecificData) error {
	if data == nil {
		if t.RequiresData() {
			return contractErrorf(op, t, ErrTypeMismatch, "payload is required")
		}
		return nil
	}
	if data.EventType() != t {
		return contractErrorf(op, t, ErrTypeMismatch, "payload %T belongs to %s", data, data.EventType())
	}
	if err := data.validate(); err != nil {
		return contractErrorf(op, t, ErrInvalidData, "%T: %v", data, err)
	}
	return nil
}
