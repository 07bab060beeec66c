package query

import (
	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// RunStatus is the lifecycle status of a run derived from its events.
type RunStatus string

// Run statuses.
const (
	RunStatusUnknown  RunStatus = "UNKNOWN"
	RunStatusStarting RunStatus = "STARTING"
	RunStatusStarted  RunStatus = "STARTED"
	RunStatusSuccess  RunStatus = "SUCCESS"
	RunStatusFailure  RunStatus = "FAILURE"
)

// StepStatus is the status of one step derived from its events.
type StepStatus string

// Step statuses.
const (
	StepStatusStarted   StepStatus = "STARTED"
	StepStatusSucceeded StepStatus = "SUCCEEDED"
	StepStatusFailed    StepStatus = "FAILED"
	StepStatusSkipped   StepStatus = "SKIPPED"
)

// State is the queryable view of one run.
type State struct {
	// RunID is the run identifier.
	RunID string `json:"run_id"`

	// PipelineName is taken from the first event.
	PipelineName string `json:"pipeline_name"`

	// Status is the run status.
	Status RunStatus `json:"status"`

	// CurrentStep is the most recently started step that has not finished.
	CurrentStep string `json:"current_step,omitempty"`

	// Steps maps step keys to their latest status.
	Steps map[string]StepStatus `json:"steps"`

	// StepOrder lists step keys in the order they were first seen.
	StepOrder []string `json:"step_order"`

	// Outputs holds the outputs each step produced, in order.
	Outputs map[string][]events.StepOutputData `json:"outputs,omitempty"`

	// Materializations holds every materialization of the run, in order.
	Materializations []events.StepMaterializationData `json:"materializations,omitempty"`

	// ProcessID is set once PIPELINE_PROCESS_STARTED is seen.
	ProcessID int `json:"process_id,omitempty"`

	// Failure is the error of the first failure event carrying one.
	Failure *pterrors.SerializableErrorInfo `json:"failure,omitempty"`

	// FailedSteps lists steps with a STEP_FAILURE, in order.
	FailedSteps []string `json:"failed_steps,omitempty"`
}

// BuildState folds evts, in append order, into the state of runID.
func BuildState(runID string, evts []events.Event) *State {
	state := &State{
		RunID:   runID,
		Status:  RunStatusUnknown,
		Steps:   make(map[string]StepStatus),
		Outputs: make(map[string][]events.StepOutputData),
	}

	for _, evt := range evts {
		if state.PipelineName == "" {
			state.PipelineName = evt.PipelineName()
		}
		if evt.IsStepScoped() {
			state.applyStep(evt)
			continue
		}
		state.applyPipeline(evt)
	}

	state.Materializations = events.Materializations(evts)
	return state
}

func (s *State) applyPipeline(evt events.Event) {
	switch evt.EventType() {
	case events.EventTypePipelineProcessStart:
		if s.Status == RunStatusUnknown {
			s.Status = RunStatusStarting
		}
	case events.EventTypePipelineProcessStarted:
		s.ProcessID = evt.PipelineProcessStartedData().ProcessID
		if s.Status == RunStatusUnknown {
			s.Status = RunStatusStarting
		}
	case events.EventTypePipelineStart:
		s.Status = RunStatusStarted
	case events.EventTypePipelineSuccess:
		s.Status = RunStatusSuccess
		s.CurrentStep = ""
	case events.EventTypePipelineFailure:
		s.Status = RunStatusFailure
		s.CurrentStep = ""
	case events.EventTypePipelineInitFailure:
		s.Status = RunStatusFailure
		s.CurrentStep = ""
		if data, ok := evt.PipelineInitFailureData(); ok && s.Failure == nil {
			s.Failure = data.Error
		}
	}
}

func (s *State) applyStep(evt events.Event) {
	key := evt.StepKey()
	if _, seen := s.Steps[key]; !seen {
		s.StepOrder = append(s.StepOrder, key)
	}

	switch evt.EventType() {
	case events.EventTypeStepStart:
		s.Steps[key] = StepStatusStarted
		s.CurrentStep = key
	case events.EventTypeStepOutput:
		s.Outputs[key] = append(s.Outputs[key], evt.StepOutputData())
	case events.EventTypeStepSuccess:
		s.Steps[key] = StepStatusSucceeded
		s.clearCurrent(key)
	case events.EventTypeStepFailure:
		s.Steps[key] = StepStatusFailed
		s.FailedSteps = append(s.FailedSteps, key)
		if s.Failure == nil {
			s.Failure = evt.StepFailureData().Error
		}
		s.clearCurrent(key)
	case events.EventTypeStepSkipped:
		s.Steps[key] = StepStatusSkipped
		s.clearCurrent(key)
	}
}

func (s *State) clearCurrent(key string) {
	if s.CurrentStep == key {
		s.CurrentStep = ""
	}
}
