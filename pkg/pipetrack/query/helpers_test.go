package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

func step(key string) *events.StepIdentity {
	return &events.StepIdentity{
		StepKey:             key,
		SolidName:           key,
		SolidDefinitionName: key + "_def",
		StepKindValue:       string(events.StepKindTransform),
	}
}

func evt(t *testing.T, et events.EventType, s *events.StepIdentity, data events.SpecificData) events.Event {
	t.Helper()
	e, err := events.New(et, "etl", s, events.Tags{}, data)
	require.NoError(t, err)
	return e
}

func failureData(msg string) events.StepFailureData {
	return events.StepFailureData{
		Error:    &pterrors.SerializableErrorInfo{Message: msg, Stack: []string{}},
		Category: pterrors.CategoryUserCode,
	}
}

// successfulRun is extract -> transform, both succeeding.
func successfulRun(t *testing.T) []events.Event {
	return []events.Event{
		evt(t, events.EventTypePipelineProcessStart, nil, nil),
		evt(t, events.EventTypePipelineProcessStarted, nil, events.PipelineProcessStartedData{ProcessID: 4242}),
		evt(t, events.EventTypePipelineStart, nil, nil),
		evt(t, events.EventTypeStepStart, step("extract"), nil),
		evt(t, events.EventTypeStepOutput, step("extract"), events.StepOutputData{OutputName: "result", ValueRepr: "[1 2 3]"}),
		evt(t, events.EventTypeStepSuccess, step("extract"), events.StepSuccessData{DurationMs: 3}),
		evt(t, events.EventTypeStepStart, step("transform"), nil),
		evt(t, events.EventTypeStepOutput, step("transform"), events.StepOutputData{OutputName: "rows", ValueRepr: "3"}),
		evt(t, events.EventTypeStepMaterialization, step("transform"), events.StepMaterializationData{Name: "table", Path: "/tmp/out.csv"}),
		evt(t, events.EventTypeStepSuccess, step("transform"), events.StepSuccessData{DurationMs: 7}),
		evt(t, events.EventTypePipelineSuccess, nil, nil),
	}
}

// failedRun is extract failing, transform skipped.
func failedRun(t *testing.T) []events.Event {
	return []events.Event{
		evt(t, events.EventTypePipelineStart, nil, nil),
		evt(t, events.EventTypeStepStart, step("extract"), nil),
		evt(t, events.EventTypeStepFailure, step("extract"), failureData("connection refused")),
		evt(t, events.EventTypeStepSkipped, step("transform"), nil),
		evt(t, events.EventTypePipelineFailure, nil, nil),
	}
}
