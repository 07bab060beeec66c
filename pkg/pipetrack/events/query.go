package events

import "github.com/samber/lo"

// FindStepOutputEvent returns the first STEP_OUTPUT event of stepKey whose
// output is named outputName. An empty outputName means DefaultOutputName.
// The second result is false when no such event exists.
func FindStepOutputEvent(events []Event, stepKey, outputName string) (Event, bool) {
	if outputName == "" {
		outputName = DefaultOutputName
	}
	return lo.Find(events, func(e Event) bool {
		return e.eventType == EventTypeStepOutput &&
			e.StepKey() == stepKey &&
			e.StepOutputData().OutputName == outputName
	})
}

// FilterStepEvents returns the events of stepKey in their original order.
func FilterStepEvents(events []Event, stepKey string) []Event {
	return lo.Filter(events, func(e Event, _ int) bool {
		return e.step != nil && e.step.StepKey == stepKey
	})
}

// Materializations returns the payloads of every STEP_MATERIALIZATION event.
func Materializations(events []Event) []StepMaterializationData {
	return lo.FilterMap(events, func(e Event, _ int) (StepMaterializationData, bool) {
		if e.eventType != EventTypeStepMaterialization {
			return StepMaterializationData{}, false
		}
		return e.StepMaterializationData(), true
	})
}

// Failures returns the events whose type is a failure type.
func Failures(events []Event) []Event {
	return lo.Filter(events, func(e Event, _ int) bool {
		return e.IsFailure()
	})
}
