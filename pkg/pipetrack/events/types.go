package events

import "fmt"

// EventType identifies the lifecycle transition an Event records.
type EventType string

// Step lifecycle event types.
const (
	EventTypeStepStart           EventType = "STEP_START"
	EventTypeStepOutput          EventType = "STEP_OUTPUT"
	EventTypeStepSuccess         EventType = "STEP_SUCCESS"
	EventTypeStepFailure         EventType = "STEP_FAILURE"
	EventTypeStepSkipped         EventType = "STEP_SKIPPED"
	EventTypeStepMaterialization EventType = "STEP_MATERIALIZATION"
)

// Pipeline lifecycle event types.
const (
	EventTypePipelineStart          EventType = "PIPELINE_START"
	EventTypePipelineSuccess        EventType = "PIPELINE_SUCCESS"
	EventTypePipelineFailure        EventType = "PIPELINE_FAILURE"
	EventTypePipelineInitFailure    EventType = "PIPELINE_INIT_FAILURE"
	EventTypePipelineProcessStart   EventType = "PIPELINE_PROCESS_START"
	EventTypePipelineProcessStarted EventType = "PIPELINE_PROCESS_STARTED"
)

// allEventTypes is the closed enumeration in declaration order.
var allEventTypes = []EventType{
	EventTypeStepStart,
	EventTypeStepOutput,
	EventTypeStepSuccess,
	EventTypeStepFailure,
	EventTypeStepSkipped,
	EventTypeStepMaterialization,
	EventTypePipelineStart,
	EventTypePipelineSuccess,
	EventTypePipelineFailure,
	EventTypePipelineInitFailure,
	EventTypePipelineProcessStart,
	EventTypePipelineProcessStarted,
}

type eventTypeSet map[EventType]struct{}

func newEventTypeSet(types ...EventType) eventTypeSet {
	set := make(eventTypeSet, len(types))
	for _, t := range types {
		if !t.Valid() {
			panic(fmt.Sprintf("events: %q is not part of the event type enumeration", t))
		}
		set[t] = struct{}{}
	}
	return set
}

func (s eventTypeSet) has(t EventType) bool {
	_, ok := s[t]
	return ok
}

// members returns the set's types in enumeration order.
func (s eventTypeSet) members() []EventType {
	out := make([]EventType, 0, len(s))
	for _, t := range allEventTypes {
		if s.has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Classification sets. Built once at package init and never mutated.
var (
	stepEvents = newEventTypeSet(
		EventTypeStepStart,
		EventTypeStepOutput,
		EventTypeStepFailure,
		EventTypeStepSuccess,
		EventTypeStepSkipped,
		EventTypeStepMaterialization,
	)

	failureEvents = newEventTypeSet(
		EventTypePipelineInitFailure,
		EventTypePipelineFailure,
		EventTypeStepFailure,
	)
)

// AllEventTypes returns every event type in declaration order.
func AllEventTypes() []EventType {
	out := make([]EventType, len(allEventTypes))
	copy(out, allEventTypes)
	return out
}

// StepEvents returns the event types scoped to a single step.
func StepEvents() []EventType {
	return stepEvents.members()
}

// FailureEvents returns the event types that record a failure.
func FailureEvents() []EventType {
	return failureEvents.members()
}

// Valid reports whether t belongs to the enumeration.
func (t EventType) Valid() bool {
	for _, known := range allEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsStepEvent reports whether t is in the step event set.
func (t EventType) IsStepEvent() bool {
	return stepEvents.has(t)
}

// IsFailure reports whether t is in the failure event set.
func (t EventType) IsFailure() bool {
	return failureEvents.has(t)
}

// String returns the wire value of the event type.
func (t EventType) String() string {
	return string(t)
}

// ParseEventType converts a wire value into an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
	return t, nil
}
