package events

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireEvent is the JSON shape of an Event.
type wireEvent struct {
	EventTypeValue      EventType       `json:"event_type_value"`
	PipelineName        string          `json:"pipeline_name"`
	StepKey             *string         `json:"step_key,omitempty"`
	SolidName           *string         `json:"solid_name,omitempty"`
	SolidDefinitionName *string         `json:"solid_definition_name,omitempty"`
	StepKindValue       *string         `json:"step_kind_value,omitempty"`
	Tags                Tags            `json:"tags"`
	EventSpecificData   json.RawMessage `json:"event_specific_data,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		EventTypeValue: e.eventType,
		PipelineName:   e.pipelineName,
		Tags:           e.tags,
	}
	if e.step != nil {
		s := *e.step
		w.StepKey = &s.StepKey
		w.SolidName = &s.SolidName
		w.SolidDefinitionName = &s.SolidDefinitionName
		w.StepKindValue = &s.StepKindValue
	}
	if e.data != nil {
		raw, err := json.Marshal(e.data)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", e.eventType, err)
		}
		w.EventSpecificData = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The payload is decoded into
// the variant owned by event_type_value and the result is validated the
// same way New validates.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if !w.EventTypeValue.Valid() {
		return fmt.Errorf("decode event: %w: %q", ErrUnknownEventType, w.EventTypeValue)
	}

	step, err := decodeStep(w)
	if err != nil {
		return err
	}

	payload, err := decodeSpecificData(w.EventTypeValue, w.EventSpecificData)
	if err != nil {
		return err
	}

	evt, err := newEvent("UnmarshalJSON", w.EventTypeValue, w.PipelineName, step, w.Tags, payload)
	if err != nil {
		return err
	}
	*e = evt
	return nil
}

func decodeStep(w wireEvent) (*StepIdentity, error) {
	fields := []*string{w.StepKey, w.SolidName, w.SolidDefinitionName, w.StepKindValue}
	present := 0
	for _, f := range fields {
		if f != nil {
			present++
		}
	}
	switch present {
	case 0:
		return nil, nil
	case len(fields):
		return &StepIdentity{
			StepKey:             *w.StepKey,
			SolidName:           *w.SolidName,
			SolidDefinitionName: *w.SolidDefinitionName,
			StepKindValue:       *w.StepKindValue,
		}, nil
	default:
		return nil, contractErrorf("UnmarshalJSON", w.EventTypeValue, ErrInvalidContext,
			"step-scoped fields must be present together, got %d of %d", present, len(fields))
	}
}

func decodeSpecificData(t EventType, raw json.RawMessage) (SpecificData, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var (
		data SpecificData
		err  error
	)
	switch t {
	case EventTypeStepOutput:
		data, err = decodeVariant[StepOutputData](raw)
	case EventTypeStepSuccess:
		data, err = decodeVariant[StepSuccessData](raw)
	case EventTypeStepFailure:
		data, err = decodeVariant[StepFailureData](raw)
	case EventTypeStepMaterialization:
		data, err = decodeVariant[StepMaterializationData](raw)
	case EventTypePipelineInitFailure:
		data, err = decodeVariant[PipelineInitFailureData](raw)
	case EventTypePipelineProcessStarted:
		data, err = decodeVariant[PipelineProcessStartedData](raw)
	default:
		return nil, contractErrorf("UnmarshalJSON", t, ErrTypeMismatch, "event type carries no payload")
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return data, nil
}

func decodeVariant[T SpecificData](raw json.RawMessage) (SpecificData, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
