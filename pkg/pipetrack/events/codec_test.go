package events_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

func roundTrip(t *testing.T, evt events.Event) events.Event {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestJSON_RoundTripEveryType(t *testing.T) {
	for et, data := range validPayloads() {
		t.Run(string(et)+"/step", func(t *testing.T) {
			evt, err := events.New(et, "p", &events.StepIdentity{
				StepKey:             "s1",
				SolidName:           "solid",
				SolidDefinitionName: "solid_def",
				StepKindValue:       "TRANSFORM",
			}, events.NewTags("b", "2", "a", "1"), data)
			require.NoError(t, err)

			decoded := roundTrip(t, evt)
			assert.True(t, evt.Equal(decoded), "decoded %s differs", decoded)
			if diff := cmp.Diff(evt.SpecificData(), decoded.SpecificData()); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run(string(et)+"/pipeline", func(t *testing.T) {
			evt, err := events.New(et, "p", nil, events.Tags{}, data)
			require.NoError(t, err)

			decoded := roundTrip(t, evt)
			assert.True(t, evt.Equal(decoded))
			assert.False(t, decoded.IsStepScoped())
		})
	}
}

func TestJSON_AbsentFieldsStayAbsent(t *testing.T) {
	evt := events.PipelineStart(newFakePipeline("etl"))

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	want := map[string]any{
		"event_type_value": "PIPELINE_START",
		"pipeline_name":    "etl",
		"tags":             map[string]any{},
	}
	if diff := cmp.Diff(want, wire); diff != "" {
		t.Errorf("wire mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_TagOrderPreserved(t *testing.T) {
	sc := newFakeStep("s1")
	sc.tags = events.NewTags("zeta", "1", "alpha", "2", "mid", "3")

	decoded := roundTrip(t, events.StepStart(sc))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, decoded.Tags().Keys())
}

func TestJSON_DecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{
			"unknown type",
			`{"event_type_value":"STEP_EXPLODED","pipeline_name":"p","tags":{}}`,
			events.ErrUnknownEventType,
		},
		{
			"partial step fields",
			`{"event_type_value":"STEP_START","pipeline_name":"p","step_key":"s1","tags":{}}`,
			events.ErrInvalidContext,
		},
		{
			"payload on start",
			`{"event_type_value":"STEP_START","pipeline_name":"p","tags":{},"event_specific_data":{"output_name":"x"}}`,
			events.ErrTypeMismatch,
		},
		{
			"missing required payload",
			`{"event_type_value":"STEP_OUTPUT","pipeline_name":"p","tags":{}}`,
			events.ErrTypeMismatch,
		},
		{
			"invalid materialization",
			`{"event_type_value":"STEP_MATERIALIZATION","pipeline_name":"p","tags":{},"event_specific_data":{"name":"t","path":""}}`,
			events.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var evt events.Event
			err := json.Unmarshal([]byte(tt.input), &evt)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestJSON_SurvivesSlogJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	sc := newFakeStep("transform")
	evt := events.StepMaterialization(sc, "my_table", "/data/my_table.parquet")
	logger.Info("recorded", events.LogKeyEvent, evt)

	var record struct {
		Msg   string       `json:"msg"`
		Event events.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "recorded", record.Msg)
	assert.True(t, evt.Equal(record.Event))
}
