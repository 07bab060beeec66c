package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

type benchStep struct {
	log events.LogSink
}

func (s benchStep) PipelineName() string        { return "bench" }
func (s benchStep) Log() events.LogSink         { return s.log }
func (s benchStep) StepKey() string             { return "load.transform" }
func (s benchStep) SolidName() string           { return "load" }
func (s benchStep) SolidDefinitionName() string { return "load_csv" }
func (s benchStep) StepKind() events.StepKind   { return events.StepKindTransform }
func (s benchStep) Tags() events.Tags           { return events.NewTags("team", "data") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// BenchmarkFromStep_Output measures construction plus one JSON log write.
func BenchmarkFromStep_Output(b *testing.B) {
	sc := benchStep{log: discardLogger()}
	data := events.StepOutputData{OutputName: "result", ValueRepr: "42"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = events.StepOutput(sc, data)
	}
}

// BenchmarkEvent_MarshalJSON measures encoding a step output event.
func BenchmarkEvent_MarshalJSON(b *testing.B) {
	evt := events.StepOutput(benchStep{log: discardLogger()}, events.StepOutputData{OutputName: "result", ValueRepr: "42"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(evt)
	}
}

// BenchmarkEvent_UnmarshalJSON measures decoding and revalidating an event.
func BenchmarkEvent_UnmarshalJSON(b *testing.B) {
	evt := events.StepOutput(benchStep{log: discardLogger()}, events.StepOutputData{OutputName: "result", ValueRepr: "42"})
	data, _ := json.Marshal(evt)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out events.Event
		_ = json.Unmarshal(data, &out)
	}
}

// BenchmarkFindStepOutputEvent_1000 searches a long run for the last output.
func BenchmarkFindStepOutputEvent_1000(b *testing.B) {
	log := discardLogger()
	run := make([]events.Event, 0, 1000)
	for i := 0; i < 1000; i++ {
		run = append(run, events.StepOutput(benchStep{log: log}, events.StepOutputData{OutputName: fmt.Sprintf("out_%d", i)}))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = events.FindStepOutputEvent(run, "load.transform", "out_999")
	}
}
