package pipetrack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// testLogHandler captures log records for testing.
type testLogHandler struct {
	mu    *sync.Mutex
	buf   *bytes.Buffer
	attrs []slog.Attr
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{mu: &sync.Mutex{}, buf: &bytes.Buffer{}}
}

func (h *testLogHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		data[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *testLogHandler) WithGroup(_ string) slog.Handler { return h }

func (h *testLogHandler) records(t *testing.T) []map[string]any {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()

	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		records = append(records, m)
	}
	return records
}

// eventRecords returns only the records written by event construction.
func (h *testLogHandler) eventRecords(t *testing.T) []map[string]any {
	var out []map[string]any
	for _, r := range h.records(t) {
		if _, ok := r[events.LogKeyEvent]; ok {
			out = append(out, r)
		}
	}
	return out
}

func transformStep(key string) pipetrack.Step {
	return pipetrack.Step{
		Key:   key,
		Solid: pipetrack.Solid{Name: key, DefinitionName: key + "_def"},
		Kind:  events.StepKindTransform,
	}
}

func constant(value any) pipetrack.ComputeFunc {
	return func(_ *pipetrack.StepContext) (pipetrack.StepResult, error) {
		return pipetrack.StepResult{Outputs: []pipetrack.Output{{Value: value}}}, nil
	}
}

func failing(err error) pipetrack.ComputeFunc {
	return func(_ *pipetrack.StepContext) (pipetrack.StepResult, error) {
		return pipetrack.StepResult{}, err
	}
}

func typesOf(evts []events.Event) []events.EventType {
	out := make([]events.EventType, len(evts))
	for i, e := range evts {
		out[i] = e.EventType()
	}
	return out
}
