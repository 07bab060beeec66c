package events_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// logEntry is one write captured by recordingSink.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// field returns the value logged under key.
func (e logEntry) field(key string) (any, bool) {
	for i := 0; i+1 < len(e.args); i += 2 {
		if e.args[i] == key {
			return e.args[i+1], true
		}
	}
	return nil, false
}

// recordingSink captures log writes for assertions.
type recordingSink struct {
	mu      sync.Mutex
	entries []logEntry
}

func (s *recordingSink) Info(msg string, args ...any) { s.record("info", msg, args) }
func (s *recordingSink) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *recordingSink) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, logEntry{level: level, msg: msg, args: args})
}

func (s *recordingSink) all() []logEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// fakeStep is a minimal StepContext.
type fakeStep struct {
	pipeline string
	key      string
	solid    string
	def      string
	kind     events.StepKind
	tags     events.Tags
	sink     *recordingSink
}

func newFakeStep(key string) *fakeStep {
	return &fakeStep{
		pipeline: "my_pipeline",
		key:      key,
		solid:    key + "_solid",
		def:      key + "_def",
		kind:     events.StepKindTransform,
		tags:     events.NewTags("owner", "data-eng"),
		sink:     &recordingSink{},
	}
}

func (s *fakeStep) PipelineName() string { return s.pipeline }
func (s *fakeStep) Log() events.LogSink { return s.sink }
func (s *fakeStep) StepKey() string { return s.key }
func (s *fakeStep) SolidName() string { return s.solid }
func (s *fakeStep) SolidDefinitionName() string { return s.def }
func (s *fakeStep) StepKind() events.StepKind { return s.kind }
func (s *fakeStep) Tags() events.Tags { return s.tags }

// fakePipeline is a minimal PipelineContext.
type fakePipeline struct {
	name string
	sink *recordingSink
}

func newFakePipeline(name string) *fakePipeline {
	return &fakePipeline{name: name, sink: &recordingSink{}}
}

func (p *fakePipeline) PipelineName() string { return p.name }
func (p *fakePipeline) Log() events.LogSink { return p.sink }

// requireContractPanic asserts fn panics with a *ContractError wrapping sentinel.
func requireContractPanic(t *testing.T, sentinel error, fn func()) *events.ContractError {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	require.NotNil(t, recovered, "expected panic")

	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)

	var contractErr *events.ContractError
	require.True(t, errors.As(err, &contractErr), "panic value %T is not a *ContractError", recovered)
	require.ErrorIs(t, err, sentinel, fmt.Sprintf("got %v", err))
	return contractErr
}
