package pipetrack_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/eventlog"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

func TestNewPipelineContext_Defaults(t *testing.T) {
	//nolint:staticcheck // nil context is accepted and replaced
	pc := pipetrack.NewPipelineContext(nil, "etl")

	assert.Equal(t, "etl", pc.PipelineName())
	assert.NotNil(t, pc.Context)
	assert.Equal(t, slog.Default(), pc.Logger())
	assert.Nil(t, pc.EventStore())
	assert.Equal(t, 0, pc.Tags().Len())

	_, err := uuid.Parse(pc.RunID())
	assert.NoError(t, err, "run ID defaults to a UUID")

	other := pipetrack.NewPipelineContext(context.Background(), "etl")
	assert.NotEqual(t, pc.RunID(), other.RunID())
}

func TestNewPipelineContext_Options(t *testing.T) {
	h := newTestLogHandler()
	logger := slog.New(h)
	store := eventlog.NewMemoryStore()
	tags := events.NewTags("team", "data")

	pc := pipetrack.NewPipelineContext(context.Background(), "etl",
		pipetrack.WithLogger(logger),
		pipetrack.WithRunID("run-42"),
		pipetrack.WithTags(tags),
		pipetrack.WithEventStore(store),
	)

	assert.Equal(t, "run-42", pc.RunID())
	assert.Same(t, logger, pc.Logger())
	assert.Same(t, store, pc.EventStore())
	assert.True(t, tags.Equal(pc.Tags()))
	assert.Equal(t, logger, pc.Log())

	// Empty values keep the defaults.
	pc = pipetrack.NewPipelineContext(context.Background(), "etl",
		pipetrack.WithRunID(""), pipetrack.WithLogger(nil))
	assert.NotEmpty(t, pc.RunID())
	assert.NotNil(t, pc.Logger())
}

func TestForStep(t *testing.T) {
	h := newTestLogHandler()
	pc := pipetrack.NewPipelineContext(context.Background(), "etl",
		pipetrack.WithLogger(slog.New(h)),
		pipetrack.WithRunID("run-1"),
		pipetrack.WithTags(events.NewTags("team", "data", "env", "dev")),
	)

	step := transformStep("load")
	step.Tags = events.NewTags("env", "prod", "owner", "alice")

	sc := pc.ForStep(step)
	assert.Equal(t, "etl", sc.PipelineName())
	assert.Equal(t, "run-1", sc.RunID())
	assert.Equal(t, "load", sc.StepKey())
	assert.Equal(t, "load", sc.SolidName())
	assert.Equal(t, "load_def", sc.SolidDefinitionName())
	assert.Equal(t, events.StepKindTransform, sc.StepKind())
	assert.Equal(t, 1, sc.Attempt())
	assert.Same(t, pc, sc.Pipeline())

	assert.Equal(t, []string{"team", "env", "owner"}, sc.Tags().Keys())
	env, _ := sc.Tags().Get("env")
	assert.Equal(t, "prod", env)

	events.StepStart(sc)

	records := h.eventRecords(t)
	require.Len(t, records, 1)
	assert.Equal(t, "STEP_START for step load", records[0]["msg"])
	assert.Equal(t, "run-1", records[0]["run_id"])
	assert.Equal(t, "load", records[0]["step_key"])
	assert.Equal(t, "etl", records[0]["pipeline_name"])
}

func TestContextsSatisfyEventContracts(t *testing.T) {
	pc := pipetrack.NewPipelineContext(context.Background(), "etl", pipetrack.WithLogger(slog.New(newTestLogHandler())))

	var _ events.PipelineContext = pc
	var _ events.StepContext = pc.ForStep(transformStep("s"))

	evt := events.PipelineStart(pc)
	assert.Equal(t, "etl", evt.PipelineName())
	assert.False(t, evt.IsStepScoped())
}
