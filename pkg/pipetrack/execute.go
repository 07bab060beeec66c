package pipetrack

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/observability"
)

// RunResult summarizes one execution of a plan.
type RunResult struct {
	// RunID identifies the run in the event store.
	RunID string
	// Success is true when every step succeeded.
	Success bool
	// Events holds every event of the run in emission order.
	Events []events.Event
	// FailedSteps and SkippedSteps list step keys in plan order.
	FailedSteps  []string
	SkippedSteps []string
}

type stepOutcome int

const (
	outcomeSucceeded stepOutcome = iota + 1
	outcomeFailed
	outcomeSkipped
)

// Execute runs plan within pc and returns the run's events.
//
// Execution flow:
//  1. Validate the plan and options; either failing yields PIPELINE_INIT_FAILURE
//  2. Emit PIPELINE_START
//  3. For each step in order, check for cancellation, skip it if a
//     dependency did not succeed, otherwise compute it with retries
//  4. Emit PIPELINE_SUCCESS or PIPELINE_FAILURE
//
// Every event is written to pc's logger, appended to pc's event store when
// one is configured, and attached to the active trace span.
//
// The returned error is nil only when the run succeeded. It is a
// *PlanError, the *StepError of the first failed step, or a
// *CancellationError; RunResult is populated in every case except a nil
// context or missing pipeline name.
func Execute(pc *PipelineContext, plan Plan, opts ...ExecuteOption) (result RunResult, runErr error) {
	if pc == nil {
		return RunResult{}, ErrNilContext
	}
	if pc.PipelineName() == "" {
		return RunResult{}, ErrEmptyPipelineName
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var metrics observability.MetricsRecorder
	if cfg.metricsEnabled {
		metrics = cfg.metrics
	}

	r := &runner{
		cfg:      cfg,
		outcomes: make(map[string]stepOutcome, len(plan.Steps)),
	}
	result.RunID = pc.RunID()
	defer func() { result.Events = r.events }()

	if err := validateRun(plan, cfg); err != nil {
		r.pc = pc.with(pc.Context, metrics)
		data := events.PipelineInitFailureData{Error: pterrors.FromError(err)}
		r.record(pc.Context, events.PipelineInitFailure(pc.PipelineName(), data, r.pc.Log()))
		return result, err
	}

	startTime := time.Now()
	observability.LogRunStart(pc.Logger(), pc.PipelineName(), pc.RunID())

	runCtx, runSpan := cfg.spans.StartRunSpan(pc.Context, pc.PipelineName(), pc.RunID())
	defer func() {
		cfg.spans.EndSpanWithError(runSpan, runErr)
	}()
	r.pc = pc.with(runCtx, metrics)

	if cfg.processEvents {
		r.record(runCtx, events.PipelineProcessStart(r.pc))
		r.record(runCtx, events.PipelineProcessStarted(r.pc, cfg.processID))
	}
	r.record(runCtx, events.PipelineStart(r.pc))

	for _, ps := range plan.Steps {
		if err := runCtx.Err(); err != nil {
			if runErr == nil {
				runErr = &CancellationError{StepKey: ps.Key, Cause: err}
			}
			break
		}

		outcome, err := r.runStep(runCtx, ps)
		switch outcome {
		case outcomeFailed:
			result.FailedSteps = append(result.FailedSteps, ps.Key)
			if runErr == nil {
				runErr = err
			}
		case outcomeSkipped:
			result.SkippedSteps = append(result.SkippedSteps, ps.Key)
		}
	}

	result.Success = runErr == nil
	duration := time.Since(startTime)
	cfg.metrics.RecordRun(runCtx, pc.PipelineName(), result.Success, duration)

	if result.Success {
		r.record(runCtx, events.PipelineSuccess(r.pc))
		observability.LogRunComplete(pc.Logger(), pc.RunID(), float64(duration.Milliseconds()), len(plan.Steps))
	} else {
		r.record(runCtx, events.PipelineFailure(r.pc))
		observability.LogRunError(pc.Logger(), pc.RunID(), float64(duration.Milliseconds()), result.FailedSteps)
	}

	return result, runErr
}

func validateRun(plan Plan, cfg runConfig) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if cfg.processEvents && cfg.processID <= 0 {
		return &PlanError{Err: fmt.Errorf("%w: got %d", ErrInvalidProcessID, cfg.processID)}
	}
	return nil
}

// runner carries the per-run state of Execute. Steps run sequentially, so
// it needs no locking.
type runner struct {
	pc       *PipelineContext
	cfg      runConfig
	events   []events.Event
	outcomes map[string]stepOutcome
}

// record keeps evt and appends it to the event store. Store failures are
// logged and do not fail the run.
func (r *runner) record(ctx context.Context, evt events.Event) {
	r.events = append(r.events, evt)
	r.cfg.spans.AddEventToSpan(ctx, evt)

	if store := r.pc.EventStore(); store != nil {
		if _, err := store.Append(r.pc.RunID(), evt); err != nil {
			observability.LogStoreError(r.pc.Logger(), r.pc.RunID(), "append", err)
		}
	}
}

func (r *runner) runStep(ctx context.Context, ps PlanStep) (stepOutcome, error) {
	stepCtx, span := r.cfg.spans.StartStepSpan(ctx, ps.Key)
	sc := r.pc.ForStep(ps.Step).withContext(stepCtx)

	for _, dep := range ps.DependsOn {
		if r.outcomes[dep] != outcomeSucceeded {
			r.record(stepCtx, events.StepSkipped(sc))
			r.outcomes[ps.Key] = outcomeSkipped
			r.cfg.spans.EndSpanWithError(span, nil)
			return outcomeSkipped, nil
		}
	}

	r.record(stepCtx, events.StepStart(sc))
	start := time.Now()

	retryCfg := r.cfg.retry
	if ps.Retry != nil {
		retryCfg = *ps.Retry
	}

	res := pterrors.WithRetryContext(stepCtx, retryCfg, func(_ context.Context, attempt int) (StepResult, error) {
		if attempt > 1 {
			sc.attempt = attempt
		}
		out, err := compute(sc, ps.Compute)
		if err == nil {
			err = out.validate()
		}
		if err != nil && attempt < retryCfg.MaxAttempts && pterrors.IsRetryable(err) {
			observability.LogStepRetry(sc.Logger(), ps.Key, attempt+1, err)
		}
		return out, err
	})
	duration := time.Since(start)
	r.cfg.metrics.RecordStep(stepCtx, ps.Key, duration, res.Err)

	if res.Err != nil {
		r.record(stepCtx, events.StepFailure(sc, failureData(ps.Key, res.Err)))
		r.outcomes[ps.Key] = outcomeFailed
		r.cfg.spans.EndSpanWithError(span, res.Err)
		return outcomeFailed, &StepError{StepKey: ps.Key, Attempts: res.Attempts, Err: res.Err}
	}

	for _, out := range res.Value.Outputs {
		r.record(stepCtx, events.StepOutput(sc, out.data()))
	}
	for _, m := range res.Value.Materializations {
		r.record(stepCtx, events.StepMaterialization(sc, m.Name, m.Path))
	}
	r.record(stepCtx, events.StepSuccess(sc, events.StepSuccessData{
		DurationMs: float64(duration.Microseconds()) / 1000,
	}))
	r.outcomes[ps.Key] = outcomeSucceeded
	r.cfg.spans.EndSpanWithError(span, nil)
	return outcomeSucceeded, nil
}

// compute runs fn with panic recovery.
func compute(sc *StepContext, fn ComputeFunc) (result StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				StepKey: sc.StepKey(),
				Value:   r,
				Stack:   debug.Stack(),
			}
		}
	}()
	return fn(sc)
}

// failureData describes the final error of a step. Errors raised by the
// compute function count as user code unless already categorized.
func failureData(stepKey string, err error) events.StepFailureData {
	category := pterrors.Categorize(&pterrors.UserCodeError{StepKey: stepKey, Err: err})

	if p, ok := err.(*PanicError); ok {
		return events.StepFailureData{
			Error:    pterrors.FromPanic(p.Value, p.Stack),
			Category: category,
		}
	}
	return events.StepFailureData{
		Error:    pterrors.FromError(err),
		Category: category,
	}
}
