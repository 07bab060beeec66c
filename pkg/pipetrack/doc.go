/*
Package pipetrack tracks the execution of data pipelines as a stream of
immutable events.

# Overview

Every lifecycle transition of a run, from process launch through each
step's start, outputs, materializations and outcome to the run's final
success or failure, is recorded as an events.Event. Events are written to
a structured logger when they are built and can be appended to an
eventlog.Store so a run stays queryable after it finishes.

The core lives in subpackages:
  - events: the event model, constructors, wire codec and query helpers
  - eventlog: append-only run storage (memory and SQLite)
  - query: run status, outputs and failures derived from stored events
  - observability: slog logging, OpenTelemetry metrics and tracing
  - config: YAML/JSON settings
  - errors: error categories, retry and serializable error info

This package provides concrete contexts and a reference executor.

# Basic Usage

Describe the plan, then execute it within a pipeline context:

	plan := pipetrack.Plan{Steps: []pipetrack.PlanStep{
	    {
	        Step: pipetrack.Step{
	            Key:   "extract.transform",
	            Solid: pipetrack.Solid{Name: "extract", DefinitionName: "read_csv"},
	            Kind:  events.StepKindTransform,
	        },
	        Compute: func(sc *pipetrack.StepContext) (pipetrack.StepResult, error) {
	            rows, err := readRows(sc)
	            if err != nil {
	                return pipetrack.StepResult{}, err
	            }
	            return pipetrack.StepResult{
	                Outputs: []pipetrack.Output{{Value: len(rows)}},
	            }, nil
	        },
	    },
	}}

	pc := pipetrack.NewPipelineContext(ctx, "nightly_etl",
	    pipetrack.WithLogger(logger),
	    pipetrack.WithEventStore(store))

	result, err := pipetrack.Execute(pc, plan)

# Failure Handling

A step fails when its compute function returns an error or panics. The
failure is recorded as STEP_FAILURE with the error's serializable info and
category, and steps that depend on it are recorded as STEP_SKIPPED.
Transient errors (see errors.Transient) are retried per WithRetry or the
step's own RetryConfig. Cancelling the context stops scheduling further
steps and fails the run.

# Observability

WithMetrics counts every event and records step and run latency through
OpenTelemetry. WithSpanManager opens a span per run and per step and
attaches each event to the active span.
*/
package pipetrack
