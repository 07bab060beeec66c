// Package events defines the immutable event records that describe the
// lifecycle of a pipeline run and its steps.
//
// # Overview
//
// Every observable fact about a run is an Event: a step starting,
// producing an output, materializing an artifact, succeeding, failing or
// being skipped, and the pipeline starting, succeeding, failing, failing to
// initialize, or being launched in another process.
//
// An Event carries its EventType, the pipeline name, and for step-scoped
// events the step key, solid name, solid definition name and step kind.
// Types that need a payload carry one SpecificData variant:
//
//	EventTypeStepOutput             StepOutputData
//	EventTypeStepFailure            StepFailureData
//	EventTypeStepSuccess            StepSuccessData
//	EventTypeStepMaterialization    StepMaterializationData
//	EventTypePipelineProcessStarted PipelineProcessStartedData
//	EventTypePipelineInitFailure    PipelineInitFailureData (optional)
//
// # Construction
//
// Events are built from the execution context that is current when the
// transition happens, so step identity can never drift from the context:
//
//	evt := events.StepMaterialization(stepCtx, "my_table", "/data/my_table.parquet")
//	evt.IsStepEvent()               // true
//	evt.StepMaterializationData()   // {my_table /data/my_table.parquet}
//
// Each constructor performs exactly one synchronous write to the context's
// LogSink, at error level for failure types and info level otherwise.
//
// A mismatched type and payload, or a typed accessor called on the wrong
// type, is a bug in the calling engine. Those calls panic with a
// *ContractError instead of returning an error.
//
// # Failure Before Context
//
// PipelineInitFailure is a separate entry point for the case where the
// pipeline context itself could not be built: it takes the pipeline name
// and a LogSink directly.
//
// # Serialization
//
// Event implements json.Marshaler and json.Unmarshaler. Decoding restores
// the payload variant from the event type and leaves absent step fields
// absent, so events round-trip through slog's JSON handler and the
// eventlog stores unchanged.
package events
