package events

import "fmt"

// FromStep builds a step-scoped event from sc, writes it to sc.Log(), and
// returns it. The log write has error severity when t is a failure type.
//
// Panics with a *ContractError if data is not the payload t requires or if
// sc is missing its pipeline name or step key.
func FromStep(t EventType, sc StepContext, data SpecificData) Event {
	const op = "FromStep"
	if sc == nil {
		panic(contractErrorf(op, t, ErrInvalidContext, "step context is nil"))
	}
	evt, err := newEvent(op, t, sc.PipelineName(), &StepIdentity{
		StepKey:             sc.StepKey(),
		SolidName:           sc.SolidName(),
		SolidDefinitionName: sc.SolidDefinitionName(),
		StepKindValue:       string(sc.StepKind()),
	}, sc.Tags(), data)
	mustNotFail(err)

	logEvent(sc.Log(), evt, fmt.Sprintf("%s for step %s", t, evt.StepKey()))
	return evt
}

// FromPipeline builds a pipeline-scoped event from pc, writes it to
// pc.Log(), and returns it.
//
// Panics with a *ContractError if t requires a payload or if pc has no
// pipeline name.
func FromPipeline(t EventType, pc PipelineContext) Event {
	return fromPipeline("FromPipeline", t, pc, nil)
}

func fromPipeline(op string, t EventType, pc PipelineContext, data SpecificData) Event {
	if pc == nil {
		panic(contractErrorf(op, t, ErrInvalidContext, "pipeline context is nil"))
	}
	evt, err := newEvent(op, t, pc.PipelineName(), nil, Tags{}, data)
	mustNotFail(err)

	logEvent(pc.Log(), evt, fmt.Sprintf("%s for pipeline %s", t, evt.PipelineName()))
	return evt
}

// PipelineInitFailure records that the pipeline context itself could not be
// built. It takes the pipeline name and sink directly because no context
// exists yet, and always logs at error severity.
func PipelineInitFailure(pipelineName string, data PipelineInitFailureData, log LogSink) Event {
	const op = "PipelineInitFailure"
	if log == nil {
		panic(contractErrorf(op, EventTypePipelineInitFailure, ErrInvalidContext, "log sink is nil"))
	}
	evt, err := newEvent(op, EventTypePipelineInitFailure, pipelineName, nil, Tags{}, data)
	mustNotFail(err)

	log.Error(fmt.Sprintf("%s for pipeline %s", EventTypePipelineInitFailure, pipelineName),
		LogKeyEvent, evt,
		LogKeyPipelineName, pipelineName,
	)
	return evt
}

func logEvent(log LogSink, evt Event, msg string) {
	if log == nil {
		panic(contractErrorf("log", evt.eventType, ErrInvalidContext, "log sink is nil"))
	}
	if evt.IsFailure() {
		log.Error(msg, LogKeyEvent, evt, LogKeyPipelineName, evt.pipelineName)
		return
	}
	log.Info(msg, LogKeyEvent, evt, LogKeyPipelineName, evt.pipelineName)
}

// StepStart records that a step began executing.
func StepStart(sc StepContext) Event {
	return FromStep(EventTypeStepStart, sc, nil)
}

// StepOutput records a value produced by a step.
func StepOutput(sc StepContext, data StepOutputData) Event {
	return FromStep(EventTypeStepOutput, sc, data)
}

// StepSuccess records that a step completed successfully.
func StepSuccess(sc StepContext, data StepSuccessData) Event {
	return FromStep(EventTypeStepSuccess, sc, data)
}

// StepFailure records that a step failed.
func StepFailure(sc StepContext, data StepFailureData) Event {
	return FromStep(EventTypeStepFailure, sc, data)
}

// StepSkipped records that a step was not executed.
func StepSkipped(sc StepContext) Event {
	return FromStep(EventTypeStepSkipped, sc, nil)
}

// StepMaterialization records that a step persisted an artifact at path
// under the logical name. Panics if name or path is empty.
func StepMaterialization(sc StepContext, name, path string) Event {
	return FromStep(EventTypeStepMaterialization, sc, StepMaterializationData{Name: name, Path: path})
}

// PipelineStart records that a pipeline run began.
func PipelineStart(pc PipelineContext) Event {
	return FromPipeline(EventTypePipelineStart, pc)
}

// PipelineSuccess records that a pipeline run succeeded.
func PipelineSuccess(pc PipelineContext) Event {
	return FromPipeline(EventTypePipelineSuccess, pc)
}

// PipelineFailure records that a pipeline run failed.
func PipelineFailure(pc PipelineContext) Event {
	return FromPipeline(EventTypePipelineFailure, pc)
}

// PipelineProcessStart records that an out-of-process launch was requested.
func PipelineProcessStart(pc PipelineContext) Event {
	return FromPipeline(EventTypePipelineProcessStart, pc)
}

// PipelineProcessStarted records the process that is running the pipeline.
func PipelineProcessStarted(pc PipelineContext, processID int) Event {
	return fromPipeline("PipelineProcessStarted", EventTypePipelineProcessStarted, pc,
		PipelineProcessStartedData{ProcessID: processID})
}
