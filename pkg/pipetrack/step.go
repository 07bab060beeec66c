package pipetrack

import (
	"fmt"

	pterrors "github.com/randalmurphal/pipetrack/pkg/pipetrack/errors"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// Solid identifies the unit of computation a step belongs to.
type Solid struct {
	// Name is the name of the solid instance in the pipeline.
	Name string
	// DefinitionName is the name of the solid's definition.
	DefinitionName string
}

// Step is one node of an execution plan.
type Step struct {
	Key   string
	Solid Solid
	Kind  events.StepKind
	Tags  events.Tags
}

// Output is one value produced by a compute function.
type Output struct {
	// Name defaults to events.DefaultOutputName.
	Name             string
	Value            any
	IntermediatePath string
}

// Materialization is a durable artifact written by a compute function.
type Materialization struct {
	Name string
	Path string
}

// StepResult is what a compute function hands back on success.
type StepResult struct {
	Outputs          []Output
	Materializations []Materialization
}

// ComputeFunc runs the work of one step.
type ComputeFunc func(sc *StepContext) (StepResult, error)

// PlanStep couples a step with its compute function and dependencies.
type PlanStep struct {
	Step
	// DependsOn lists keys of earlier steps that must succeed first.
	DependsOn []string
	Compute   ComputeFunc
	// Retry overrides the run's retry policy for this step.
	Retry *pterrors.RetryConfig
}

// Plan is an ordered list of steps. Steps run in the order given.
type Plan struct {
	Steps []PlanStep
}

// Validate checks keys, kinds, compute functions and dependency order.
func (p Plan) Validate() error {
	seen := make(map[string]struct{}, len(p.Steps))
	for i, ps := range p.Steps {
		if ps.Key == "" {
			return &PlanError{Err: fmt.Errorf("step %d: %w", i, ErrEmptyStepKey)}
		}
		if _, dup := seen[ps.Key]; dup {
			return &PlanError{StepKey: ps.Key, Err: ErrDuplicateStep}
		}
		if !ps.Kind.Valid() {
			return &PlanError{StepKey: ps.Key, Err: fmt.Errorf("%w: %q", ErrInvalidStepKind, ps.Kind)}
		}
		if ps.Compute == nil {
			return &PlanError{StepKey: ps.Key, Err: ErrNilCompute}
		}
		for _, dep := range ps.DependsOn {
			if _, ok := seen[dep]; !ok {
				return &PlanError{StepKey: ps.Key, Err: fmt.Errorf("%w: %s", ErrUnknownDependency, dep)}
			}
		}
		seen[ps.Key] = struct{}{}
	}
	return nil
}

func (r StepResult) validate() error {
	for i, m := range r.Materializations {
		if m.Name == "" || m.Path == "" {
			return fmt.Errorf("%w: materialization %d needs a name and a path", ErrInvalidStepResult, i)
		}
	}
	return nil
}

func (o Output) data() events.StepOutputData {
	name := o.Name
	if name == "" {
		name = events.DefaultOutputName
	}
	var repr string
	if o.Value != nil {
		repr = fmt.Sprintf("%v", o.Value)
	}
	return events.StepOutputData{
		OutputName:       name,
		ValueRepr:        repr,
		IntermediatePath: o.IntermediatePath,
	}
}
