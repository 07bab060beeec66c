package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// Built-in query names.
const (
	QueryStatus           = "status"           // Returns the run status
	QueryCurrentStep      = "current_step"     // Returns the executing step key
	QueryStepStatus       = "step_status"      // Returns one step's status (args: step key)
	QueryStepOutput       = "step_output"      // Returns a step output (args: OutputRef or step key)
	QueryMaterializations = "materializations" // Returns all materializations
	QueryFailures         = "failures"         // Returns all failure events
	QueryState            = "state"            // Returns full state
)

// OutputRef names one output of one step. An empty OutputName means
// events.DefaultOutputName.
type OutputRef struct {
	StepKey    string `json:"step_key"`
	OutputName string `json:"output_name,omitempty"`
}

// RegisterBuiltins registers the standard query handlers.
// The loader is used to retrieve the run's events for every query.
func RegisterBuiltins(registry *Registry, loader EventLoader) error {
	if loader == nil {
		return errors.New("event loader is required")
	}

	load := func(ctx context.Context, runID string) ([]events.Event, error) {
		evts, err := loader(ctx, runID)
		if err != nil {
			return nil, err
		}
		if len(evts) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, runID)
		}
		return evts, nil
	}

	withState := func(fn func(state *State, args any) (any, error)) Handler {
		return func(ctx context.Context, runID string, args any) (any, error) {
			evts, err := load(ctx, runID)
			if err != nil {
				return nil, err
			}
			return fn(BuildState(runID, evts), args)
		}
	}

	builtins := map[string]Handler{
		QueryStatus: withState(func(state *State, _ any) (any, error) {
			return state.Status, nil
		}),
		QueryCurrentStep: withState(func(state *State, _ any) (any, error) {
			return state.CurrentStep, nil
		}),
		QueryStepStatus: withState(func(state *State, args any) (any, error) {
			stepKey, ok := args.(string)
			if !ok || stepKey == "" {
				return nil, errors.New("step_status requires a step key argument")
			}
			status, exists := state.Steps[stepKey]
			if !exists {
				return nil, fmt.Errorf("step %q not found", stepKey)
			}
			return status, nil
		}),
		QueryStepOutput: func(ctx context.Context, runID string, args any) (any, error) {
			ref, err := outputRefFrom(args)
			if err != nil {
				return nil, err
			}
			evts, err := load(ctx, runID)
			if err != nil {
				return nil, err
			}
			evt, found := events.FindStepOutputEvent(evts, ref.StepKey, ref.OutputName)
			if !found {
				return nil, fmt.Errorf("output %q of step %q not found", outputName(ref), ref.StepKey)
			}
			return evt.StepOutputData(), nil
		},
		QueryMaterializations: withState(func(state *State, _ any) (any, error) {
			return state.Materializations, nil
		}),
		QueryFailures: func(ctx context.Context, runID string, _ any) (any, error) {
			evts, err := load(ctx, runID)
			if err != nil {
				return nil, err
			}
			return events.Failures(evts), nil
		},
		QueryState: withState(func(state *State, _ any) (any, error) {
			return state, nil
		}),
	}

	for name, handler := range builtins {
		if err := registry.Register(name, handler); err != nil {
			return fmt.Errorf("failed to register builtin query %q: %w", name, err)
		}
	}

	return nil
}

func outputRefFrom(args any) (OutputRef, error) {
	switch v := args.(type) {
	case OutputRef:
		if v.StepKey != "" {
			return v, nil
		}
	case *OutputRef:
		if v != nil && v.StepKey != "" {
			return *v, nil
		}
	case string:
		if v != "" {
			return OutputRef{StepKey: v}, nil
		}
	}
	return OutputRef{}, errors.New("step_output requires a step key or OutputRef argument")
}

func outputName(ref OutputRef) string {
	if ref.OutputName == "" {
		return events.DefaultOutputName
	}
	return ref.OutputName
}
