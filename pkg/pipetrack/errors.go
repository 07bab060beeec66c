package pipetrack

import (
	"errors"
	"fmt"
)

// Sentinel errors for plan validation.
var (
	// ErrEmptyStepKey indicates a plan step without a key.
	ErrEmptyStepKey = errors.New("step key is required")

	// ErrDuplicateStep indicates two plan steps share a key.
	ErrDuplicateStep = errors.New("duplicate step key")

	// ErrUnknownDependency indicates a dependency that is not an earlier step of the plan.
	ErrUnknownDependency = errors.New("dependency is not an earlier step")

	// ErrNilCompute indicates a plan step without a compute function.
	ErrNilCompute = errors.New("compute function is required")

	// ErrInvalidStepKind indicates a step kind outside the known set.
	ErrInvalidStepKind = errors.New("invalid step kind")

	// ErrInvalidProcessID indicates WithProcessEvents was given a non-positive process ID.
	ErrInvalidProcessID = errors.New("process id must be positive")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Execute was called with a nil pipeline context.
	ErrNilContext = errors.New("pipeline context cannot be nil")

	// ErrEmptyPipelineName indicates a pipeline context without a name.
	ErrEmptyPipelineName = errors.New("pipeline name is required")

	// ErrInvalidStepResult indicates a compute function returned an unusable result.
	ErrInvalidStepResult = errors.New("invalid step result")
)

// PlanError reports why a plan was rejected before any step ran.
type PlanError struct {
	// StepKey is the offending step, if any.
	StepKey string
	// Err is the underlying validation error.
	Err error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.StepKey == "" {
		return fmt.Sprintf("invalid plan: %v", e.Err)
	}
	return fmt.Sprintf("invalid plan at step %s: %v", e.StepKey, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// StepError wraps the final error of a failed step.
type StepError struct {
	// StepKey is the step that failed.
	StepKey string
	// Attempts is the number of compute attempts made.
	Attempts int
	// Err is the error of the last attempt.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed after %d attempt(s): %v", e.StepKey, e.Attempts, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StepError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a compute function.
type PanicError struct {
	// StepKey is the step whose compute panicked.
	StepKey string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("step %s panicked: %v", e.StepKey, e.Value)
}

// CancellationError reports that a run stopped because its context ended.
type CancellationError struct {
	// StepKey is the first step that was not scheduled.
	StepKey string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before step %s: %v", e.StepKey, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
