package errors

import "fmt"

// UserCodeError wraps an error returned or raised by a step's compute function.
type UserCodeError struct {
	StepKey string
	Err     error
}

// Error implements the error interface.
func (e *UserCodeError) Error() string {
	return fmt.Sprintf("error in user code for step %s: %v", e.StepKey, e.Err)
}

// Unwrap returns the original error.
func (e *UserCodeError) Unwrap() error {
	return e.Err
}

// ResourceInitError indicates a resource needed by the run could not be brought up.
type ResourceInitError struct {
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *ResourceInitError) Error() string {
	return fmt.Sprintf("initialize resource %s: %v", e.Resource, e.Err)
}

// Unwrap returns the original error.
func (e *ResourceInitError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates an operation timed out.
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s: %s", e.Duration, e.Operation)
}
