package events

import (
	"errors"
	"fmt"
)

// Sentinel errors for contract violations.
var (
	// ErrTypeMismatch indicates a payload or accessor that does not belong
	// to the event's type.
	ErrTypeMismatch = errors.New("event type mismatch")

	// ErrInvalidData indicates a payload that fails its own validation,
	// such as a materialization with an empty path.
	ErrInvalidData = errors.New("invalid event specific data")

	// ErrInvalidContext indicates an execution context that is missing a
	// required identity field.
	ErrInvalidContext = errors.New("invalid execution context")

	// ErrUnknownEventType indicates a value outside the event type enumeration.
	ErrUnknownEventType = errors.New("unknown event type")
)

// ContractError reports misuse of the event API by the calling engine.
// Construction functions and typed accessors panic with a *ContractError;
// New and the JSON decoder return one.
type ContractError struct {
	// Op is the operation that detected the violation (e.g., "FromStep").
	Op string
	// EventType is the type of the event involved, if known.
	EventType EventType
	// Detail describes the violation.
	Detail string
	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.EventType != "" {
		return fmt.Sprintf("%s (%s): %v: %s", e.Op, e.EventType, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Detail)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *ContractError) Unwrap() error {
	return e.Err
}

func contractErrorf(op string, t EventType, sentinel error, format string, args ...any) *ContractError {
	return &ContractError{
		Op:        op,
		EventType: t,
		Detail:    fmt.Sprintf(format, args...),
		Err:       sentinel,
	}
}

// mustNotFail turns a contract violation into a panic.
func mustNotFail(err error) {
	if err != nil {
		panic(err)
	}
}
