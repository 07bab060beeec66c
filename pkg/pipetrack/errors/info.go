package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// SerializableErrorInfo describes an error as plain data so it can be logged,
// persisted, and sent across process boundaries without the live error value.
type SerializableErrorInfo struct {
	Message   string                 `json:"message"`
	Stack     []string               `json:"stack"`
	ClassName string                 `json:"cls_name,omitempty"`
	Cause     *SerializableErrorInfo `json:"cause,omitempty"`
}

// FromError converts err and its Unwrap chain into a SerializableErrorInfo.
// The current goroutine stack is recorded on the outermost entry only.
// Returns nil for a nil error.
func FromError(err error) *SerializableErrorInfo {
	if err == nil {
		return nil
	}
	info := fromChain(err)
	info.Stack = stackLines(debug.Stack())
	return info
}

func fromChain(err error) *SerializableErrorInfo {
	info := &SerializableErrorInfo{
		Message:   err.Error(),
		Stack:     []string{},
		ClassName: fmt.Sprintf("%T", err),
	}
	if cause := errors.Unwrap(err); cause != nil {
		info.Cause = fromChain(cause)
	}
	return info
}

// FromPanic converts a recovered panic value and the stack captured at the
// recovery site into a SerializableErrorInfo.
func FromPanic(value any, stack []byte) *SerializableErrorInfo {
	info := &SerializableErrorInfo{
		Message:   fmt.Sprintf("panic: %v", value),
		Stack:     stackLines(stack),
		ClassName: fmt.Sprintf("%T", value),
	}
	if err, ok := value.(error); ok {
		if cause := errors.Unwrap(err); cause != nil {
			info.Cause = fromChain(cause)
		}
	}
	return info
}

func stackLines(stack []byte) []string {
	trimmed := strings.TrimRight(string(stack), "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

// String renders the message, stack, and cause chain.
func (e *SerializableErrorInfo) String() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	for cur := e; cur != nil; cur = cur.Cause {
		if cur != e {
			b.WriteString("\ncaused by: ")
		}
		b.WriteString(cur.Message)
		for _, line := range cur.Stack {
			b.WriteString("\n")
			b.WriteString(line)
		}
	}
	return b.String()
}
