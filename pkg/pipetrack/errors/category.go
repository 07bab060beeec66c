// Package errors provides error categorization, serializable error
// descriptions, and retry policies for pipeline step execution.
//
// The package implements a layered error handling approach:
//   - Categorization: Classify step errors for retry and reporting decisions
//   - Serialization: Capture errors as data that survives process boundaries
//   - Retry: Handle transient failures with exponential backoff
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Category represents how a step error should be handled.
type Category int

const (
	// CategoryTransient indicates retry will likely help.
	// Examples: timeouts, temporarily unavailable resources.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	// Examples: invalid configuration, cancelled runs.
	CategoryPermanent

	// CategoryUserCode indicates the error was raised by the step's own
	// computation rather than by the orchestrator.
	CategoryUserCode

	// CategoryFramework indicates the orchestrator itself failed while
	// preparing or running the step (resource init, storage).
	CategoryFramework
)

var categoryNames = map[Category]string{
	CategoryTransient: "transient",
	CategoryPermanent: "permanent",
	CategoryUserCode:  "user_code",
	CategoryFramework: "framework",
}

// String returns the category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	name, ok := categoryNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown error category %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for cat, name := range categoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown error category %q", string(text))
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Retries is the number of attempts that have been made.
	Retries int

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Retries)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Retries)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// Transient creates a transient error.
func Transient(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTransient, context)
}

// Permanent creates a permanent error.
func Permanent(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryPermanent, context)
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent // shouldn't happen, fail safe
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return CategoryTransient
	}

	var resourceErr *ResourceInitError
	if errors.As(err, &resourceErr) {
		return CategoryFramework
	}

	var userErr *UserCodeError
	if errors.As(err, &userErr) {
		return CategoryUserCode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient
	}

	// Cancellation and unknown errors are permanent (fail safe)
	return CategoryPermanent
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
