// Package query answers read-only questions about pipeline runs by folding
// their recorded events.
//
// Queries never modify a run. They load the run's events through an
// EventLoader, typically backed by an eventlog.Store, and return a result
// immediately.
//
// Common use cases:
//   - Get the status of a run
//   - Find the step currently executing
//   - Retrieve a step's output or the run's materializations
//   - List failures with their error info
package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/eventlog"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// Handler executes a query against one run and returns a result.
type Handler func(ctx context.Context, runID string, args any) (any, error)

// EventLoader retrieves the events of a run in append order.
type EventLoader func(ctx context.Context, runID string) ([]events.Event, error)

// LoaderFromStore adapts an event store to an EventLoader.
func LoaderFromStore(store eventlog.Store) EventLoader {
	return func(ctx context.Context, runID string) ([]events.Event, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return store.Events(runID)
	}
}

// Registry manages query handlers by query name.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new query registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for a query name.
func (r *Registry) Register(queryName string, handler Handler) error {
	if queryName == "" {
		return errors.New("query name is required")
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[queryName]; exists {
		return fmt.Errorf("handler for query %q already registered", queryName)
	}

	r.handlers[queryName] = handler
	return nil
}

// MustRegister registers a handler, panicking on error.
func (r *Registry) MustRegister(queryName string, handler Handler) {
	if err := r.Register(queryName, handler); err != nil {
		panic(err)
	}
}

// Get returns the handler for a query name.
func (r *Registry) Get(queryName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[queryName]
	return handler, exists
}

// List returns all registered query names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.handlers)
	slices.Sort(names)
	return names
}

// Unregister removes a handler for a query name.
func (r *Registry) Unregister(queryName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, queryName)
}

// ErrQueryNotFound is returned when a query handler doesn't exist.
var ErrQueryNotFound = errors.New("query not found")

// ErrTargetNotFound is returned when the queried run has no events.
// It is eventlog.ErrRunNotFound, so callers may match either.
var ErrTargetNotFound = eventlog.ErrRunNotFound

// Executor runs queries against runs.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new query executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// NewStoreExecutor returns an executor with the built-in queries registered
// against store.
func NewStoreExecutor(store eventlog.Store) (*Executor, error) {
	registry := NewRegistry()
	if err := RegisterBuiltins(registry, LoaderFromStore(store)); err != nil {
		return nil, err
	}
	return NewExecutor(registry), nil
}

// Execute runs a query against a run.
func (e *Executor) Execute(ctx context.Context, runID, queryName string, args any) (any, error) {
	if runID == "" {
		return nil, errors.New("run ID is required")
	}
	if queryName == "" {
		return nil, errors.New("query name is required")
	}

	handler, exists := e.registry.Get(queryName)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, queryName)
	}

	return handler(ctx, runID, args)
}

// Result wraps a query result with metadata.
type Result struct {
	// QueryName is the query that was executed.
	QueryName string `json:"query_name"`

	// RunID is the run that was queried.
	RunID string `json:"run_id"`

	// Value is the query result.
	Value any `json:"value"`

	// Error contains error details if the query failed.
	Error string `json:"error,omitempty"`
}

// ExecuteMultiple runs multiple queries against a run, ordered by query name.
// Returns results for all queries, including any that failed.
func (e *Executor) ExecuteMultiple(ctx context.Context, runID string, queries map[string]any) []Result {
	names := lo.Keys(queries)
	slices.Sort(names)

	return lo.Map(names, func(queryName string, _ int) Result {
		result := Result{
			QueryName: queryName,
			RunID:     runID,
		}

		value, err := e.Execute(ctx, runID, queryName, queries[queryName])
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Value = value
		}
		return result
	})
}
