// Package eventlog provides append-only storage for the events of pipeline
// runs, so a run stays queryable after it finishes.
package eventlog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// Store is the append-only event log of pipeline runs.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records evt as the next event of runID and returns the stored
	// record with its assigned sequence.
	Append(runID string, evt events.Event) (Record, error)

	// List returns all records for a run, ordered by sequence.
	// Returns empty slice (not error) if the run has no events.
	List(runID string) ([]Record, error)

	// Events returns the events of a run in append order.
	Events(runID string) ([]events.Event, error)

	// Runs returns every run ID in order of first append.
	Runs() ([]string, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Record is one stored event with its position in the run's log.
type Record struct {
	RunID     string
	Sequence  int64
	Timestamp time.Time
	Event     events.Event
}

// Sentinel errors for event log operations.
var (
	// ErrRunNotFound indicates no event was ever appended for a run.
	ErrRunNotFound = errors.New("run not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("event store closed")

	// ErrEmptyRunID indicates Append was called without a run ID.
	ErrEmptyRunID = errors.New("empty run id")
)

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// Open creates a store of the given kind. path is ignored for KindMemory.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindSQLite:
		if path == "" {
			return nil, errors.New("sqlite event store requires a path")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown event store kind %q", kind)
	}
}

func eventsOf(records []Record) []events.Event {
	if len(records) == 0 {
		return nil
	}
	out := make([]events.Event, len(records))
	for i, r := range records {
		out[i] = r.Event
	}
	return out
}
