package eventlog

import (
	"slices"
	"sync"
	"time"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// MemoryStore is an in-memory event log for tests and short-lived processes.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string][]Record
	order  []string
	closed bool
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory event log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string][]Record),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(runID string, evt events.Event) (Record, error) {
	if runID == "" {
		return Record{}, ErrEmptyRunID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}

	existing, ok := m.runs[runID]
	if !ok {
		m.order = append(m.order, runID)
	}

	rec := Record{
		RunID:     runID,
		Sequence:  int64(len(existing)) + 1,
		Timestamp: time.Now().UTC(),
		Event:     evt,
	}
	m.runs[runID] = append(existing, rec)
	return rec, nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	// Events are immutable, so a shallow clone is enough.
	return slices.Clone(m.runs[runID]), nil
}

// Events implements Store.
func (m *MemoryStore) Events(runID string) ([]events.Event, error) {
	records, err := m.List(runID)
	if err != nil {
		return nil, err
	}
	return eventsOf(records), nil
}

// Runs implements Store.
func (m *MemoryStore) Runs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	return slices.Clone(m.order), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	m.order = nil
	return nil
}

// Len returns the total number of events across all runs.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, run := range m.runs {
		count += len(run)
	}
	return count
}
