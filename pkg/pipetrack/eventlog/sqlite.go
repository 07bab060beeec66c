package eventlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// SQLiteStore persists the event log to SQLite, one JSON document per event.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite event log.
// The path should be a file path (e.g., "./events.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent; writes are
	// serialized by the store mutex anyway.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			run_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			event_type TEXT NOT NULL,
			step_key TEXT,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_event_type
		ON events(run_id, event_type)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(runID string, evt events.Event) (Record, error) {
	if runID == "" {
		return Record{}, ErrEmptyRunID
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return Record{}, fmt.Errorf("encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Record{}, ErrStoreClosed
	}

	var stepKey sql.NullString
	if evt.IsStepScoped() {
		stepKey = sql.NullString{String: evt.StepKey(), Valid: true}
	}

	now := time.Now().UTC()
	rec := Record{RunID: runID, Timestamp: now, Event: evt}

	// Sequence is max + 1 for this run
	err = s.db.QueryRow(`
		INSERT INTO events (run_id, sequence, timestamp, event_type, step_key, payload)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM events WHERE run_id = ?), 0) + 1,
			?, ?, ?, ?
		)
		RETURNING sequence
	`, runID, runID, now.Format(time.RFC3339Nano), string(evt.EventType()), stepKey, string(payload)).Scan(&rec.Sequence)
	if err != nil {
		return Record{}, fmt.Errorf("append event: %w", err)
	}
	return rec, nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT sequence, timestamp, payload
		FROM events
		WHERE run_id = ?
		ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{RunID: runID}
		var timestamp, payload string
		if err := rows.Scan(&rec.Sequence, &timestamp, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		if err := json.Unmarshal([]byte(payload), &rec.Event); err != nil {
			return nil, fmt.Errorf("decode event %s/%d: %w", runID, rec.Sequence, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return records, nil
}

// Events implements Store.
func (s *SQLiteStore) Events(runID string) ([]events.Event, error) {
	records, err := s.List(runID)
	if err != nil {
		return nil, err
	}
	return eventsOf(records), nil
}

// Runs implements Store.
func (s *SQLiteStore) Runs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT run_id FROM events
		GROUP BY run_id
		ORDER BY MIN(rowid)
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
