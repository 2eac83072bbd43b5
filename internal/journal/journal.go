// Package journal records task lifecycle events in SQLite, backing the
// history command.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Journal wraps the SQLite connection.
type Journal struct {
	sql *sql.DB
}

// Event is one recorded task event.
type Event struct {
	ID     int64
	At     time.Time
	Task   string
	Type   string
	Action string
	Detail string
}

// Actions recorded by the command dispatcher.
const (
	ActionCreated    = "created"
	ActionProgressed = "progressed"
	ActionEdited     = "edited"
	ActionRemoved    = "removed"
	ActionSaved      = "saved"
)

// Open opens or creates the journal database, applies pragmas, and runs
// migrations.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{sql: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("applying pragma: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error { return j.sql.Close() }

// Record appends one event.
func (j *Journal) Record(taskName, typeName, action, detail string) error {
	_, err := j.sql.Exec(
		`INSERT INTO events (ts, task, type, action, detail) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), taskName, typeName, action, detail)
	return err
}

// History returns the most recent events, newest first. An empty taskName
// matches all tasks; a non-positive limit falls back to 50.
func (j *Journal) History(taskName string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, ts, task, type, action, detail FROM events`
	var args []any
	if taskName != "" {
		query += ` WHERE task = ?`
		args = append(args, taskName)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.sql.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Task, &e.Type, &e.Action, &e.Detail); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339Nano, ts)
		events = append(events, e)
	}
	return events, rows.Err()
}
