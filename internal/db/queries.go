package db

import (
	"database/sql"
	"fmt"
)

// RevisionEvent represents a row in the revision_events table.
type RevisionEvent struct {
	ID        int
	Item      string
	Event     string
	Iteration int
	Detail    string
	Timestamp string
}

// CheckRun represents a row in the check_runs table.
type CheckRun struct {
	ID         int
	Item       string
	Iteration  int
	Tool       string
	Executed   bool
	ExitCode   int
	DurationMs int
	Summary    string
	Timestamp  string
}

// LogRevisionEvent inserts a revision lifecycle event for an item.
func (d *DB) LogRevisionEvent(item string, event string, iteration int, detail string) error {
	_, err := d.conn.Exec(
		`INSERT INTO revision_events (item, event, iteration, detail) VALUES (?, ?, ?, ?)`,
		item, event, iteration, detail,
	)
	if err != nil {
		return fmt.Errorf("log revision event: %w", err)
	}
	return nil
}

// LogCheckRun records one checker-tool invocation.
func (d *DB) LogCheckRun(c CheckRun) error {
	_, err := d.conn.Exec(
		`INSERT INTO check_runs (item, iteration, tool, executed, exit_code, duration_ms, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Item, c.Iteration, c.Tool, c.Executed, c.ExitCode, c.DurationMs, c.Summary,
	)
	if err != nil {
		return fmt.Errorf("log check run: %w", err)
	}
	return nil
}

// EventsForItem returns all events for an item, newest first.
func (d *DB) EventsForItem(item string) ([]RevisionEvent, error) {
	rows, err := d.conn.Query(
		`SELECT id, item, event, iteration, detail, timestamp
		 FROM revision_events WHERE item = ? ORDER BY timestamp DESC, id DESC`,
		item,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []RevisionEvent
	for rows.Next() {
		var e RevisionEvent
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Item, &e.Event, &e.Iteration, &detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Detail = detail.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// CheckRunsForItem returns all recorded tool invocations for an item.
func (d *DB) CheckRunsForItem(item string) ([]CheckRun, error) {
	rows, err := d.conn.Query(
		`SELECT id, item, iteration, tool, executed, exit_code, duration_ms, summary, timestamp
		 FROM check_runs WHERE item = ? ORDER BY iteration, id`,
		item,
	)
	if err != nil {
		return nil, fmt.Errorf("query check runs: %w", err)
	}
	defer rows.Close()

	var runs []CheckRun
	for rows.Next() {
		var c CheckRun
		var exitCode sql.NullInt64
		var durationMs sql.NullInt64
		var summary sql.NullString
		if err := rows.Scan(&c.ID, &c.Item, &c.Iteration, &c.Tool, &c.Executed, &exitCode, &durationMs, &summary, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("scan check run: %w", err)
		}
		c.ExitCode = int(exitCode.Int64)
		c.DurationMs = int(durationMs.Int64)
		c.Summary = summary.String
		runs = append(runs, c)
	}
	return runs, rows.Err()
}
