package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"loom/internal/event"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal is an append-only record of the decision stream. It is an
// observer-side artifact: the canonical store never reads from it, but a
// fresh mirror can be rebuilt by replaying it in sequence order.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates or opens a journal database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func (j *SQLiteJournal) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);`,
	}

	for _, q := range queries {
		if _, err := j.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Record appends one event. The full envelope is stored as JSON; seq, kind
// and timestamp are lifted into columns for auditing queries. Inserting the
// same sequence number twice violates the primary key, which is intended:
// the journal must stay an exact image of the stream.
func (j *SQLiteJournal) Record(ctx context.Context, ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event %d: %w", ev.Seq, err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO events (seq, at, kind, payload) VALUES (?, ?, ?, ?)
	`, ev.Seq, ev.At.Format(time.RFC3339Nano), string(ev.Kind), string(payload))
	if err != nil {
		return fmt.Errorf("failed to append event %d: %w", ev.Seq, err)
	}
	return nil
}

// LoadEvents replays the whole journal in sequence order.
func (j *SQLiteJournal) LoadEvents(ctx context.Context) ([]event.Event, error) {
	rows, err := j.db.QueryContext(ctx, "SELECT payload FROM events ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		var ev event.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Reset clears the journal. A new run starts from sequence one, so leftover
// rows from an earlier run would collide and corrupt the replay.
func (j *SQLiteJournal) Reset(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return fmt.Errorf("failed to reset journal: %w", err)
	}
	return nil
}
