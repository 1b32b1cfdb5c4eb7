package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"travelbook/internal/events"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger is the append-only audit trail of booking lifecycle events.
// Rows are only ever inserted; there is no update or delete path.
type Ledger struct {
	db *sql.DB
}

// Entry is one recorded lifecycle event.
type Entry struct {
	ID        int64
	Type      string
	BookingID string
	Payload   string
	CreatedAt time.Time
}

func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to ledger: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS booking_events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_type TEXT NOT NULL,
        booking_id TEXT NOT NULL DEFAULT '',
        payload TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("create booking_events table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_booking_events_booking_id ON booking_events(booking_id)`); err != nil {
		return nil, fmt.Errorf("create ledger index: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) Append(eventType, bookingID string, payload []byte) error {
	_, err := l.db.Exec(
		`INSERT INTO booking_events (event_type, booking_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		eventType, bookingID, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (l *Ledger) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, event_type, booking_id, payload, created_at
         FROM booking_events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// History returns every entry for one booking in append order.
func (l *Ledger) History(bookingID string) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, event_type, booking_id, payload, created_at
         FROM booking_events WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query booking history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.BookingID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Subscribe wires the ledger into the event bus: every lifecycle event
// gets appended, keyed by the booking id from its payload.
func (l *Ledger) Subscribe(bus *events.EventBus) {
	bus.SubscribeAll(events.AllEventTypes(), func(event *events.Event) error {
		bookingID := bookingIDFromPayload(event.Payload)
		return l.Append(event.Type, bookingID, event.Payload)
	})
}

func bookingIDFromPayload(payload []byte) string {
	var p events.BookingEventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}
	return p.BookingID
}
