package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// JournalRepository stores activity events in SQLite.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(dbPath string) (*JournalRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &JournalRepository{db: db}, nil
}

func (r *JournalRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection. It backs the journal readiness check.
func (r *JournalRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Record implements journal.Recorder. Events already present are ignored.
func (r *JournalRepository) Record(ctx context.Context, e core.Event) (string, error) {
	if e.ID == "" {
		return "", fmt.Errorf("record event: missing id")
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO activity_events
			(id, session_id, action, category, sales, accepted, dataset_size, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.SessionID,
		e.Trigger.String(),
		e.Category,
		e.Sales.String(),
		boolToInt(e.Accepted),
		e.DatasetSize,
		at.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert activity event: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		slog.DebugContext(ctx, "Activity event already journaled", "component", "storage", "event_id", e.ID)
	} else {
		slog.DebugContext(ctx, "Activity event saved to SQLite",
			"component", "storage",
			"event_id", e.ID,
			"session_id", e.SessionID,
			"trigger", e.Trigger.String())
	}

	return e.ID, nil
}

// Recent implements journal.Reader
func (r *JournalRepository) Recent(ctx context.Context, limit int) ([]core.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, action, category, sales, accepted, dataset_size, occurred_at
		FROM activity_events
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity events: %w", err)
	}
	return events, nil
}

// Count implements journal.Reader
func (r *JournalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activity events: %w", err)
	}
	return n, nil
}

func scanEvent(rows *sql.Rows) (core.Event, error) {
	var (
		e                    core.Event
		action, sales, at    string
		accepted, datasetLen int64
	)
	if err := rows.Scan(&e.ID, &e.SessionID, &action, &e.Category, &sales, &accepted, &datasetLen, &at); err != nil {
		return e, fmt.Errorf("scan activity event: %w", err)
	}

	amount, err := decimal.NewFromString(sales)
	if err != nil {
		return e, fmt.Errorf("parse sales %q for event %s: %w", sales, e.ID, err)
	}
	occurred, err := time.Parse(timeLayout, at)
	if err != nil {
		return e, fmt.Errorf("parse occurred_at %q for event %s: %w", at, e.ID, err)
	}

	e.Trigger = core.ParseTrigger(action)
	e.Sales = amount
	e.Accepted = accepted != 0
	e.DatasetSize = int(datasetLen)
	e.At = occurred
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
