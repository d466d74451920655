// Package journal defines the activity journal ports. Implementations live
// in journal/memory (bounded ring buffer) and storage (SQLite).
package journal

import (
	"context"

	"salesdash/internal/core"
)

// Ports for outbound adapters.
type (
	// Recorder appends one activity event. Recording the same event ID twice
	// must not create a duplicate entry.
	Recorder interface {
		Record(ctx context.Context, e core.Event) (ref string, err error)
	}

	// Reader gives operational access to recorded events.
	Reader interface {
		// Recent returns up to limit events, newest first.
		Recent(ctx context.Context, limit int) ([]core.Event, error)
		// Count returns the number of events currently held.
		Count(ctx context.Context) (int64, error)
	}

	// Journal is a Recorder that can also be read and closed.
	Journal interface {
		Recorder
		Reader
		Close() error
	}

	// Pinger is implemented by journals backed by an external connection.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Nop discards every event. It backs JOURNAL_BACKEND=none.
type Nop struct{}

// Record discards the event.
func (Nop) Record(context.Context, core.Event) (string, error) { return "", nil }
func (Nop) Recent(context.Context, int) ([]core.Event, error) { return nil, nil }
func (Nop) Count(context.Context) (int64, error) { return 0, nil }
func (Nop) Close() error { return nil }
