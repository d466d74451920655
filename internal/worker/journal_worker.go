// Package worker contains the AMQP side of the activity journal: it turns
// consumed activity messages into journal entries.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"salesdash/internal/amqp"
	"salesdash/internal/journal"
)

// JournalWorker writes consumed activity messages to a journal
type JournalWorker struct {
	journal   journal.Recorder
	processed atomic.Int64
	failed    atomic.Int64
}

func NewJournalWorker(j journal.Recorder) *JournalWorker {
	return &JournalWorker{journal: j}
}

// HandleActivityMessage journals a single activity message. Returning an
// error makes the consumer requeue the delivery once.
func (w *JournalWorker) HandleActivityMessage(ctx context.Context, msg *amqp.ActivityMessage) error {
	event, err := msg.Event()
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("decode activity message: %w", err)
	}

	ref, err := w.journal.Record(ctx, event)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("journal activity event %s: %w", event.ID, err)
	}
	w.processed.Add(1)

	slog.DebugContext(ctx, "Journaled activity event",
		"component", "worker",
		"event_id", event.ID,
		"session_id", event.SessionID,
		"trigger", event.Trigger.String(),
		"ref", ref)

	return nil
}

// Processed returns how many messages were journaled
func (w *JournalWorker) Processed() int64 {
	return w.processed.Load()
}

// Failed returns how many messages could not be journaled
func (w *JournalWorker) Failed() int64 {
	return w.failed.Load()
}
