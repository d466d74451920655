package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"salesdash/internal/core"
	"salesdash/internal/journal"
)

// Publisher forwards activity events to a message broker.
type Publisher interface {
	PublishActivity(ctx context.Context, e core.Event) error
	Close() error
}

// ActivityStats are cumulative counters exposed on /metrics.
type ActivityStats struct {
	Recorded      int64
	RecordErrors  int64
	Published     int64
	PublishErrors int64
}

// ActivityService journals dashboard activity locally and publishes it to
// AMQP when a publisher is configured. Failures never reach the user.
type ActivityService struct {
	journal   journal.Journal
	publisher Publisher

	recorded      atomic.Int64
	recordErrors  atomic.Int64
	published     atomic.Int64
	publishErrors atomic.Int64
}

// NewActivityService builds the service. A nil journal discards events and a
// nil publisher disables AMQP.
func NewActivityService(j journal.Journal, publisher Publisher) *ActivityService {
	if j == nil {
		j = journal.Nop{}
	}
	return &ActivityService{
		journal:   j,
		publisher: publisher,
	}
}

// Record saves the event to the journal first, then publishes it.
func (s *ActivityService) Record(ctx context.Context, e core.Event) {
	if _, err := s.journal.Record(ctx, e); err != nil {
		s.recordErrors.Add(1)
		slog.ErrorContext(ctx, "Failed to journal activity event",
			"component", "journal", "event_id", e.ID, "error", err)
	} else {
		s.recorded.Add(1)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivity(ctx, e); err != nil {
		s.publishErrors.Add(1)
		slog.WarnContext(ctx, "Failed to publish activity event",
			"component", "amqp", "event_id", e.ID, "error", err)
		return
	}
	s.published.Add(1)
}

// Journal returns the underlying journal for readiness checks and metrics.
func (s *ActivityService) Journal() journal.Journal {
	return s.journal
}

// Stats returns a snapshot of the counters.
func (s *ActivityService) Stats() ActivityStats {
	return ActivityStats{
		Recorded:      s.recorded.Load(),
		RecordErrors:  s.recordErrors.Load(),
		Published:     s.published.Load(),
		PublishErrors: s.publishErrors.Load(),
	}
}

// Close closes both journal and AMQP connections
func (s *ActivityService) Close() error {
	var errs []error

	if err := s.journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("journal: %w", err))
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close activity service: %w", errors.Join(errs...))
	}

	return nil
}
