package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"salesdash/internal/core"
)

// ErrMissingID is returned when an event has no ID.
var ErrMissingID = errors.New("event id is required")

// Store keeps the most recent events in a fixed-size ring buffer.
type Store struct {
	mu    sync.Mutex
	items []core.Event
	next  int
	full  bool
	seen  map[string]struct{}
	total int64
}

// New creates a ring buffer holding at most capacity events.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		items: make([]core.Event, capacity),
		seen:  make(map[string]struct{}, capacity),
	}
}

// Record stores the event, overwriting the oldest one when full, and
// returns a synthetic reference.
func (s *Store) Record(_ context.Context, e core.Event) (string, error) {
	if e.ID == "" {
		return "", ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[e.ID]; dup {
		return "mem:" + e.ID, nil
	}
	if s.full {
		delete(s.seen, s.items[s.next].ID)
	}
	s.items[s.next] = e
	s.seen[e.ID] = struct{}{}
	s.next = (s.next + 1) % len(s.items)
	if s.next == 0 {
		s.full = true
	}
	s.total++
	return fmt.Sprintf("mem:%d", s.total), nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(_ context.Context, limit int) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.len()
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]core.Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.items)) % len(s.items)
		out = append(out, s.items[idx])
	}
	return out, nil
}

// Count returns the number of events currently held.
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.len()), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) len() int {
	if s.full {
		return len(s.items)
	}
	return s.next
}
