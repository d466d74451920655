package session

import (
	"sync"
	"testing"
	"time"

	"salesdash/internal/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(max int, ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(Config{MaxSessions: max, IdleTTL: ttl, CleanupInterval: time.Minute})
	s.now = clock.Now
	return s, clock
}

func identity(ds core.Dataset) core.Dataset { return ds }

func TestUpdateCreatesSeededSession(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)

	var seen core.Dataset
	id, created := s.Update("", func(ds core.Dataset) core.Dataset {
		seen = ds
		return ds
	})
	if !created || !ValidID(id) {
		t.Fatalf("expected a new valid session, got id=%q created=%v", id, created)
	}
	if !seen.Equal(core.SeedDataset()) {
		t.Fatalf("new session should start from the seed, got %v", seen)
	}

	ds, ok := s.Get(id)
	if !ok || ds.Len() != 3 {
		t.Fatalf("session not stored: ok=%v len=%d", ok, ds.Len())
	}
}

func TestUpdateKeepsSessionsIsolated(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	a, _ := s.Update("", identity)
	b, _ := s.Update("", identity)

	s.Update(a, func(ds core.Dataset) core.Dataset {
		return ds.Append(core.NewRecord("Books", 10000))
	})

	dsA, _ := s.Get(a)
	dsB, _ := s.Get(b)
	if dsA.Len() != 4 || dsB.Len() != 3 {
		t.Fatalf("sessions share state: a=%d b=%d", dsA.Len(), dsB.Len())
	}

	id, created := s.Update(a, identity)
	if id != a || created {
		t.Fatalf("existing session should be reused")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	id, _ := s.Update("", identity)
	ds, _ := s.Get(id)
	ds[0].Category = "Mutated"
	again, _ := s.Get(id)
	if again[0].Category != "Electronics" {
		t.Fatalf("Get leaked internal storage")
	}
}

func TestIdleExpiry(t *testing.T) {
	s, clock := newTestStore(10, time.Minute)
	id, _ := s.Update("", identity)

	clock.Advance(30 * time.Second)
	if _, ok := s.Get(id); !ok {
		t.Fatalf("session expired too early")
	}
	// Access refreshed the expiry.
	clock.Advance(45 * time.Second)
	if _, ok := s.Get(id); !ok {
		t.Fatalf("access should extend the idle TTL")
	}

	clock.Advance(2 * time.Minute)
	if _, ok := s.Get(id); ok {
		t.Fatalf("session should have expired")
	}

	// An expired ID starts over under a new ID with a seed dataset.
	got, created := s.Update(id, identity)
	if got == id || !created {
		t.Fatalf("expected a new session id, got %q created=%v", got, created)
	}
}

func TestMalformedIDIsReplaced(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	id, created := s.Update("not-a-uuid", identity)
	if !created || id == "not-a-uuid" {
		t.Fatalf("malformed id should be replaced, got %q", id)
	}
}

func TestUnknownIDIsNotAdopted(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	chosen := NewID()

	id, created := s.Update(chosen, identity)
	if !created || id == chosen || !ValidID(id) {
		t.Fatalf("unknown id should be replaced by a minted one, got %q created=%v", id, created)
	}
	if _, ok := s.Get(chosen); ok {
		t.Fatalf("client-chosen id must not name a session")
	}
	if got, created := s.Update(id, identity); got != id || created {
		t.Fatalf("minted id should be reused, got %q created=%v", got, created)
	}
}

func TestLRUEviction(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)
	a, _ := s.Update("", identity)
	b, _ := s.Update("", identity)
	s.Get(a) // a becomes most recently used
	c, _ := s.Update("", identity)

	if _, ok := s.Get(b); ok {
		t.Fatalf("least recently used session should be evicted")
	}
	if _, ok := s.Get(a); !ok {
		t.Fatalf("recently used session evicted")
	}
	if _, ok := s.Get(c); !ok {
		t.Fatalf("newest session missing")
	}
	if s.Size() != 2 || s.Evicted() != 1 {
		t.Fatalf("unexpected size=%d evicted=%d", s.Size(), s.Evicted())
	}
}

func TestCleanExpired(t *testing.T) {
	s, clock := newTestStore(10, time.Minute)
	s.Update("", identity)
	s.Update("", identity)
	clock.Advance(2 * time.Minute)
	keep, _ := s.Update("", identity)

	if n := s.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if s.Size() != 1 {
		t.Fatalf("expected 1 session left, got %d", s.Size())
	}
	if _, ok := s.Get(keep); !ok {
		t.Fatalf("live session removed")
	}
}

func TestCleanupLifecycle(t *testing.T) {
	s, _ := newTestStore(10, time.Minute)
	s.StartCleanup()
	s.StartCleanup() // second start is a no-op
	s.Stop()
	s.Stop() // idempotent
}

func TestConcurrentUpdates(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	id, _ := s.Update("", identity)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(id, func(ds core.Dataset) core.Dataset {
				return ds.Append(core.NewRecord("x", 1))
			})
		}()
	}
	wg.Wait()

	ds, _ := s.Get(id)
	if ds.Len() != 53 {
		t.Fatalf("lost updates: expected 53 rows, got %d", ds.Len())
	}
}
