package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
	"salesdash/internal/journal"
)

var (
	_ journal.Journal = (*JournalRepository)(nil)
	_ journal.Pinger  = (*JournalRepository)(nil)
)

func newTestRepo(t *testing.T) (*JournalRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	repo, err := NewJournalRepository(path)
	if err != nil {
		t.Fatalf("NewJournalRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestJournalRepositoryRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 123, time.UTC)

	e := core.Event{
		ID:          "11111111-1111-1111-1111-111111111111",
		SessionID:   "sess",
		Trigger:     core.TriggerAdd,
		Category:    "Books",
		Sales:       decimal.RequireFromString("10000.50"),
		Accepted:    true,
		DatasetSize: 4,
		At:          at,
	}
	ref, err := repo.Record(ctx, e)
	if err != nil || ref != e.ID {
		t.Fatalf("Record() = %q, %v", ref, err)
	}

	got, err := repo.Recent(ctx, 10)
	if err != nil || len(got) != 1 {
		t.Fatalf("Recent() = %v, %v", got, err)
	}
	g := got[0]
	if g.Trigger != core.TriggerAdd || g.Category != "Books" || !g.Sales.Equal(e.Sales) ||
		!g.Accepted || g.DatasetSize != 4 || !g.At.Equal(at) {
		t.Fatalf("round trip mismatch: %+v", g)
	}
}

func TestJournalRepositoryIgnoresDuplicates(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	e := core.Event{ID: "dup", SessionID: "s", Trigger: core.TriggerReset, At: time.Now()}

	for i := 0; i < 2; i++ {
		if _, err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}
	if n, err := repo.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count() = %d, %v; want 1", n, err)
	}
}

func TestJournalRepositoryRecentOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		repo.Record(ctx, core.Event{ID: id, SessionID: "s", Trigger: core.TriggerAdd, At: base.Add(time.Duration(i) * time.Minute)})
	}

	got, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestJournalRepositoryRejectsMissingID(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Record(context.Background(), core.Event{}); err == nil {
		t.Fatal("expected error for event without id")
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	_, path := newTestRepo(t)
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}

func TestJournalRepositoryPing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() on open db: %v", err)
	}
	repo.Close()
	if err := repo.Ping(ctx); err == nil {
		t.Fatalf("Ping() after Close should fail")
	}
}
