// Package session keeps one dashboard dataset per browser session.
//
// Sessions live in an LRU list with an idle TTL: every access pushes the
// expiry forward, the least recently used session is evicted when the store
// is full, and a janitor goroutine drops expired entries periodically.
package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"salesdash/internal/core"
)

// Config holds session store limits.
type Config struct {
	MaxSessions     int
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxSessions:     10000,
		IdleTTL:         2 * time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// Store maps session IDs to datasets.
type Store struct {
	mu      sync.Mutex
	cfg     Config
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
	evicted int64

	stopCleanup  chan struct{}
	cleanupDone  chan struct{}
	shutdownOnce sync.Once
}

type entry struct {
	id        string
	dataset   core.Dataset
	expiresAt time.Time
}

// NewStore creates an empty store. Call StartCleanup to run the janitor.
func NewStore(cfg Config) *Store {
	def := DefaultConfig()
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = def.MaxSessions
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	return &Store{
		cfg:   cfg,
		items: make(map[string]*list.Element),
		lru:   list.New(),
		now:   time.Now,
	}
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Get returns a copy of the session's dataset. Unknown or expired sessions
// report false.
func (s *Store) Get(id string) (core.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	return e.dataset.Clone(), true
}

// Update runs fn on the session's dataset while holding the store lock and
// stores the dataset it returns. Any id the store does not hold, well formed
// or not, starts a new session under a freshly minted ID seeded with
// core.SeedDataset. The returned id is the one the caller must hand back to
// the client, and created reports whether it is new.
func (s *Store) Update(id string, fn func(core.Dataset) core.Dataset) (sid string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		e = s.insert(NewID(), core.SeedDataset())
		created = true
	}
	e.dataset = fn(e.dataset.Clone())
	return e.id, created
}

// Size returns the number of live sessions.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evicted returns how many sessions were dropped because the store was full.
func (s *Store) Evicted() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

// CleanExpired removes all expired sessions and returns how many were removed.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var toRemove []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		s.removeElement(elem)
	}
	return len(toRemove)
}

// lookup finds a live entry and refreshes its expiry. Caller holds s.mu.
func (s *Store) lookup(id string) (*entry, bool) {
	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	now := s.now()
	if now.After(e.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}
	e.expiresAt = now.Add(s.cfg.IdleTTL)
	s.lru.MoveToFront(elem)
	return e, true
}

// insert adds a new entry, evicting the least recently used one when the
// store is over capacity. Caller holds s.mu.
func (s *Store) insert(id string, ds core.Dataset) *entry {
	e := &entry{id: id, dataset: ds, expiresAt: s.now().Add(s.cfg.IdleTTL)}
	s.items[id] = s.lru.PushFront(e)

	for s.lru.Len() > s.cfg.MaxSessions {
		oldest := s.lru.Back()
		if oldest == nil {
			break
		}
		s.removeElement(oldest)
		s.evicted++
	}
	return e
}

func (s *Store) removeElement(elem *list.Element) {
	delete(s.items, elem.Value.(*entry).id)
	s.lru.Remove(elem)
}
