package session

import (
	"log/slog"
	"time"
)

// StartCleanup begins periodic removal of expired sessions.
func (s *Store) StartCleanup() {
	s.mu.Lock()
	if s.stopCleanup != nil {
		s.mu.Unlock()
		return
	}
	s.stopCleanup = make(chan struct{})
	s.cleanupDone = make(chan struct{})
	s.mu.Unlock()

	go s.cleanup(s.cfg.CleanupInterval)
}

func (s *Store) cleanup(interval time.Duration) {
	defer close(s.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.CleanExpired(); n > 0 {
				slog.Debug("Session cleanup completed", "component", "session", "sessions_removed", n)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine
func (s *Store) Stop() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		stop, done := s.stopCleanup, s.cleanupDone
		s.mu.Unlock()
		if stop != nil {
			close(stop)
			<-done
		}
	})
}
