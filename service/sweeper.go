package service

import (
	"context"
	"time"
)

// Heartbeat refreshes the session's last-activity mark and nothing else.
func (s *collabService) Heartbeat(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.sessionLocked(connID)
	return err
}

// RunSweeper evicts idle sessions on a fixed interval until the context is
// cancelled. Intended to run as its own goroutine.
func (s *collabService) RunSweeper(ctx context.Context) {
	interval := s.cfg.SweepInterval()
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Infof("Lifecycle sweeper running every %s", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Lifecycle sweeper stopped")
			return
		case <-ticker.C:
			if n := s.sweepIdle(); n > 0 {
				s.logger.Infof("Swept %d idle session(s)", n)
			}
		}
	}
}

// sweepIdle evicts every session whose last activity is older than the idle
// timeout. Eviction takes the same path as an explicit disconnect.
func (s *collabService) sweepIdle() int {
	timeout := s.cfg.IdleTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	cutoff := s.now().Add(-timeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	var idle []string
	for userID, sess := range s.sessions {
		if sess.LastActiveAt.Before(cutoff) {
			idle = append(idle, userID)
		}
	}
	for _, userID := range idle {
		if sess, ok := s.sessions[userID]; ok {
			s.evictLocked(sess, "idle timeout")
		}
	}
	return len(idle)
}
