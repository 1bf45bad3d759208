package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/auragen/internal/aura"
)

const offlineThreshold = 2

// Snapshot represents the latest service health available to the UI.
type Snapshot struct {
	Health              aura.HealthResponse
	HasHealth           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the service has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// CanGenerate reports whether a script request is worth sending. Before the
// first poll completes the service is given the benefit of the doubt.
func (s Snapshot) CanGenerate() bool {
	if s.IsOffline() {
		return false
	}
	if !s.HasHealth {
		return true
	}
	return s.Health.Ready()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous health is
// kept but the error is recorded for visibility.
func (s *Store) Update(health *aura.HealthResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
	} else {
		s.snapshot.HasHealth = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
