package session

import (
	"sync"
	"time"

	"spirebridge/internal/domain/spire"
)

// StateStore holds exactly one current snapshot plus a revision stamp.
// Publish replaces the held snapshot; nothing is ever merged. The lock
// covers only the pointer swap, so readers never wait on game logic.
type StateStore struct {
	mu         sync.RWMutex
	snapshot   *spire.StateSnapshot
	revision   uint64
	receivedAt time.Time

	published chan struct{}
}

func NewStateStore() *StateStore {
	return &StateStore{published: make(chan struct{}, 1)}
}

// Publish swaps in a new snapshot and returns its revision. The published
// channel carries a coalesced wake-up for the dispatcher.
func (s *StateStore) Publish(snap *spire.StateSnapshot, at time.Time) uint64 {
	s.mu.Lock()
	s.snapshot = snap
	s.revision++
	s.receivedAt = at
	rev := s.revision
	s.mu.Unlock()

	select {
	case s.published <- struct{}{}:
	default:
	}
	return rev
}

// Latest returns the most recently published snapshot. The second return is
// false before the first publish.
func (s *StateStore) Latest() (spire.Versioned, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return spire.Versioned{}, false
	}
	return spire.Versioned{Snapshot: *s.snapshot, Revision: s.revision, ReceivedAt: s.receivedAt}, true
}

func (s *StateStore) HasState() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Published wakes the dispatcher after each Publish. Multiple publishes may
// coalesce into one wake-up; the dispatcher re-reads Latest anyway.
func (s *StateStore) Published() <-chan struct{} {
	return s.published
}
