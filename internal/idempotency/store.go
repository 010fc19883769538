package idempotency

import (
	"context"
	"sync"
)

// Store tracks which ticket ids have already produced a dispatch attempt.
// CheckAndReserve must be atomic: for a given id, exactly one caller ever
// observes fresh=true, concurrent callers included. Reservations are taken
// before the downstream call and never rolled back, so a failed dispatch
// stays reserved (at-most-once over at-least-once).
type Store interface {
	CheckAndReserve(ctx context.Context, ticketID string) (fresh bool, err error)
}

// MemoryStore is the default in-process store. The set grows for the
// process lifetime and is lost on restart; both are deliberate.
type MemoryStore struct {
	mu        sync.Mutex
	triggered map[string]struct{}
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{triggered: make(map[string]struct{})}
}

// CheckAndReserve reserves the id under a single mutex, closing the window
// between check and insert.
func (s *MemoryStore) CheckAndReserve(_ context.Context, ticketID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.triggered[ticketID]; seen {
		return false, nil
	}
	s.triggered[ticketID] = struct{}{}
	return true, nil
}

// Size reports how many ids are reserved.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggered)
}
