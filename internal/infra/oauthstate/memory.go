package oauthstate

import (
	"context"
	"sync"
	"time"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

// MemoryStore is a process-local expiring state store for tests and
// single-node deployments without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func NewMemory(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.states[state] = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	if s.now().After(expiry) {
		return false, nil
	}
	return true, nil
}

// prune drops expired entries so the map stays bounded. Caller holds the lock.
func (s *MemoryStore) prune() {
	now := s.now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}

var _ compliance.StateStore = (*MemoryStore)(nil)
