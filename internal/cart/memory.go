package cart

import (
	"context"
	"sync"
	"time"
)

const (
	// SessionTTL is how long an idle cart survives before the sweeper drops it.
	SessionTTL = 2 * time.Hour

	cleanupInterval = 10 * time.Minute
)

type memoryEntry struct {
	cart      *Cart
	expiresAt time.Time
}

// MemoryStore keeps carts in process memory. State is lost on restart, which
// matches the original session-only cart behavior.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries:     make(map[string]memoryEntry),
		ttl:         SessionTTL,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrCartNotFound
	}

	// Copy so callers never mutate shared state without going through Save.
	cp := *e.cart
	cp.Lines = append([]Line(nil), e.cart.Lines...)
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	cp.Lines = append([]Line(nil), c.Lines...)
	s.entries[sessionID] = memoryEntry{cart: &cp, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() {
	close(s.stopCleanup)
	s.wg.Wait()
}
