package cart

import (
	"context"
	"sync"
)

// Store is the session-scoped storage carts are written back to after every
// mutation.
type Store interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
}

// MemoryStore keeps carts in process memory keyed by session id.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.carts[sessionID].Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = c.Clone()
	return nil
}
