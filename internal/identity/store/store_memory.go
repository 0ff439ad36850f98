package store

import (
	"context"
	"sync"

	"certvault/internal/identity/models"
	"certvault/pkg/platform/sentinel"
)

// In-memory stores keep development and tests lightweight. They intentionally
// favor clarity over performance.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]models.User)}
}

func (s *InMemoryUserStore) CreateIfAbsent(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Phone]; ok {
		return sentinel.ErrConflict
	}
	s.users[user.Phone] = user
	return nil
}

func (s *InMemoryUserStore) Find(_ context.Context, phone string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[phone]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}

type InMemoryPendingStore struct {
	mu      sync.RWMutex
	pending map[string]models.PendingRegistration
}

func NewInMemoryPendingStore() *InMemoryPendingStore {
	return &InMemoryPendingStore{pending: make(map[string]models.PendingRegistration)}
}

func (s *InMemoryPendingStore) Put(_ context.Context, p models.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.Phone] = p
	return nil
}

func (s *InMemoryPendingStore) Find(_ context.Context, phone string) (models.PendingRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.pending[phone]; ok {
		return p, nil
	}
	return models.PendingRegistration{}, sentinel.ErrNotFound
}

func (s *InMemoryPendingStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, phone)
	return nil
}
