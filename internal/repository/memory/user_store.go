package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
)

// UserStore keeps accounts in a map keyed by username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

// Create registers a user, refusing duplicate usernames.
func (s *UserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return repository.ErrUserExists
	}
	s.users[user.Username] = user
	return nil
}

// FindByUsername looks an account up by its username.
func (s *UserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}
