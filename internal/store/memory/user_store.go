package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/gocomet/ride-booking/internal/domain/user"
	"github.com/google/uuid"
)

// UserStore keeps users in memory guarded by a RWMutex.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*user.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]*user.User),
	}
}

// Create implements user.Store
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.ErrUsernameTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// GetByID implements user.Store
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByUsername implements user.Store
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}
