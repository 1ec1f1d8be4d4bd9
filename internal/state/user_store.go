package state

import (
	"context"
	"sync"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
)

// UserStore holds the user of the current session.
type UserStore struct {
	client *client.Client
	mu     sync.RWMutex
	user   *models.User
}

func NewUserStore(c *client.Client) *UserStore {
	return &UserStore{client: c}
}

// Refresh refetches the current user, bypassing any cached copy.
func (s *UserStore) Refresh(ctx context.Context) (models.User, error) {
	if err := s.client.Cache().Invalidate(ctx, client.CurrentUserKey); err != nil {
		return models.User{}, err
	}
	user, err := s.client.CurrentUser(ctx).Unwrap()
	if err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

// Current returns the last refreshed user, false before the first refresh.
func (s *UserStore) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *UserStore) Clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}
