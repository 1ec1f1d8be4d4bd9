// Package state holds the per session client state: the current user, the
// page configuration and the credentials huddlectl keeps between runs.
package state

import (
	"context"
	"fmt"

	"github.com/huddle-io/huddle/internal/client"
	"go.uber.org/zap"
)

// Session ties the state stores to the lifetime of one authenticated session.
type Session struct {
	Users  *UserStore
	Config *ConfigStore

	client *client.Client
	logger *zap.SugaredLogger
}

func NewSession(c *client.Client, logger *zap.SugaredLogger) *Session {
	return &Session{
		Users:  NewUserStore(c),
		Config: NewConfigStore(c),
		client: c,
		logger: logger,
	}
}

func (s *Session) Client() *client.Client {
	return s.client
}

// Start loads the page configuration and the current user.
func (s *Session) Start(ctx context.Context) error {
	if _, err := s.Config.Refresh(ctx); err != nil {
		return err
	}
	user, err := s.Users.Refresh(ctx)
	if err != nil {
		return err
	}
	s.logger.Debugw("session started", "user", user.Email, "role", user.Role)
	return nil
}

// End clears both stores and every cached query.
func (s *Session) End(ctx context.Context) error {
	s.Users.Clear()
	s.Config.Clear()
	if err := s.client.Cache().Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear query cache: %w", err)
	}
	return nil
}
