package state

import (
	"context"
	"sync"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"golang.org/x/exp/maps"
)

// ConfigStore holds the page configuration served by the API.
type ConfigStore struct {
	client *client.Client
	mu     sync.RWMutex
	config *models.PageConfig
}

func NewConfigStore(c *client.Client) *ConfigStore {
	return &ConfigStore{client: c}
}

func (s *ConfigStore) Refresh(ctx context.Context) (models.PageConfig, error) {
	if err := s.client.Cache().Invalidate(ctx, client.PageConfigKey); err != nil {
		return models.PageConfig{}, err
	}
	config, err := s.client.PageConfig(ctx).Unwrap()
	if err != nil {
		return models.PageConfig{}, err
	}
	s.mu.Lock()
	s.config = &config
	s.mu.Unlock()
	return config, nil
}

// Current returns a copy of the last refreshed config.
func (s *ConfigStore) Current() (models.PageConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return models.PageConfig{}, false
	}
	config := *s.config
	config.Features = maps.Clone(s.config.Features)
	return config, true
}

// Enabled reports whether the named feature is switched on, unknown features are off.
func (s *ConfigStore) Enabled(feature string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config != nil && s.config.Features[feature]
}

func (s *ConfigStore) Clear() {
	s.mu.Lock()
	s.config = nil
	s.mu.Unlock()
}
