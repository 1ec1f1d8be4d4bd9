package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSession(t *testing.T, user *models.User) (*Session, *atomic.Int32) {
	var userRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.NewResponse(models.PageConfig{
			AppName:  "huddle",
			Features: map[string]bool{"invitations": true},
		}))
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		userRequests.Add(1)
		_ = json.NewEncoder(w).Encode(models.NewResponse(*user))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := zaptest.NewLogger(t).Sugar()
	c, err := client.NewClient(context.Background(), server.URL, client.WithLogger(logger))
	require.NoError(t, err)
	return NewSession(c, logger), &userRequests
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, &models.User{Email: "coach@fc-riverside.example.com", Role: models.RoleCoach})

	_, ok := session.Users.Current()
	require.False(t, ok)
	require.False(t, session.Config.Enabled("invitations"))

	require.NoError(t, session.Start(ctx))

	user, ok := session.Users.Current()
	require.True(t, ok)
	assert.Equal(t, "coach@fc-riverside.example.com", user.Email)

	config, ok := session.Config.Current()
	require.True(t, ok)
	assert.Equal(t, "huddle", config.AppName)
	assert.True(t, session.Config.Enabled("invitations"))
	assert.False(t, session.Config.Enabled("unknown"))

	require.NoError(t, session.End(ctx))
	_, ok = session.Users.Current()
	assert.False(t, ok)
	_, ok = session.Config.Current()
	assert.False(t, ok)
	_, found := session.Client().Cache().Peek(ctx, client.CurrentUserKey)
	assert.False(t, found)
}

func TestUserStoreRefreshRefetches(t *testing.T) {
	ctx := context.Background()
	user := &models.User{Email: "jamie@example.com", FullName: "Jamie"}
	session, requests := newTestSession(t, user)

	_, err := session.Users.Refresh(ctx)
	require.NoError(t, err)

	user.FullName = "Jamie Doe"
	refreshed, err := session.Users.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jamie Doe", refreshed.FullName)
	assert.Equal(t, int32(2), requests.Load())

	current, _ := session.Users.Current()
	assert.Equal(t, "Jamie Doe", current.FullName)
}

func TestConfigCurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	session, _ := newTestSession(t, &models.User{})
	_, err := session.Config.Refresh(ctx)
	require.NoError(t, err)

	config, _ := session.Config.Current()
	config.Features["invitations"] = false
	assert.True(t, session.Config.Enabled("invitations"))
}
