package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/auth"
	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/fflags"
	"github.com/huddle-io/huddle/internal/handlers"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var signingKey = []byte("0123456789abcdef0123456789abcdef")

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	logger := zaptest.NewLogger(t).Sugar()
	db, err := database.NewTestDatabase()
	require.NoError(t, err)
	api, err := handlers.NewAPI(context.Background(), logger, db, fflags.NewFFlags(logger))
	require.NoError(t, err)
	router, err := NewAPIRouter(context.Background(), APIRouterOptions{
		Logger:         logger,
		Api:            api,
		SigningKey:     signingKey,
		AllowedOrigins: []string{"https://app.huddle.example.com"},
	})
	require.NoError(t, err)
	return router, db
}

func serve(router http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestAPIRouter(t *testing.T) {
	r := require.New(t)
	router, db := newTestRouter(t)

	member := models.User{Email: "jamie@example.com", Role: models.RoleMember}
	r.NoError(db.Create(&member).Error)
	token, err := auth.NewToken(signingKey, member.ID, time.Hour)
	r.NoError(err)

	t.Run("health checks need no token", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready", "", "").Code)
		require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/live", "", "").Code)
	})

	t.Run("page config needs no token", func(t *testing.T) {
		res := serve(router, http.MethodGet, "/api/config", "", "")
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		require.Contains(t, res.Body.String(), `"app_name":"huddle"`)
	})

	t.Run("missing token", func(t *testing.T) {
		res := serve(router, http.MethodGet, "/api/users/me", "", "")
		require.Equal(t, http.StatusUnauthorized, res.Code)
		require.Contains(t, res.Body.String(), "missing bearer token")
	})

	t.Run("bearer token", func(t *testing.T) {
		res := serve(router, http.MethodGet, "/api/users/me", token, "")
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		require.Contains(t, res.Body.String(), member.ID.String())
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	})

	t.Run("token signed with another key", func(t *testing.T) {
		forged, err := auth.NewToken([]byte("another key of enough length...."), member.ID, time.Hour)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/users/me", forged, "").Code)
	})

	t.Run("token of an unknown user", func(t *testing.T) {
		ghost, err := auth.NewToken(signingKey, uuid.New(), time.Hour)
		require.NoError(t, err)
		res := serve(router, http.MethodGet, "/api/users/me", ghost, "")
		require.Equal(t, http.StatusUnauthorized, res.Code)
		require.Contains(t, res.Body.String(), "user not found")
	})

	t.Run("superadmin routes", func(t *testing.T) {
		res := serve(router, http.MethodPost, "/api/organizations", token, `{"name":"fc-riverside"}`)
		require.Equal(t, http.StatusForbidden, res.Code, res.Body.String())
		res = serve(router, http.MethodGet, "/api/admin/stats", token, "")
		require.Equal(t, http.StatusForbidden, res.Code, res.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		res := serve(router, http.MethodGet, "/api/nothing-here", token, "")
		require.Equal(t, http.StatusNotFound, res.Code, res.Body.String())
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "https://app.huddle.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		require.Equal(t, "https://app.huddle.example.com", res.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLimiter(t *testing.T) {
	limiter := NewLimiter(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go limiter.Do(context.Background(), func() {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	canceled := limiter.Do(ctx, func() { ran = true })
	require.True(t, canceled)
	require.False(t, ran)

	close(release)
	require.Eventually(t, func() bool {
		return !limiter.Do(context.Background(), func() { ran = true })
	}, time.Second, 10*time.Millisecond)
	require.True(t, ran)
}
