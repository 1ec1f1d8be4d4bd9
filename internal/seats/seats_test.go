package seats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/querycache"
	"github.com/huddle-io/huddle/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type seatUpdate struct {
	SeatID string
	UserID *uuid.UUID
}

// fakeAPI serves the seat and user endpoints the workflows use.
type fakeAPI struct {
	mu          sync.Mutex
	seats       []*models.Seat
	users       map[uuid.UUID]*models.User
	currentUser uuid.UUID
	updates     []seatUpdate
}

func (f *fakeAPI) userWithSeat(id uuid.UUID) (models.User, bool) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, false
	}
	user := *u
	user.Seat = nil
	for _, s := range f.seats {
		if s.UserID != nil && *s.UserID == id {
			seat := *s
			user.Seat = &seat
		}
	}
	return user, true
}

func (f *fakeAPI) handler() http.Handler {
	write := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/seats", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var result []models.Seat
		for _, s := range f.seats {
			if s.OrganizationID.String() != r.URL.Query().Get("organization_id") {
				continue
			}
			if r.URL.Query().Get("available") == "true" && !s.Available() {
				continue
			}
			result = append(result, *s)
		}
		write(w, http.StatusOK, models.NewListResponse(result, models.Meta{Total: int64(len(result))}))
	})
	mux.HandleFunc("PUT /api/seats/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body models.UpdateSeat
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			write(w, http.StatusBadRequest, models.NewBadPayloadError())
			return
		}
		f.updates = append(f.updates, seatUpdate{SeatID: r.PathValue("id"), UserID: body.UserID})
		for _, s := range f.seats {
			if s.ID.String() == r.PathValue("id") {
				s.UserID = body.UserID
				write(w, http.StatusOK, models.NewResponse(*s))
				return
			}
		}
		write(w, http.StatusNotFound, models.NewNotFoundError("seat"))
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		user, _ := f.userWithSeat(f.currentUser)
		write(w, http.StatusOK, models.NewResponse(user))
	})
	mux.HandleFunc("GET /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			write(w, http.StatusBadRequest, models.NewBadPathParameterError("id"))
			return
		}
		user, ok := f.userWithSeat(id)
		if !ok {
			write(w, http.StatusNotFound, models.NewNotFoundError("user"))
			return
		}
		write(w, http.StatusOK, models.NewResponse(user))
	})
	return mux
}

func (f *fakeAPI) Updates() []seatUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]seatUpdate(nil), f.updates...)
}

func newSeat(orgID uuid.UUID, userID *uuid.UUID) *models.Seat {
	s := &models.Seat{OrganizationID: orgID, UserID: userID}
	s.ID = uuid.New()
	return s
}

func newUser(email string, orgID uuid.UUID) *models.User {
	u := &models.User{Email: email, OrganizationID: &orgID, Role: models.RoleMember}
	u.ID = uuid.New()
	return u
}

func setup(t *testing.T, api *fakeAPI) (*Assigner, *client.Client, *state.Session) {
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	logger := zaptest.NewLogger(t).Sugar()
	c, err := client.NewClient(context.Background(), server.URL, client.WithLogger(logger))
	require.NoError(t, err)
	session := state.NewSession(c, logger)
	return NewAssigner(c, session, logger), c, session
}

func TestAssignSeatPicksFreeSeat(t *testing.T) {
	ctx := context.Background()
	org1 := uuid.New()
	userA := newUser("a@fc-riverside.example.com", org1)
	userB := newUser("b@fc-riverside.example.com", org1)
	occupied := newSeat(org1, &userA.ID)
	free := newSeat(org1, nil)

	api := &fakeAPI{
		seats:       []*models.Seat{occupied, free},
		users:       map[uuid.UUID]*models.User{userA.ID: userA, userB.ID: userB},
		currentUser: userB.ID,
	}
	assigner, c, session := setup(t, api)

	for _, resource := range []string{"users", "filtered-users"} {
		require.NoError(t, c.Cache().Set(ctx, querycache.ListKey(resource, ""), querycache.Entry{Data: json.RawMessage(`[]`)}))
	}
	_, err := session.Users.Refresh(ctx)
	require.NoError(t, err)
	current, _ := session.Users.Current()
	require.Nil(t, current.Seat)

	seat, err := assigner.AssignSeat(ctx, org1, userB.ID)
	require.NoError(t, err)
	assert.Equal(t, free.ID, seat.ID)

	updates := api.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, free.ID.String(), updates[0].SeatID)
	require.NotNil(t, updates[0].UserID)
	assert.Equal(t, userB.ID, *updates[0].UserID)

	for _, resource := range []string{"users", "filtered-users"} {
		entry, found := c.Cache().Peek(ctx, querycache.ListKey(resource, ""))
		require.True(t, found, resource)
		assert.True(t, entry.Stale, resource)
	}
	entry, found := c.Cache().Peek(ctx, querycache.EntityKey("seats", free.ID.String()))
	require.True(t, found)
	assert.True(t, entry.Stale)

	current, ok := session.Users.Current()
	require.True(t, ok)
	require.NotNil(t, current.Seat)
	assert.Equal(t, free.ID, current.Seat.ID)
}

func TestAssignSeatWithoutAvailableSeat(t *testing.T) {
	org1 := uuid.New()
	userA := newUser("a@fc-riverside.example.com", org1)
	userB := newUser("b@fc-riverside.example.com", org1)

	api := &fakeAPI{
		seats: []*models.Seat{newSeat(org1, &userA.ID)},
		users: map[uuid.UUID]*models.User{userA.ID: userA, userB.ID: userB},
	}
	assigner, _, _ := setup(t, api)

	_, err := assigner.AssignSeat(context.Background(), org1, userB.ID)
	require.ErrorIs(t, err, ErrNoSeatAvailable)
	assert.Empty(t, api.Updates())
}

func TestUnassignSeat(t *testing.T) {
	ctx := context.Background()
	org1 := uuid.New()
	userA := newUser("a@fc-riverside.example.com", org1)
	seat := newSeat(org1, &userA.ID)

	api := &fakeAPI{
		seats:       []*models.Seat{seat},
		users:       map[uuid.UUID]*models.User{userA.ID: userA},
		currentUser: userA.ID,
	}
	assigner, _, session := setup(t, api)

	released, err := assigner.UnassignSeat(ctx, userA.ID)
	require.NoError(t, err)
	assert.Equal(t, seat.ID, released.ID)
	assert.Nil(t, released.UserID)

	updates := api.Updates()
	require.Len(t, updates, 1)
	assert.Nil(t, updates[0].UserID)

	current, ok := session.Users.Current()
	require.True(t, ok)
	assert.Nil(t, current.Seat)

	_, err = assigner.UnassignSeat(ctx, userA.ID)
	require.ErrorIs(t, err, ErrUserHasNoSeat)
	assert.Len(t, api.Updates(), 1)
}
