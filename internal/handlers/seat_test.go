package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (suite *HandlerTestSuite) TestCreateSeatEnforcesSeatLimit() {
	require := suite.Require()
	add := models.AddSeat{OrganizationID: suite.org.ID}

	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateSeat)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateSeat)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())
	apiErr := decodeError(suite.T(), res)
	require.Equal("seat limit of the subscription reached", apiErr.Reason)

	var count int64
	require.NoError(suite.api.db.Model(&models.Seat{}).Where("organization_id = ?", suite.org.ID).Count(&count).Error)
	require.EqualValues(suite.subscription.SeatLimit, count)
}

func (suite *HandlerTestSuite) TestCreateSeatWithoutSubscription() {
	res := suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/",
		models.AddSeat{OrganizationID: suite.otherOrg.ID}, suite.api.CreateSeat)
	suite.Require().Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestCreateSeatInAnotherOrganization() {
	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddSeat{OrganizationID: suite.otherOrg.ID}, suite.api.CreateSeat)
	suite.Require().Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestListSeatsFilters() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?available=true", nil, suite.api.ListSeats)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	seats := decode[[]models.Seat](suite.T(), res)
	require.Len(seats, 1)
	require.Equal(suite.freeSeat.ID, seats[0].ID)

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?user_id="+suite.member.ID.String(), nil, suite.api.ListSeats)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	seats = decode[[]models.Seat](suite.T(), res)
	require.Len(seats, 1)
	require.Equal(suite.heldSeat.ID, seats[0].ID)
	require.NotNil(seats[0].User)
	require.Equal(suite.member.Email, seats[0].User.Email)

	res = suite.ServeRequest(suite.otherMember.ID, http.MethodGet, "/", "/", nil, suite.api.ListSeats)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Empty(decode[[]models.Seat](suite.T(), res))

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?available=maybe", nil, suite.api.ListSeats)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestClaimFreeSeat() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.freeSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.member2.ID}, suite.api.UpdateSeat)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	seat := decode[models.Seat](suite.T(), res)
	require.Equal(suite.member2.ID, *seat.UserID)
	require.NotNil(seat.User)
}

func (suite *HandlerTestSuite) TestClaimHeldSeatConflicts() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.heldSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.member2.ID}, suite.api.UpdateSeat)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())
	apiErr := decodeError(suite.T(), res)
	require.Equal(suite.heldSeat.ID.String(), apiErr.ID)

	var seat models.Seat
	require.NoError(suite.api.db.First(&seat, "id = ?", suite.heldSeat.ID).Error)
	require.Equal(suite.member.ID, *seat.UserID)

	// reassigning the holder is a no-op
	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.heldSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.member.ID}, suite.api.UpdateSeat)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestUserHoldsOneSeat() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.freeSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.member.ID}, suite.api.UpdateSeat)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())
	apiErr := decodeError(suite.T(), res)
	require.Equal("user already holds a seat", apiErr.Reason)
}

func (suite *HandlerTestSuite) TestClaimSeatForUserOfAnotherOrganization() {
	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.freeSeat.ID.String(),
		models.UpdateSeat{UserID: &suite.otherMember.ID}, suite.api.UpdateSeat)
	suite.Require().Equal(http.StatusForbidden, res.Code, res.Body.String())

	unknown := uuid.New()
	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.freeSeat.ID.String(),
		models.UpdateSeat{UserID: &unknown}, suite.api.UpdateSeat)
	suite.Require().Equal(http.StatusBadRequest, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestReleaseAndDeleteSeat() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.heldSeat.ID.String(),
		models.UpdateSeat{}, suite.api.UpdateSeat)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.True(decode[models.Seat](suite.T(), res).Available())

	res = suite.ServeRequest(suite.member.ID, http.MethodDelete, "/:id", "/"+suite.heldSeat.ID.String(), nil, suite.api.DeleteSeat)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodDelete, "/:id", "/"+suite.heldSeat.ID.String(), nil, suite.api.DeleteSeat)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/:id", "/"+suite.heldSeat.ID.String(), nil, suite.api.GetSeat)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())
}

func TestLockSubscriptionLocksRow(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=huddle"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	orgID := uuid.New()
	query := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var sub models.Subscription
		return lockSubscription(tx, orgID, &sub)
	})
	assert.Contains(t, query, `FROM "subscriptions"`)
	assert.Contains(t, query, orgID.String())
	assert.Contains(t, query, "FOR UPDATE")
}
