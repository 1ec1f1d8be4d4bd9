package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/models"
)

func (suite *HandlerTestSuite) TestGetUserMe() {
	require := suite.Require()

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/me", nil, suite.api.GetUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	user := decode[models.User](suite.T(), res)
	require.Equal(suite.member.ID, user.ID)
	require.NotNil(user.Seat)
	require.Equal(suite.heldSeat.ID, user.Seat.ID)

	res = suite.ServeRequest(suite.outsider.ID, http.MethodGet, "/:id", "/me", nil, suite.api.GetUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Nil(decode[models.User](suite.T(), res).Seat)
}

func (suite *HandlerTestSuite) TestGetUserIsScoped() {
	require := suite.Require()

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/"+suite.member2.ID.String(), nil, suite.api.GetUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/"+suite.otherMember.ID.String(), nil, suite.api.GetUser)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/not-a-uuid", nil, suite.api.GetUser)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestListFilteredUsers() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?role=coach", nil, suite.api.ListFilteredUsers)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	users := decode[[]models.User](suite.T(), res)
	require.Len(users, 1)
	require.Equal(suite.member2.ID, users[0].ID)

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?has_seat=true", nil, suite.api.ListFilteredUsers)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	users = decode[[]models.User](suite.T(), res)
	require.Len(users, 1)
	require.Equal(suite.member.ID, users[0].ID)

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?has_seat=false&search=FC-RIVERSIDE", nil, suite.api.ListFilteredUsers)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	users = decode[[]models.User](suite.T(), res)
	require.Len(users, 2)

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/?role=owner", nil, suite.api.ListFilteredUsers)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestCreateUser() {
	require := suite.Require()

	add := models.AddUser{Email: "robin@fc-riverside.example.com", FullName: "Robin", OrganizationID: &suite.org.ID}
	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateUser)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	require.Equal(models.RoleMember, decode[models.User](suite.T(), res).Role)

	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateUser)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())

	add = models.AddUser{Email: "boss@fc-riverside.example.com", Role: models.RoleSuperAdmin, OrganizationID: &suite.org.ID}
	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateUser)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	add = models.AddUser{Email: "lee@ac-lakeside.example.com", OrganizationID: &suite.otherOrg.ID}
	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateUser)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestUpdateUserCourses() {
	require := suite.Require()
	courses := []models.Course{{Title: "Goalkeeping"}, {Title: "Tactics"}}
	require.NoError(suite.api.db.Create(&courses).Error)

	update := models.UpdateUser{
		FullName:       "Jamie D.",
		Role:           suite.member.Role,
		OrganizationID: suite.member.OrganizationID,
		CourseIDs:      []uuid.UUID{courses[0].ID, courses[1].ID},
	}
	res := suite.ServeRequest(suite.member.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	user := decode[models.User](suite.T(), res)
	require.Equal("Jamie D.", user.FullName)
	require.Len(user.Courses, 2)

	update.CourseIDs = []uuid.UUID{courses[1].ID}
	res = suite.ServeRequest(suite.member.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	user = decode[models.User](suite.T(), res)
	require.Len(user.Courses, 1)
	require.Equal("Tactics", user.Courses[0].Title)

	update.CourseIDs = []uuid.UUID{uuid.New()}
	res = suite.ServeRequest(suite.member.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestUpdateUserRole() {
	require := suite.Require()
	update := models.UpdateUser{
		FullName:       suite.member.FullName,
		Role:           models.RoleAdmin,
		OrganizationID: suite.member.OrganizationID,
	}

	res := suite.ServeRequest(suite.member.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member2.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(),
		models.UpdateUser{FullName: "x", Role: suite.member.Role, OrganizationID: suite.member.OrganizationID}, suite.api.UpdateUser)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Equal(models.RoleAdmin, decode[models.User](suite.T(), res).Role)
}

func (suite *HandlerTestSuite) TestMoveUserToAnotherOrganizationFreesSeat() {
	require := suite.Require()
	update := models.UpdateUser{
		FullName:       suite.member.FullName,
		Role:           suite.member.Role,
		OrganizationID: &suite.otherOrg.ID,
	}

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodPut, "/:id", "/"+suite.member.ID.String(), update, suite.api.UpdateUser)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	user := decode[models.User](suite.T(), res)
	require.Equal(suite.otherOrg.ID, *user.OrganizationID)
	require.Nil(user.Seat)

	var seat models.Seat
	require.NoError(suite.api.db.First(&seat, "id = ?", suite.heldSeat.ID).Error)
	require.True(seat.Available())
}

func (suite *HandlerTestSuite) TestDeleteUserFreesSeat() {
	require := suite.Require()

	res := suite.ServeRequest(suite.admin.ID, http.MethodDelete, "/:id", "/"+suite.member.ID.String(), nil, suite.api.DeleteUser)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())

	var seat models.Seat
	require.NoError(suite.api.db.First(&seat, "id = ?", suite.heldSeat.ID).Error)
	require.True(seat.Available())

	res = suite.ServeRequest(suite.admin.ID, http.MethodDelete, "/:id", "/"+suite.otherMember.ID.String(), nil, suite.api.DeleteUser)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())
}
