package handlers

import (
	"net/http"

	"github.com/huddle-io/huddle/internal/models"
)

func (suite *HandlerTestSuite) TestAdminStats() {
	require := suite.Require()

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/", nil,
		suite.api.RequireRole(models.RoleSuperAdmin), suite.api.GetAdminStats)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	stats := decode[models.AdminStats](suite.T(), res)
	require.EqualValues(2, stats.Organizations)
	require.EqualValues(6, stats.Users)
	require.EqualValues(2, stats.Seats)
	require.EqualValues(1, stats.OccupiedSeats)
	require.EqualValues(0, stats.Courses)

	// memoized until a mutation goes through the api
	suite.createCourses(1)
	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/", nil, suite.api.GetAdminStats)
	require.EqualValues(0, decode[models.AdminStats](suite.T(), res).Courses)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/", models.AddCourse{Title: "Fitness"}, suite.api.CreateCourse)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/", nil, suite.api.GetAdminStats)
	require.EqualValues(2, decode[models.AdminStats](suite.T(), res).Courses)

	res = suite.ServeRequest(suite.admin.ID, http.MethodGet, "/", "/", nil,
		suite.api.RequireRole(models.RoleSuperAdmin), suite.api.GetAdminStats)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestPageConfig() {
	require := suite.Require()
	suite.api.Version = "v1.2.3"

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/", nil, suite.api.GetPageConfig)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	config := decode[models.PageConfig](suite.T(), res)
	require.Equal("huddle", config.AppName)
	require.Equal("v1.2.3", config.Version)
	require.True(config.Features["invitations"])
	require.False(config.Features["invitation-emails"])

	suite.api.Mailer = &fakeMailer{}
	suite.api.SmtpFrom = "no-reply@huddle.example.com"
	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/", nil, suite.api.GetPageConfig)
	require.True(decode[models.PageConfig](suite.T(), res).Features["invitation-emails"])
}

func (suite *HandlerTestSuite) TestFeedback() {
	require := suite.Require()

	res := suite.ServeRequest(suite.member.ID, http.MethodPost, "/", "/",
		models.AddFeedback{Message: "love the team page", Rating: 5, Page: "/teams"}, suite.api.CreateFeedback)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	feedback := decode[models.Feedback](suite.T(), res)
	require.Equal(suite.member.ID, *feedback.UserID)

	res = suite.ServeRequest(suite.member.ID, http.MethodPost, "/", "/",
		models.AddFeedback{Message: "meh", Rating: 0}, suite.api.CreateFeedback)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
	require.Equal("rating", decodeError(suite.T(), res).Field)

	res = suite.ServeRequest(suite.member.ID, http.MethodPost, "/", "/",
		models.AddFeedback{Message: "confusing", Rating: 2, Page: "/seats"}, suite.api.CreateFeedback)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/?min_rating=3", nil, suite.api.ListFeedback)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	entries := decode[[]models.Feedback](suite.T(), res)
	require.Len(entries, 1)
	require.Equal("/teams", entries[0].Page)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/?source_page=/seats", nil, suite.api.ListFeedback)
	require.Len(decode[[]models.Feedback](suite.T(), res), 1)
}

func (suite *HandlerTestSuite) TestFeatureFlags() {
	require := suite.Require()

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/:name", "/feedback", nil, suite.api.GetFeatureFlag)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Equal(map[string]bool{"feedback": true}, decode[map[string]bool](suite.T(), res))

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/:name", "/teleport", nil, suite.api.GetFeatureFlag)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestHealth() {
	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/", nil, suite.api.Ready)
	suite.Require().Equal(http.StatusOK, res.Code, res.Body.String())
}
