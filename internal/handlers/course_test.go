package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/models"
)

func (suite *HandlerTestSuite) createCourses(n int) []models.Course {
	courses := make([]models.Course, n)
	for i := range courses {
		courses[i] = models.Course{Title: fmt.Sprintf("Course %02d", i), Level: "beginner"}
	}
	suite.Require().NoError(suite.api.db.Create(&courses).Error)
	return courses
}

func (suite *HandlerTestSuite) TestListCoursesPagination() {
	require := suite.Require()
	suite.createCourses(30)

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/", nil, suite.api.ListCourses)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Len(decode[[]models.Course](suite.T(), res), DefaultPageSize)
	require.Equal("30", res.Header().Get(TotalCountHeader))

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/?page=2", nil, suite.api.ListCourses)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	var page models.Response[[]models.Course]
	require.NoError(jsonUnmarshal(res, &page))
	require.Len(page.Data, 5)
	require.NotNil(page.Meta)
	require.Equal(models.Meta{Total: 30, Page: 2, PageSize: DefaultPageSize}, *page.Meta)

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/?page_size=10&sort=-title", nil, suite.api.ListCourses)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	courses := decode[[]models.Course](suite.T(), res)
	require.Len(courses, 10)
	require.Equal("Course 29", courses[0].Title)

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/?search=course%2007", nil, suite.api.ListCourses)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Len(decode[[]models.Course](suite.T(), res), 1)

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/?page_size=500", nil, suite.api.ListCourses)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/?sort=secret", nil, suite.api.ListCourses)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())
	require.Equal("sort", decodeError(suite.T(), res).Field)
}

func (suite *HandlerTestSuite) TestCourseCRUD() {
	require := suite.Require()

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/", models.AddCourse{Title: "Set Pieces", Level: "advanced"}, suite.api.CreateCourse)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	course := decode[models.Course](suite.T(), res)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodPut, "/:id", "/"+course.ID.String(), models.UpdateCourse{Title: "Set Pieces II", Level: "advanced"}, suite.api.UpdateCourse)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Equal("Set Pieces II", decode[models.Course](suite.T(), res).Title)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodDelete, "/:id", "/"+course.ID.String(), nil, suite.api.DeleteCourse)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/:id", "/"+course.ID.String(), nil, suite.api.GetCourse)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestOrgCourseIsUnique() {
	require := suite.Require()
	course := suite.createCourses(1)[0]
	add := models.AddOrgCourse{OrganizationID: suite.org.ID, CourseID: course.ID}

	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateOrgCourse)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	created := decode[models.OrgCourse](suite.T(), res)
	require.Equal(course.Title, created.Title())

	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateOrgCourse)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())
	require.Equal(created.ID.String(), decodeError(suite.T(), res).ID)

	// a withdrawn course can be assigned again
	res = suite.ServeRequest(suite.admin.ID, http.MethodDelete, "/:id", "/"+created.ID.String(), nil, suite.api.DeleteOrgCourse)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())
	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateOrgCourse)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestOrgCourseValidation() {
	require := suite.Require()
	course := suite.createCourses(1)[0]

	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddOrgCourse{OrganizationID: suite.org.ID, CourseID: uuid.New()}, suite.api.CreateOrgCourse)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.member.ID, http.MethodPost, "/", "/",
		models.AddOrgCourse{OrganizationID: suite.org.ID, CourseID: course.ID}, suite.api.CreateOrgCourse)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	suite.api.fflags.RegisterFlag("course-overrides", func() bool { return false })
	defer suite.api.fflags.RegisterEnvFlag("course-overrides", "HUDDLE_FFLAG_COURSE_OVERRIDES", true)
	res = suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddOrgCourse{OrganizationID: suite.org.ID, CourseID: course.ID, OverrideTitle: "Keepers"}, suite.api.CreateOrgCourse)
	require.Equal(http.StatusMethodNotAllowed, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestOrgCourseOverride() {
	require := suite.Require()
	course := suite.createCourses(1)[0]
	orgCourse := models.OrgCourse{OrganizationID: suite.org.ID, CourseID: course.ID}
	require.NoError(suite.api.db.Create(&orgCourse).Error)

	res := suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+orgCourse.ID.String(),
		models.UpdateOrgCourse{OverrideTitle: "Riverside Keepers"}, suite.api.UpdateOrgCourse)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Equal("Riverside Keepers", decode[models.OrgCourse](suite.T(), res).Title())

	res = suite.ServeRequest(suite.otherMember.ID, http.MethodGet, "/", "/", nil, suite.api.ListOrgCourses)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Empty(decode[[]models.OrgCourse](suite.T(), res))
}

func (suite *HandlerTestSuite) TestTeamCoaches() {
	require := suite.Require()

	add := models.AddTeam{OrganizationID: suite.org.ID, Name: "U12 Blue", Category: "youth", CoachIDs: []uuid.UUID{suite.member2.ID}}
	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/", add, suite.api.CreateTeam)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	team := decode[models.Team](suite.T(), res)

	res = suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/"+team.ID.String(), nil, suite.api.GetTeam)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	team = decode[models.Team](suite.T(), res)
	require.Len(team.Coaches, 1)
	require.Equal(suite.member2.ID, team.Coaches[0].ID)

	update := models.UpdateTeam{Name: "U12 Blue", Category: "youth", CoachIDs: []uuid.UUID{suite.admin.ID, suite.member.ID}}
	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+team.ID.String(), update, suite.api.UpdateTeam)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Len(decode[models.Team](suite.T(), res).Coaches, 2)

	update.CoachIDs = []uuid.UUID{suite.otherMember.ID}
	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+team.ID.String(), update, suite.api.UpdateTeam)
	require.Equal(http.StatusBadRequest, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.otherMember.ID, http.MethodGet, "/:id", "/"+team.ID.String(), nil, suite.api.GetTeam)
	require.Equal(http.StatusNotFound, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodDelete, "/:id", "/"+team.ID.String(), nil, suite.api.DeleteTeam)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())
}
