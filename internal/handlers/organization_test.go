package handlers

import (
	"net/http"

	"github.com/huddle-io/huddle/internal/models"
)

func (suite *HandlerTestSuite) TestCreateOrganization() {
	require := suite.Require()
	assert := suite.Assert()

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/",
		models.AddOrganization{Name: "hc-hilltop", Description: "Hilltop Hockey Club", Sport: "hockey"},
		suite.api.CreateOrganization)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())

	org := decode[models.Organization](suite.T(), res)
	assert.Equal("hc-hilltop", org.Name)
	require.NotNil(org.Subscription)
	assert.Equal(models.PlanFree, org.Subscription.Plan)
	assert.Equal(models.FreePlanSeatLimit, org.Subscription.SeatLimit)
	assert.Equal(models.SubscriptionActive, org.Subscription.Status)
	require.NotNil(org.Profile)
	assert.Equal("Hilltop Hockey Club", org.Profile.DisplayName)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/",
		models.AddOrganization{Name: "hc-hilltop"},
		suite.api.CreateOrganization)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestCreateOrganizationWithSeatLimit() {
	require := suite.Require()

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodPost, "/", "/",
		models.AddOrganization{Name: "sc-seaside", SeatLimit: 40},
		suite.api.CreateOrganization)
	require.Equal(http.StatusCreated, res.Code, res.Body.String())
	org := decode[models.Organization](suite.T(), res)
	require.Equal(models.PlanStandard, org.Subscription.Plan)
	require.Equal(40, org.Subscription.SeatLimit)
}

func (suite *HandlerTestSuite) TestCreateOrganizationRequiresSuperadmin() {
	res := suite.ServeRequest(suite.admin.ID, http.MethodPost, "/", "/",
		models.AddOrganization{Name: "hc-hilltop"},
		suite.api.RequireRole(models.RoleSuperAdmin), suite.api.CreateOrganization)
	suite.Require().Equal(http.StatusForbidden, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestListOrganizationsIsScoped() {
	require := suite.Require()

	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/", "/", nil, suite.api.ListOrganizations)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	orgs := decode[[]models.Organization](suite.T(), res)
	require.Len(orgs, 1)
	require.Equal(suite.org.ID, orgs[0].ID)
	require.NotNil(orgs[0].Subscription)

	res = suite.ServeRequest(suite.superadmin.ID, http.MethodGet, "/", "/?sort=-name", nil, suite.api.ListOrganizations)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	orgs = decode[[]models.Organization](suite.T(), res)
	require.Len(orgs, 2)
	require.Equal("fc-riverside", orgs[0].Name)
	require.Equal("2", res.Header().Get(TotalCountHeader))

	res = suite.ServeRequest(suite.outsider.ID, http.MethodGet, "/", "/", nil, suite.api.ListOrganizations)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	require.Empty(decode[[]models.Organization](suite.T(), res))
}

func (suite *HandlerTestSuite) TestGetOrganizationOfAnotherOrganization() {
	res := suite.ServeRequest(suite.member.ID, http.MethodGet, "/:id", "/"+suite.otherOrg.ID.String(), nil, suite.api.GetOrganization)
	suite.Require().Equal(http.StatusNotFound, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestUpdateOrganization() {
	require := suite.Require()
	update := models.UpdateOrganization{Name: "fc-riverside", Description: "Riverside FC", Sport: "football"}

	res := suite.ServeRequest(suite.member.ID, http.MethodPut, "/:id", "/"+suite.org.ID.String(), update, suite.api.UpdateOrganization)
	require.Equal(http.StatusForbidden, res.Code, res.Body.String())

	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.org.ID.String(), update, suite.api.UpdateOrganization)
	require.Equal(http.StatusOK, res.Code, res.Body.String())
	org := decode[models.Organization](suite.T(), res)
	require.Equal("Riverside FC", org.Description)

	update.Name = suite.otherOrg.Name
	res = suite.ServeRequest(suite.admin.ID, http.MethodPut, "/:id", "/"+suite.org.ID.String(), update, suite.api.UpdateOrganization)
	require.Equal(http.StatusConflict, res.Code, res.Body.String())
}

func (suite *HandlerTestSuite) TestDeleteOrganization() {
	require := suite.Require()

	res := suite.ServeRequest(suite.superadmin.ID, http.MethodDelete, "/:id", "/"+suite.org.ID.String(), nil, suite.api.DeleteOrganization)
	require.Equal(http.StatusNoContent, res.Code, res.Body.String())

	var seats int64
	require.NoError(suite.api.db.Model(&models.Seat{}).Where("organization_id = ?", suite.org.ID).Count(&seats).Error)
	require.Zero(seats)

	var member models.User
	require.NoError(suite.api.db.First(&member, "id = ?", suite.member.ID).Error)
	require.Nil(member.OrganizationID)
}
