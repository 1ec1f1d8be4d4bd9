package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// CreateProfile creates the public Profile of an Organization
// @Summary      Create a Profile
// @Id           CreateProfile
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Param        Profile  body     models.AddProfile  true  "Add Profile"
// @Success      201  {object}  models.Profile
// @Failure      403  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/profiles [post]
func (api *API) CreateProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateProfile")
	defer span.End()

	var request models.AddProfile
	if !bindJSON(c, &request) {
		return
	}
	if !api.CanManageOrganization(c, request.OrganizationID) {
		return
	}
	profile := models.Profile{
		OrganizationID: request.OrganizationID,
		DisplayName:    request.DisplayName,
		Address:        request.Address,
		Website:        request.Website,
		ContactEmail:   request.ContactEmail,
		LogoURL:        request.LogoURL,
	}
	if res := api.db.WithContext(ctx).Create(&profile); res.Error != nil {
		api.sendWriteError(c, res.Error, request.OrganizationID)
		return
	}
	c.JSON(http.StatusCreated, models.NewResponse(profile))
}

// ListProfiles lists Profiles
// @Summary      List Profiles
// @Id           ListProfiles
// @Tags         Profiles
// @Produce      json
// @Success      200  {object}  []models.Profile
// @Router       /api/profiles [get]
func (api *API) ListProfiles(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListProfiles")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	sendList[models.Profile](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "display_name",
		sortable:     []string{"display_name"},
		scopes:       []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter},
	})
}

// GetProfile gets a Profile by ID
// @Summary      Get Profile
// @Id           GetProfile
// @Tags         Profiles
// @Produce      json
// @Param        id   path      string true "Profile ID"
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/profiles/{id} [get]
func (api *API) GetProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetProfile",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var profile models.Profile
	db := api.db.WithContext(ctx).Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "profile", &profile) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(profile))
}

// UpdateProfile replaces the fields of a Profile
// @Summary      Update Profile
// @Id           UpdateProfile
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Param        id       path      string                true "Profile ID"
// @Param        Profile  body      models.UpdateProfile  true "Update Profile"
// @Success      200  {object}  models.Profile
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/profiles/{id} [put]
func (api *API) UpdateProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateProfile",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateProfile
	if !bindJSON(c, &request) {
		return
	}
	db := api.db.WithContext(ctx)
	var profile models.Profile
	if !findByID(api, c, db, "profile", &profile) {
		return
	}
	if !api.CanManageOrganization(c, profile.OrganizationID) {
		return
	}
	profile.DisplayName = request.DisplayName
	profile.Address = request.Address
	profile.Website = request.Website
	profile.ContactEmail = request.ContactEmail
	profile.LogoURL = request.LogoURL
	if res := db.Select("display_name", "address", "website", "contact_email", "logo_url", "updated_at").Updates(&profile); res.Error != nil {
		api.sendWriteError(c, res.Error, profile.ID)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(profile))
}

// DeleteProfile deletes a Profile
// @Summary      Delete Profile
// @Id           DeleteProfile
// @Tags         Profiles
// @Param        id   path      string  true "Profile ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/profiles/{id} [delete]
func (api *API) DeleteProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteProfile",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var profile models.Profile
	if !findByID(api, c, db, "profile", &profile) {
		return
	}
	if !api.CanManageOrganization(c, profile.OrganizationID) {
		return
	}
	if res := db.Unscoped().Delete(&profile); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	c.Status(http.StatusNoContent)
}
