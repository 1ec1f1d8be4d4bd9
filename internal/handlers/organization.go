package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

func preloadOrganization(db *gorm.DB) *gorm.DB {
	return db.Preload("Subscription").Preload("Profile")
}

// CreateOrganization creates a new Organization with its subscription and profile
// @Summary      Create an Organization
// @Description  Creates an organization, a subscription sized by seat_limit and an empty profile
// @Id           CreateOrganization
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        Organization  body     models.AddOrganization  true  "Add Organization"
// @Success      201  {object}  models.Organization
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse "Internal Server Error"
// @Router       /api/organizations [post]
func (api *API) CreateOrganization(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateOrganization")
	defer span.End()

	var request models.AddOrganization
	if !bindJSON(c, &request) {
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	if request.SeatLimit < 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("seat_limit", "must not be negative"))
		return
	}

	plan, seatLimit := models.PlanStandard, request.SeatLimit
	if seatLimit == 0 {
		plan, seatLimit = models.PlanFree, models.FreePlanSeatLimit
	}

	org := models.Organization{
		Name:        request.Name,
		Description: request.Description,
		Sport:       request.Sport,
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Create(&org); res.Error != nil {
			return res.Error
		}
		org.Subscription = &models.Subscription{
			OrganizationID: org.ID,
			Plan:           plan,
			Status:         models.SubscriptionActive,
			SeatLimit:      seatLimit,
		}
		if res := tx.Create(org.Subscription); res.Error != nil {
			return res.Error
		}
		org.Profile = &models.Profile{
			OrganizationID: org.ID,
			DisplayName:    request.Description,
		}
		return tx.Create(org.Profile).Error
	})
	if err != nil {
		api.sendWriteError(c, err, org.ID)
		return
	}

	span.SetAttributes(attribute.String("id", org.ID.String()))
	api.Logger(ctx).Infow("organization created", "id", org.ID, "name", org.Name, "plan", plan)
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(org))
}

// ListOrganizations lists the Organizations visible to the current user
// @Summary      List Organizations
// @Id           ListOrganizations
// @Tags         Organizations
// @Produce      json
// @Param        sport      query  string  false  "Sport"
// @Param        page       query  int     false  "Page"
// @Param        page_size  query  int     false  "Page size"
// @Param        sort       query  string  false  "Sort column, prefixed by - for descending"
// @Success      200  {object}  []models.Organization
// @Router       /api/organizations [get]
func (api *API) ListOrganizations(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListOrganizations")
	defer span.End()

	scopes := []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "id")}
	if sport := c.Query("sport"); sport != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("sport = ?", sport)
		})
	}
	sendList[models.Organization](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "name",
		sortable:     []string{"name", "sport"},
		scopes:       scopes,
		preloads:     []string{"Subscription", "Profile"},
	})
}

// GetOrganization gets an Organization by ID
// @Summary      Get Organization
// @Id           GetOrganization
// @Tags         Organizations
// @Produce      json
// @Param        id   path      string true "Organization ID"
// @Success      200  {object}  models.Organization
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/organizations/{id} [get]
func (api *API) GetOrganization(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetOrganization",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var org models.Organization
	db := preloadOrganization(api.db.WithContext(ctx)).Scopes(api.OrganizationScope(c, "id"))
	if !findByID(api, c, db, "organization", &org) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(org))
}

// UpdateOrganization replaces the name, description and sport of an Organization
// @Summary      Update Organization
// @Id           UpdateOrganization
// @Tags         Organizations
// @Accept       json
// @Produce      json
// @Param        id            path      string                     true "Organization ID"
// @Param        Organization  body      models.UpdateOrganization  true "Update Organization"
// @Success      200  {object}  models.Organization
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/organizations/{id} [put]
func (api *API) UpdateOrganization(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateOrganization",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateOrganization
	if !bindJSON(c, &request) {
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}

	var org models.Organization
	db := api.db.WithContext(ctx)
	if !findByID(api, c, db, "organization", &org) {
		return
	}
	if !api.CanManageOrganization(c, org.ID) {
		return
	}

	org.Name = request.Name
	org.Description = request.Description
	org.Sport = request.Sport
	if res := db.Select("name", "description", "sport", "updated_at").Updates(&org); res.Error != nil {
		api.sendWriteError(c, res.Error, org.ID)
		return
	}
	if res := preloadOrganization(db).First(&org, "id = ?", org.ID); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(org))
}

// DeleteOrganization deletes an Organization with everything it owns. Its
// users stay but leave the organization.
// @Summary      Delete Organization
// @Id           DeleteOrganization
// @Tags         Organizations
// @Param        id   path      string  true "Organization ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/organizations/{id} [delete]
func (api *API) DeleteOrganization(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteOrganization",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var org models.Organization
	if !findByID(api, c, api.db.WithContext(ctx), "organization", &org) {
		return
	}

	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Model(&models.User{}).Where("organization_id = ?", org.ID).Update("organization_id", nil); res.Error != nil {
			return res.Error
		}
		if res := tx.Exec("DELETE FROM team_courses WHERE team_id IN (SELECT id FROM teams WHERE organization_id = ?)", org.ID); res.Error != nil {
			return res.Error
		}
		if res := tx.Exec("DELETE FROM team_coaches WHERE team_id IN (SELECT id FROM teams WHERE organization_id = ?)", org.ID); res.Error != nil {
			return res.Error
		}
		for _, table := range []any{&models.Seat{}, &models.OrgCourse{}, &models.Team{}, &models.InvitationCode{}, &models.Subscription{}, &models.Profile{}} {
			if res := tx.Unscoped().Where("organization_id = ?", org.ID).Delete(table); res.Error != nil {
				return res.Error
			}
		}
		return tx.Delete(&org).Error
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}

	api.Logger(ctx).Infow("organization deleted", "id", org.ID, "name", org.Name)
	api.forgetStats()
	c.Status(http.StatusNoContent)
}
