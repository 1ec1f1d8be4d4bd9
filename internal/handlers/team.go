package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var errCoachNotFound = errors.New("coach is not a member of the organization")

// loadCoaches finds the users named by ids within orgID.
func loadCoaches(tx *gorm.DB, orgID uuid.UUID, ids []uuid.UUID) ([]*models.User, error) {
	coaches := make([]*models.User, 0, len(ids))
	if len(ids) == 0 {
		return coaches, nil
	}
	if res := tx.Where("id IN ? AND organization_id = ?", ids, orgID).Find(&coaches); res.Error != nil {
		return nil, res.Error
	}
	if len(coaches) != len(ids) {
		return nil, errCoachNotFound
	}
	return coaches, nil
}

// CreateTeam creates a Team
// @Summary      Create a Team
// @Id           CreateTeam
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        Team  body     models.AddTeam  true  "Add Team"
// @Success      201  {object}  models.Team
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Router       /api/teams [post]
func (api *API) CreateTeam(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateTeam")
	defer span.End()

	var request models.AddTeam
	if !bindJSON(c, &request) {
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	if !api.CanManageOrganization(c, request.OrganizationID) {
		return
	}

	team := models.Team{
		OrganizationID: request.OrganizationID,
		Name:           request.Name,
		Category:       request.Category,
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		coaches, err := loadCoaches(tx, request.OrganizationID, request.CoachIDs)
		if err != nil {
			return err
		}
		team.Coaches = coaches
		return tx.Create(&team).Error
	})
	if errors.Is(err, errCoachNotFound) {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("coach_ids", err.Error()))
		return
	}
	if err != nil {
		api.sendWriteError(c, err, team.ID)
		return
	}
	span.SetAttributes(attribute.String("id", team.ID.String()))
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(team))
}

// ListTeams lists Teams
// @Summary      List Teams
// @Id           ListTeams
// @Tags         Teams
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Success      200  {object}  []models.Team
// @Router       /api/teams [get]
func (api *API) ListTeams(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListTeams")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	sendList[models.Team](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "name",
		sortable:     []string{"name", "category"},
		scopes:       []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter},
		preloads:     []string{"Coaches", "Courses"},
	})
}

// GetTeam gets a Team with its coaches and courses
// @Summary      Get Team
// @Id           GetTeam
// @Tags         Teams
// @Produce      json
// @Param        id   path      string true "Team ID"
// @Success      200  {object}  models.Team
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/teams/{id} [get]
func (api *API) GetTeam(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetTeam",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var team models.Team
	db := api.db.WithContext(ctx).
		Preload("Coaches").
		Preload("Courses").
		Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "team", &team) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(team))
}

// UpdateTeam replaces the name, category and coaches of a Team
// @Summary      Update Team
// @Id           UpdateTeam
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        id    path      string             true "Team ID"
// @Param        Team  body      models.UpdateTeam  true "Update Team"
// @Success      200  {object}  models.Team
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Router       /api/teams/{id} [put]
func (api *API) UpdateTeam(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateTeam",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateTeam
	if !bindJSON(c, &request) {
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	db := api.db.WithContext(ctx)
	var team models.Team
	if !findByID(api, c, db, "team", &team) {
		return
	}
	if !api.CanManageOrganization(c, team.OrganizationID) {
		return
	}

	team.Name = request.Name
	team.Category = request.Category
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		coaches, err := loadCoaches(tx, team.OrganizationID, request.CoachIDs)
		if err != nil {
			return err
		}
		if res := tx.Select("name", "category", "updated_at").Updates(&team); res.Error != nil {
			return res.Error
		}
		return tx.Model(&team).Association("Coaches").Replace(coaches)
	})
	if errors.Is(err, errCoachNotFound) {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("coach_ids", err.Error()))
		return
	}
	if err != nil {
		api.sendWriteError(c, err, team.ID)
		return
	}
	if res := db.Preload("Coaches").Preload("Courses").First(&team, "id = ?", team.ID); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(team))
}

// DeleteTeam deletes a Team
// @Summary      Delete Team
// @Id           DeleteTeam
// @Tags         Teams
// @Param        id   path      string  true "Team ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/teams/{id} [delete]
func (api *API) DeleteTeam(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteTeam",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var team models.Team
	if !findByID(api, c, db, "team", &team) {
		return
	}
	if !api.CanManageOrganization(c, team.OrganizationID) {
		return
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		for _, table := range []string{"team_coaches", "team_courses"} {
			if res := tx.Exec("DELETE FROM "+table+" WHERE team_id = ?", team.ID); res.Error != nil {
				return res.Error
			}
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}
	api.forgetStats()
	c.Status(http.StatusNoContent)
}
