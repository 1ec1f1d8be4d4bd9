package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// CreateOrgCourse assigns a catalog Course to an Organization. A course is
// assigned to an organization at most once.
// @Summary      Assign a Course to an Organization
// @Id           CreateOrgCourse
// @Tags         OrgCourses
// @Accept       json
// @Produce      json
// @Param        OrgCourse  body     models.AddOrgCourse  true  "Add OrgCourse"
// @Success      201  {object}  models.OrgCourse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      405  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/org-courses [post]
func (api *API) CreateOrgCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateOrgCourse")
	defer span.End()

	var request models.AddOrgCourse
	if !bindJSON(c, &request) {
		return
	}
	if request.OrganizationID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("organization_id"))
		return
	}
	if request.CourseID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("course_id"))
		return
	}
	if request.OverrideTitle != "" || request.OverrideDescription != "" {
		if !api.FlagCheck(c, "course-overrides") {
			return
		}
	}
	if !api.CanManageOrganization(c, request.OrganizationID) {
		return
	}

	db := api.db.WithContext(ctx)
	var course models.Course
	if res := db.First(&course, "id = ?", request.CourseID); res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, models.NewFieldValidationError("course_id", "course not found"))
		} else {
			api.SendInternalServerError(c, res.Error)
		}
		return
	}

	orgCourse := models.OrgCourse{
		OrganizationID:      request.OrganizationID,
		CourseID:            request.CourseID,
		OverrideTitle:       request.OverrideTitle,
		OverrideDescription: request.OverrideDescription,
	}
	if res := db.Create(&orgCourse); res.Error != nil {
		if database.IsDuplicateError(res.Error) {
			var existing models.OrgCourse
			db.Select("id").First(&existing, "organization_id = ? AND course_id = ?", request.OrganizationID, request.CourseID)
			c.JSON(http.StatusConflict, models.NewConflictsReasonError(existing.ID.String(), "course already assigned to the organization"))
			return
		}
		api.SendInternalServerError(c, res.Error)
		return
	}
	orgCourse.Course = &course
	span.SetAttributes(attribute.String("id", orgCourse.ID.String()))
	c.JSON(http.StatusCreated, models.NewResponse(orgCourse))
}

// ListOrgCourses lists the courses assigned to organizations
// @Summary      List OrgCourses
// @Id           ListOrgCourses
// @Tags         OrgCourses
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Param        course_id        query  string  false  "Course ID"
// @Success      200  {object}  []models.OrgCourse
// @Router       /api/org-courses [get]
func (api *API) ListOrgCourses(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListOrgCourses")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	courseFilter, ok := uuidFilter(c, "course_id", "course_id")
	if !ok {
		return
	}
	sendList[models.OrgCourse](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "created_at",
		scopes:       []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter, courseFilter},
		preloads:     []string{"Course"},
	})
}

// GetOrgCourse gets an OrgCourse by ID
// @Summary      Get OrgCourse
// @Id           GetOrgCourse
// @Tags         OrgCourses
// @Produce      json
// @Param        id   path      string true "OrgCourse ID"
// @Success      200  {object}  models.OrgCourse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/org-courses/{id} [get]
func (api *API) GetOrgCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetOrgCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var orgCourse models.OrgCourse
	db := api.db.WithContext(ctx).Preload("Course").Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "org-course", &orgCourse) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(orgCourse))
}

// UpdateOrgCourse replaces the organization specific title and description of a course
// @Summary      Update OrgCourse
// @Id           UpdateOrgCourse
// @Tags         OrgCourses
// @Accept       json
// @Produce      json
// @Param        id         path      string                  true "OrgCourse ID"
// @Param        OrgCourse  body      models.UpdateOrgCourse  true "Update OrgCourse"
// @Success      200  {object}  models.OrgCourse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      405  {object}  models.ErrorResponse
// @Router       /api/org-courses/{id} [put]
func (api *API) UpdateOrgCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateOrgCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	if !api.FlagCheck(c, "course-overrides") {
		return
	}
	var request models.UpdateOrgCourse
	if !bindJSON(c, &request) {
		return
	}
	db := api.db.WithContext(ctx)
	var orgCourse models.OrgCourse
	if !findByID(api, c, db.Preload("Course"), "org-course", &orgCourse) {
		return
	}
	if !api.CanManageOrganization(c, orgCourse.OrganizationID) {
		return
	}
	orgCourse.OverrideTitle = request.OverrideTitle
	orgCourse.OverrideDescription = request.OverrideDescription
	if res := db.Select("override_title", "override_description", "updated_at").Updates(&orgCourse); res.Error != nil {
		api.sendWriteError(c, res.Error, orgCourse.ID)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(orgCourse))
}

// DeleteOrgCourse withdraws a course from an organization and its teams
// @Summary      Delete OrgCourse
// @Id           DeleteOrgCourse
// @Tags         OrgCourses
// @Param        id   path      string  true "OrgCourse ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/org-courses/{id} [delete]
func (api *API) DeleteOrgCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteOrgCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var orgCourse models.OrgCourse
	if !findByID(api, c, db, "org-course", &orgCourse) {
		return
	}
	if !api.CanManageOrganization(c, orgCourse.OrganizationID) {
		return
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM team_courses WHERE course_id = ? AND team_id IN (SELECT id FROM teams WHERE organization_id = ?)",
			orgCourse.CourseID, orgCourse.OrganizationID)
		if res.Error != nil {
			return res.Error
		}
		// unscoped so the pair can be assigned again
		return tx.Unscoped().Delete(&orgCourse).Error
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
