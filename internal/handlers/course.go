package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// CreateCourse adds a Course to the catalog
// @Summary      Create a Course
// @Id           CreateCourse
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Param        Course  body     models.AddCourse  true  "Add Course"
// @Success      201  {object}  models.Course
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/courses [post]
func (api *API) CreateCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateCourse")
	defer span.End()

	var request models.AddCourse
	if !bindJSON(c, &request) {
		return
	}
	if request.Title == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("title"))
		return
	}
	course := models.Course{
		Title:       request.Title,
		Description: request.Description,
		Level:       request.Level,
	}
	if res := api.db.WithContext(ctx).Create(&course); res.Error != nil {
		api.sendWriteError(c, res.Error, course.ID)
		return
	}
	span.SetAttributes(attribute.String("id", course.ID.String()))
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(course))
}

// ListCourses lists the course catalog
// @Summary      List Courses
// @Id           ListCourses
// @Tags         Courses
// @Produce      json
// @Param        search  query  string  false  "Matches title or description"
// @Param        level   query  string  false  "Level"
// @Success      200  {object}  []models.Course
// @Router       /api/courses [get]
func (api *API) ListCourses(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListCourses")
	defer span.End()

	scopes := []func(*gorm.DB) *gorm.DB{searchFilter(c.Query("search"), "title", "description")}
	if level := c.Query("level"); level != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("level = ?", level)
		})
	}
	sendList[models.Course](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "title",
		sortable:     []string{"title", "level"},
		scopes:       scopes,
	})
}

// GetCourse gets a Course by ID
// @Summary      Get Course
// @Id           GetCourse
// @Tags         Courses
// @Produce      json
// @Param        id   path      string true "Course ID"
// @Success      200  {object}  models.Course
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/courses/{id} [get]
func (api *API) GetCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var course models.Course
	if !findByID(api, c, api.db.WithContext(ctx), "course", &course) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(course))
}

// UpdateCourse replaces a Course
// @Summary      Update Course
// @Id           UpdateCourse
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Param        id      path      string               true "Course ID"
// @Param        Course  body      models.UpdateCourse  true "Update Course"
// @Success      200  {object}  models.Course
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/courses/{id} [put]
func (api *API) UpdateCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateCourse
	if !bindJSON(c, &request) {
		return
	}
	if request.Title == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("title"))
		return
	}
	db := api.db.WithContext(ctx)
	var course models.Course
	if !findByID(api, c, db, "course", &course) {
		return
	}
	course.Title = request.Title
	course.Description = request.Description
	course.Level = request.Level
	if res := db.Select("title", "description", "level", "updated_at").Updates(&course); res.Error != nil {
		api.sendWriteError(c, res.Error, course.ID)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(course))
}

// DeleteCourse removes a Course from the catalog and from every organization and team
// @Summary      Delete Course
// @Id           DeleteCourse
// @Tags         Courses
// @Param        id   path      string  true "Course ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/courses/{id} [delete]
func (api *API) DeleteCourse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteCourse",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var course models.Course
	if !findByID(api, c, api.db.WithContext(ctx), "course", &course) {
		return
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		for _, table := range []string{"user_courses", "team_courses"} {
			if res := tx.Exec("DELETE FROM "+table+" WHERE course_id = ?", course.ID); res.Error != nil {
				return res.Error
			}
		}
		if res := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.OrgCourse{}); res.Error != nil {
			return res.Error
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}
	api.forgetStats()
	c.Status(http.StatusNoContent)
}
