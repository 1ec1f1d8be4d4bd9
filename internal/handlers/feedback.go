package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// CreateFeedback stores feedback sent by the current user
// @Summary      Send Feedback
// @Id           CreateFeedback
// @Tags         Feedback
// @Accept       json
// @Produce      json
// @Param        Feedback  body     models.AddFeedback  true  "Add Feedback"
// @Success      201  {object}  models.Feedback
// @Failure      400  {object}  models.ErrorResponse
// @Failure      405  {object}  models.ErrorResponse
// @Router       /api/feedback [post]
func (api *API) CreateFeedback(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateFeedback")
	defer span.End()

	if !api.FlagCheck(c, "feedback") {
		return
	}
	var request models.AddFeedback
	if !bindJSON(c, &request) {
		return
	}
	if request.Rating < 1 || request.Rating > 5 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("rating", "must be between 1 and 5"))
		return
	}
	if request.Message == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("message"))
		return
	}

	userID := api.GetCurrentUserID(c)
	feedback := models.Feedback{
		Message: request.Message,
		Rating:  request.Rating,
		Page:    request.Page,
		UserID:  &userID,
	}
	if res := api.db.WithContext(ctx).Create(&feedback); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	span.SetAttributes(attribute.String("id", feedback.ID.String()))
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(feedback))
}

// ListFeedback lists feedback entries
// @Summary      List Feedback
// @Id           ListFeedback
// @Tags         Feedback
// @Produce      json
// @Param        source_page  query  string  false  "Page the feedback was sent from"
// @Param        min_rating   query  int     false  "Minimum rating"
// @Success      200  {object}  []models.Feedback
// @Router       /api/feedback [get]
func (api *API) ListFeedback(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListFeedback")
	defer span.End()

	var filter struct {
		SourcePage string `form:"source_page"`
		MinRating  int    `form:"min_rating"`
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadQueryParameterError("min_rating"))
		return
	}
	scopes := []func(*gorm.DB) *gorm.DB{}
	if filter.SourcePage != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("page = ?", filter.SourcePage)
		})
	}
	if filter.MinRating > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("rating >= ?", filter.MinRating)
		})
	}
	sendList[models.Feedback](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "created_at DESC",
		sortable:     []string{"rating", "page"},
		scopes:       scopes,
	})
}

// GetFeedback gets a feedback entry by ID
// @Summary      Get Feedback
// @Id           GetFeedback
// @Tags         Feedback
// @Produce      json
// @Param        id   path      string true "Feedback ID"
// @Success      200  {object}  models.Feedback
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/feedback/{id} [get]
func (api *API) GetFeedback(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetFeedback",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var feedback models.Feedback
	if !findByID(api, c, api.db.WithContext(ctx), "feedback", &feedback) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(feedback))
}

// DeleteFeedback deletes a feedback entry
// @Summary      Delete Feedback
// @Id           DeleteFeedback
// @Tags         Feedback
// @Param        id   path      string  true "Feedback ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/feedback/{id} [delete]
func (api *API) DeleteFeedback(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteFeedback",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var feedback models.Feedback
	if !findByID(api, c, db, "feedback", &feedback) {
		return
	}
	if res := db.Delete(&feedback); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	api.forgetStats()
	c.Status(http.StatusNoContent)
}
