package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var (
	plans    = []string{models.PlanFree, models.PlanStandard, models.PlanPremium}
	statuses = []string{models.SubscriptionActive, models.SubscriptionPastDue, models.SubscriptionCanceled}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// CreateSubscription creates the Subscription of an Organization
// @Summary      Create a Subscription
// @Id           CreateSubscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        Subscription  body     models.AddSubscription  true  "Add Subscription"
// @Success      201  {object}  models.Subscription
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/subscriptions [post]
func (api *API) CreateSubscription(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateSubscription")
	defer span.End()

	var request models.AddSubscription
	if !bindJSON(c, &request) {
		return
	}
	if request.Plan == "" {
		request.Plan = models.PlanStandard
	}
	if !oneOf(request.Plan, plans) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("plan"))
		return
	}
	if request.SeatLimit < 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("seat_limit", "must not be negative"))
		return
	}

	db := api.db.WithContext(ctx)
	var org models.Organization
	if res := db.First(&org, "id = ?", request.OrganizationID); res.Error != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("organization_id", "organization not found"))
		return
	}

	sub := models.Subscription{
		OrganizationID: request.OrganizationID,
		Plan:           request.Plan,
		Status:         models.SubscriptionActive,
		SeatLimit:      request.SeatLimit,
		RenewsAt:       request.RenewsAt,
	}
	if res := db.Create(&sub); res.Error != nil {
		api.sendWriteError(c, res.Error, sub.OrganizationID)
		return
	}
	span.SetAttributes(attribute.String("id", sub.ID.String()))
	c.JSON(http.StatusCreated, models.NewResponse(sub))
}

// ListSubscriptions lists Subscriptions
// @Summary      List Subscriptions
// @Id           ListSubscriptions
// @Tags         Subscriptions
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Param        status           query  string  false  "Status"
// @Success      200  {object}  []models.Subscription
// @Router       /api/subscriptions [get]
func (api *API) ListSubscriptions(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListSubscriptions")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	scopes := []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter}
	if status := c.Query("status"); status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	sendList[models.Subscription](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "created_at",
		sortable:     []string{"plan", "status", "seat_limit", "renews_at"},
		scopes:       scopes,
	})
}

// GetSubscription gets a Subscription by ID
// @Summary      Get Subscription
// @Id           GetSubscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id   path      string true "Subscription ID"
// @Success      200  {object}  models.Subscription
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/subscriptions/{id} [get]
func (api *API) GetSubscription(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetSubscription",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var sub models.Subscription
	db := api.db.WithContext(ctx).Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "subscription", &sub) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(sub))
}

// UpdateSubscription replaces the plan, status and seat limit of a Subscription
// @Summary      Update Subscription
// @Id           UpdateSubscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id            path      string                     true "Subscription ID"
// @Param        Subscription  body      models.UpdateSubscription  true "Update Subscription"
// @Success      200  {object}  models.Subscription
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/subscriptions/{id} [put]
func (api *API) UpdateSubscription(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateSubscription",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateSubscription
	if !bindJSON(c, &request) {
		return
	}
	if !oneOf(request.Plan, plans) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("plan"))
		return
	}
	if !oneOf(request.Status, statuses) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("status"))
		return
	}
	if request.SeatLimit < 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("seat_limit", "must not be negative"))
		return
	}

	db := api.db.WithContext(ctx)
	var sub models.Subscription
	if !findByID(api, c, db, "subscription", &sub) {
		return
	}
	sub.Plan = request.Plan
	sub.Status = request.Status
	sub.SeatLimit = request.SeatLimit
	sub.RenewsAt = request.RenewsAt
	if res := db.Select("plan", "status", "seat_limit", "renews_at", "updated_at").Updates(&sub); res.Error != nil {
		api.sendWriteError(c, res.Error, sub.ID)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(sub))
}

// DeleteSubscription deletes a Subscription
// @Summary      Delete Subscription
// @Id           DeleteSubscription
// @Tags         Subscriptions
// @Param        id   path      string  true "Subscription ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/subscriptions/{id} [delete]
func (api *API) DeleteSubscription(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteSubscription",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var sub models.Subscription
	if !findByID(api, c, db, "subscription", &sub) {
		return
	}
	// unscoped so the organization can take a new subscription
	if res := db.Unscoped().Delete(&sub); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	c.Status(http.StatusNoContent)
}
