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
	"gorm.io/gorm/clause"
)

var errSeatTaken = errors.New("seat is held by another user")

// lockSubscription loads the subscription of orgID and holds a row lock on
// it until the transaction ends, so seat creates of one organization run
// one after the other. sqlite has no row locks and ignores the clause.
func lockSubscription(tx *gorm.DB, orgID uuid.UUID, sub *models.Subscription) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(sub, "organization_id = ?", orgID)
}

// releaseSeatsOutside frees every seat userID holds outside orgID. A nil
// orgID frees all of them.
func releaseSeatsOutside(tx *gorm.DB, userID uuid.UUID, orgID *uuid.UUID) error {
	query := tx.Model(&models.Seat{}).Where("user_id = ?", userID)
	if orgID != nil {
		query = query.Where("organization_id <> ?", *orgID)
	}
	return query.Update("user_id", nil).Error
}

// CreateSeat adds a Seat to an Organization, up to the seat limit of its subscription
// @Summary      Create a Seat
// @Id           CreateSeat
// @Tags         Seats
// @Accept       json
// @Produce      json
// @Param        Seat  body     models.AddSeat  true  "Add Seat"
// @Success      201  {object}  models.Seat
// @Failure      403  {object}  models.ErrorResponse
// @Router       /api/seats [post]
func (api *API) CreateSeat(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateSeat")
	defer span.End()

	var request models.AddSeat
	if !bindJSON(c, &request) {
		return
	}
	if request.OrganizationID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("organization_id"))
		return
	}
	if !api.CanManageOrganization(c, request.OrganizationID) {
		return
	}

	seat := models.Seat{OrganizationID: request.OrganizationID}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		var sub models.Subscription
		if res := lockSubscription(tx, request.OrganizationID, &sub); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return notAllowed("organization has no subscription")
			}
			return res.Error
		}
		if sub.Status == models.SubscriptionCanceled {
			return notAllowed("subscription is canceled")
		}
		var count int64
		if res := tx.Model(&models.Seat{}).Where("organization_id = ?", request.OrganizationID).Count(&count); res.Error != nil {
			return res.Error
		}
		if count >= int64(sub.SeatLimit) {
			return notAllowed("seat limit of the subscription reached")
		}
		return tx.Create(&seat).Error
	})
	if err != nil {
		api.sendWriteError(c, err, seat.ID)
		return
	}

	span.SetAttributes(attribute.String("id", seat.ID.String()))
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(seat))
}

// ListSeats lists Seats
// @Summary      List Seats
// @Id           ListSeats
// @Tags         Seats
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Param        user_id          query  string  false  "User ID"
// @Param        available        query  bool    false  "Only seats without a user"
// @Success      200  {object}  []models.Seat
// @Router       /api/seats [get]
func (api *API) ListSeats(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListSeats")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	userFilter, ok := uuidFilter(c, "user_id", "user_id")
	if !ok {
		return
	}
	available, ok := boolFilter(c, "available")
	if !ok {
		return
	}
	scopes := []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter, userFilter}
	if available != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			if *available {
				return db.Where("user_id IS NULL")
			}
			return db.Where("user_id IS NOT NULL")
		})
	}
	sendList[models.Seat](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "created_at",
		scopes:       scopes,
		preloads:     []string{"User"},
	})
}

// GetSeat gets a Seat by ID
// @Summary      Get Seat
// @Id           GetSeat
// @Tags         Seats
// @Produce      json
// @Param        id   path      string true "Seat ID"
// @Success      200  {object}  models.Seat
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/seats/{id} [get]
func (api *API) GetSeat(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetSeat",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var seat models.Seat
	db := api.db.WithContext(ctx).Preload("User").Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "seat", &seat) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(seat))
}

// UpdateSeat assigns a Seat to a user, or frees it when user_id is null.
// Claiming a seat held by someone else fails with a conflict.
// @Summary      Update Seat
// @Id           UpdateSeat
// @Tags         Seats
// @Accept       json
// @Produce      json
// @Param        id    path      string             true "Seat ID"
// @Param        Seat  body      models.UpdateSeat  true "Update Seat"
// @Success      200  {object}  models.Seat
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/seats/{id} [put]
func (api *API) UpdateSeat(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateSeat",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateSeat
	if !bindJSON(c, &request) {
		return
	}
	db := api.db.WithContext(ctx)
	var seat models.Seat
	if !findByID(api, c, db, "seat", &seat) {
		return
	}
	if !api.CanManageOrganization(c, seat.OrganizationID) {
		return
	}

	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if request.UserID == nil {
			return tx.Model(&models.Seat{}).Where("id = ?", seat.ID).Update("user_id", nil).Error
		}
		var user models.User
		if res := tx.First(&user, "id = ?", *request.UserID); res.Error != nil {
			return res.Error
		}
		if user.OrganizationID == nil || *user.OrganizationID != seat.OrganizationID {
			return notAllowed("user is not a member of the organization")
		}
		res := tx.Model(&models.Seat{}).
			Where("id = ? AND (user_id IS NULL OR user_id = ?)", seat.ID, *request.UserID).
			Update("user_id", *request.UserID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSeatTaken
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, errSeatTaken):
		c.JSON(http.StatusConflict, models.NewConflictsReasonError(seat.ID.String(), err.Error()))
		return
	case database.IsDuplicateError(err):
		c.JSON(http.StatusConflict, models.NewConflictsReasonError(request.UserID.String(), "user already holds a seat"))
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("user_id", "user not found"))
		return
	default:
		api.sendWriteError(c, err, seat.ID)
		return
	}

	if res := db.Preload("User").First(&seat, "id = ?", seat.ID); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	api.Logger(ctx).Infow("seat updated", "id", seat.ID, "user_id", seat.UserID)
	api.forgetStats()
	c.JSON(http.StatusOK, models.NewResponse(seat))
}

// DeleteSeat deletes a Seat
// @Summary      Delete Seat
// @Id           DeleteSeat
// @Tags         Seats
// @Param        id   path      string  true "Seat ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/seats/{id} [delete]
func (api *API) DeleteSeat(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteSeat",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var seat models.Seat
	if !findByID(api, c, db, "seat", &seat) {
		return
	}
	if !api.CanManageOrganization(c, seat.OrganizationID) {
		return
	}
	// unscoped: the unique index on user_id also covers soft deleted rows
	if res := db.Unscoped().Delete(&seat); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	api.forgetStats()
	c.Status(http.StatusNoContent)
}
