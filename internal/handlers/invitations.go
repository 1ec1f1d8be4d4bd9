package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/util"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	defaultInvitationTTL = 7 * 24 * time.Hour
	// unambiguous characters only, no 0/O or 1/I
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeAttempts = 3
)

var (
	errInvitationConsumed = errors.New("invitation code was already used")
	errInvitationExpired  = errors.New("invitation code expired")
	errInvitationEmail    = errors.New("invitation code was issued for another email address")
	errCodeTaken          = errors.New("invitation code already exists")
)

// newInvitationCode returns a code like RVSD-8K2M-QX4T drawn from the random
// bytes of a v4 uuid. The version and variant bytes are skipped.
func newInvitationCode() string {
	id := uuid.New()
	random := append(id[0:6:6], id[9:15]...)
	var sb strings.Builder
	for i, b := range random {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String()
}

// CreateInvitationCode creates a one time code to join an Organization, and
// mails it when an email address is given
// @Summary      Create an Invitation Code
// @Id           CreateInvitationCode
// @Tags         InvitationCodes
// @Accept       json
// @Produce      json
// @Param        InvitationCode  body     models.AddInvitationCode  true  "Add Invitation Code"
// @Success      201  {object}  models.InvitationCode
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      405  {object}  models.ErrorResponse
// @Router       /api/invitation-codes [post]
func (api *API) CreateInvitationCode(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateInvitationCode")
	defer span.End()

	if !api.FlagCheck(c, "invitations") {
		return
	}
	var request models.AddInvitationCode
	if !bindJSON(c, &request) {
		return
	}
	if request.Role == "" {
		request.Role = models.RoleMember
	}
	if request.Role == models.RoleSuperAdmin || !oneOf(request.Role, roles) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("role"))
		return
	}
	ttl := defaultInvitationTTL
	if request.ExpiresIn != "" {
		var err error
		ttl, err = time.ParseDuration(request.ExpiresIn)
		if err != nil || ttl <= 0 {
			c.JSON(http.StatusBadRequest, models.NewFieldValidationError("expires_in", "must be a positive duration like 72h"))
			return
		}
	}
	if !api.CanManageOrganization(c, request.OrganizationID) {
		return
	}

	db := api.db.WithContext(ctx)
	var org models.Organization
	if res := db.First(&org, "id = ?", request.OrganizationID); res.Error != nil {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("organization_id", "organization not found"))
		return
	}
	invitation := models.InvitationCode{
		OrganizationID: org.ID,
		Email:          strings.TrimSpace(request.Email),
		Role:           request.Role,
		ExpiresAt:      api.now().Add(ttl),
	}
	err := util.RetryOperationForErrors(ctx, 0, codeAttempts-1, []error{errCodeTaken}, func() error {
		invitation.ID = uuid.Nil
		invitation.Code = newInvitationCode()
		err := db.Create(&invitation).Error
		if database.IsDuplicateError(err) {
			return errCodeTaken
		}
		return err
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}

	span.SetAttributes(attribute.String("id", invitation.ID.String()))
	api.forgetStats()

	if enabled, _ := api.fflags.GetFlag("invitation-emails"); enabled && invitation.Email != "" {
		current, _ := api.CurrentUser(c)
		fromName := current.FullName
		if fromName == "" {
			fromName = current.Email
		}
		if err := api.sendInvitationEmail(fromName, &invitation, org.Name); err != nil {
			api.Logger(ctx).Warnw("failed to send invitation email", "id", invitation.ID, "error", err)
		}
	}
	c.JSON(http.StatusCreated, models.NewResponse(invitation))
}

// ListInvitationCodes lists Invitation Codes
// @Summary      List Invitation Codes
// @Id           ListInvitationCodes
// @Tags         InvitationCodes
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Success      200  {object}  []models.InvitationCode
// @Router       /api/invitation-codes [get]
func (api *API) ListInvitationCodes(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListInvitationCodes")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "organization_id")
	if !ok {
		return
	}
	sendList[models.InvitationCode](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "created_at DESC",
		sortable:     []string{"expires_at", "email", "role"},
		scopes:       []func(*gorm.DB) *gorm.DB{api.OrganizationScope(c, "organization_id"), orgFilter},
	})
}

// GetInvitationCode gets an Invitation Code by ID
// @Summary      Get Invitation Code
// @Id           GetInvitationCode
// @Tags         InvitationCodes
// @Produce      json
// @Param        id   path      string true "Invitation Code ID"
// @Success      200  {object}  models.InvitationCode
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/invitation-codes/{id} [get]
func (api *API) GetInvitationCode(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetInvitationCode",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var invitation models.InvitationCode
	db := api.db.WithContext(ctx).Scopes(api.OrganizationScope(c, "organization_id"))
	if !findByID(api, c, db, "invitation-code", &invitation) {
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(invitation))
}

// DeleteInvitationCode revokes an Invitation Code
// @Summary      Delete Invitation Code
// @Id           DeleteInvitationCode
// @Tags         InvitationCodes
// @Param        id   path      string  true "Invitation Code ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/invitation-codes/{id} [delete]
func (api *API) DeleteInvitationCode(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteInvitationCode",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var invitation models.InvitationCode
	if !findByID(api, c, db, "invitation-code", &invitation) {
		return
	}
	if !api.CanManageOrganization(c, invitation.OrganizationID) {
		return
	}
	if res := db.Unscoped().Delete(&invitation); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	api.forgetStats()
	c.Status(http.StatusNoContent)
}

// RedeemInvitationCode joins the current user to the organization of a code
// with the role the code grants. A code works once and only until it expires.
// @Summary      Redeem an Invitation Code
// @Id           RedeemInvitationCode
// @Tags         InvitationCodes
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Invitation Code"
// @Param        Redeem   body      models.RedeemInvitationCode  false "Redeem"
// @Success      200  {object}  models.User
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      410  {object}  models.ErrorResponse
// @Router       /api/invitation-codes/{id}/redeem [post]
func (api *API) RedeemInvitationCode(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "RedeemInvitationCode")
	defer span.End()

	if !api.FlagCheck(c, "invitations") {
		return
	}
	var request models.RedeemInvitationCode
	if c.Request.ContentLength != 0 && !bindJSON(c, &request) {
		return
	}
	code := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	user, err := api.CurrentUser(c)
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}

	var invitation models.InvitationCode
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.First(&invitation, "code = ?", code); res.Error != nil {
			return res.Error
		}
		switch {
		case invitation.Consumed():
			return errInvitationConsumed
		case invitation.Expired(api.now()):
			return errInvitationExpired
		case invitation.Email != "" && !strings.EqualFold(invitation.Email, user.Email):
			return errInvitationEmail
		}

		now := api.now()
		res := tx.Model(&models.InvitationCode{}).
			Where("id = ? AND consumed_by_id IS NULL", invitation.ID).
			Updates(map[string]any{"consumed_by_id": user.ID, "consumed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInvitationConsumed
		}

		updates := map[string]any{"organization_id": invitation.OrganizationID}
		if user.Role != models.RoleSuperAdmin {
			updates["role"] = invitation.Role
		}
		if request.FullName != "" {
			updates["full_name"] = request.FullName
		}
		if res := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates); res.Error != nil {
			return res.Error
		}
		return releaseSeatsOutside(tx, user.ID, &invitation.OrganizationID)
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError("invitation-code"))
		return
	case errors.Is(err, errInvitationConsumed), errors.Is(err, errInvitationEmail):
		c.JSON(http.StatusForbidden, models.NewNotAllowedError(err.Error()))
		return
	case errors.Is(err, errInvitationExpired):
		c.JSON(http.StatusGone, models.NewGoneError("invitation-code"))
		return
	default:
		api.SendInternalServerError(c, err)
		return
	}

	if res := api.db.WithContext(ctx).Preload("Seat").Preload("Courses").First(&user, "id = ?", user.ID); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	api.Logger(ctx).Infow("invitation code redeemed", "id", invitation.ID, "user_id", user.ID, "organization_id", invitation.OrganizationID)
	api.forgetStats()
	c.JSON(http.StatusOK, models.NewResponse(user))
}
