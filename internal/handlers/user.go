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

var roles = []string{models.RoleMember, models.RoleCoach, models.RoleAdmin, models.RoleSuperAdmin}

var errCourseNotFound = errors.New("course not found")

// userScope limits users to the organization of the current user, and
// always lets a user see themselves.
func (api *API) userScope(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		user, err := api.CurrentUser(c)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if user.Role == models.RoleSuperAdmin {
			return db
		}
		if user.OrganizationID == nil {
			return db.Where("users.id = ?", user.ID)
		}
		return db.Where("users.organization_id = ? OR users.id = ?", *user.OrganizationID, user.ID)
	}
}

// canAssignRole writes a 403 response when the current user may not hand out role.
func (api *API) canAssignRole(c *gin.Context, role string) bool {
	current, err := api.CurrentUser(c)
	if err != nil {
		api.SendInternalServerError(c, err)
		return false
	}
	if role == models.RoleSuperAdmin && current.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, models.NewNotAllowedError("only superadmins can grant the superadmin role"))
		return false
	}
	return true
}

// CreateUser creates a User
// @Summary      Create a User
// @Id           CreateUser
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        User  body     models.AddUser  true  "Add User"
// @Success      201  {object}  models.User
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/users [post]
func (api *API) CreateUser(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateUser")
	defer span.End()

	var request models.AddUser
	if !bindJSON(c, &request) {
		return
	}
	if request.Email == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("email"))
		return
	}
	if request.Role == "" {
		request.Role = models.RoleMember
	}
	if !oneOf(request.Role, roles) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("role"))
		return
	}
	if !api.canAssignRole(c, request.Role) {
		return
	}
	if request.OrganizationID != nil {
		if !api.CanManageOrganization(c, *request.OrganizationID) {
			return
		}
	} else if current, _ := api.CurrentUser(c); current.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, models.NewNotAllowedError("only superadmins can create users outside an organization"))
		return
	}

	user := models.User{
		Email:          request.Email,
		FullName:       request.FullName,
		Role:           request.Role,
		OrganizationID: request.OrganizationID,
	}
	if res := api.db.WithContext(ctx).Create(&user); res.Error != nil {
		api.sendWriteError(c, res.Error, user.ID)
		return
	}
	span.SetAttributes(attribute.String("id", user.ID.String()))
	api.Logger(ctx).Infow("user created", "id", user.ID, "role", user.Role)
	api.forgetStats()
	c.JSON(http.StatusCreated, models.NewResponse(user))
}

// GetUser gets a user, with its seat and courses
// @Summary      Get User
// @Description  Gets a user, "me" names the current user
// @Id           GetUser
// @Tags         Users
// @Produce      json
// @Param        id  path       string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [get]
func (api *API) GetUser(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetUser",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var userId uuid.UUID
	var err error
	if c.Param("id") == "me" {
		userId = api.GetCurrentUserID(c)
	} else {
		userId, err = uuid.Parse(c.Param("id"))
		if err != nil || userId == uuid.Nil {
			c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
			return
		}
	}

	var user models.User
	res := api.db.WithContext(ctx).
		Preload("Seat").
		Preload("Courses").
		Scopes(api.userScope(c)).
		First(&user, "users.id = ?", userId)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewNotFoundError("user"))
		} else {
			api.SendInternalServerError(c, res.Error)
		}
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(user))
}

// ListUsers lists users
// @Summary      List Users
// @Id           ListUsers
// @Tags         Users
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Success      200  {object}  []models.User
// @Router       /api/users [get]
func (api *API) ListUsers(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListUsers")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "users.organization_id")
	if !ok {
		return
	}
	sendList[models.User](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "full_name",
		sortable:     []string{"full_name", "email", "role"},
		scopes:       []func(*gorm.DB) *gorm.DB{api.userScope(c), orgFilter},
		preloads:     []string{"Seat"},
	})
}

// ListFilteredUsers lists users matching a role, a search text and seat ownership
// @Summary      List Filtered Users
// @Id           ListFilteredUsers
// @Tags         Users
// @Produce      json
// @Param        organization_id  query  string  false  "Organization ID"
// @Param        role             query  string  false  "Role"
// @Param        search           query  string  false  "Matches name or email"
// @Param        has_seat         query  bool    false  "Seat ownership"
// @Success      200  {object}  []models.User
// @Router       /api/filtered-users [get]
func (api *API) ListFilteredUsers(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListFilteredUsers")
	defer span.End()

	orgFilter, ok := uuidFilter(c, "organization_id", "users.organization_id")
	if !ok {
		return
	}
	hasSeat, ok := boolFilter(c, "has_seat")
	if !ok {
		return
	}
	scopes := []func(*gorm.DB) *gorm.DB{
		api.userScope(c),
		orgFilter,
		searchFilter(c.Query("search"), "users.full_name", "users.email"),
	}
	if role := c.Query("role"); role != "" {
		if !oneOf(role, roles) {
			c.JSON(http.StatusBadRequest, models.NewBadQueryParameterError("role"))
			return
		}
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("users.role = ?", role)
		})
	}
	if hasSeat != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			exists := "EXISTS (SELECT 1 FROM seats WHERE seats.user_id = users.id AND seats.deleted_at IS NULL)"
			if *hasSeat {
				return db.Where(exists)
			}
			return db.Where("NOT " + exists)
		})
	}
	sendList[models.User](api, c, api.db.WithContext(ctx), listOptions{
		defaultOrder: "full_name",
		sortable:     []string{"full_name", "email", "role"},
		scopes:       scopes,
		preloads:     []string{"Seat"},
	})
}

// UpdateUser replaces the name, role, organization and courses of a User.
// Users may rename themselves and pick their courses. Changing the role or
// organization takes an administrator.
// @Summary      Update User
// @Id           UpdateUser
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true "User ID"
// @Param        User  body      models.UpdateUser  true "Update User"
// @Success      200  {object}  models.User
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [put]
func (api *API) UpdateUser(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateUser",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	var request models.UpdateUser
	if !bindJSON(c, &request) {
		return
	}
	if !oneOf(request.Role, roles) {
		c.JSON(http.StatusBadRequest, models.NewInvalidField("role"))
		return
	}

	db := api.db.WithContext(ctx)
	var user models.User
	if !findByID(api, c, db.Scopes(api.userScope(c)), "user", &user) {
		return
	}
	current, err := api.CurrentUser(c)
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}

	privileged := request.Role != user.Role || !sameOrganization(request.OrganizationID, user.OrganizationID)
	switch {
	case privileged:
		if user.OrganizationID != nil && !api.CanManageOrganization(c, *user.OrganizationID) {
			return
		}
		if request.OrganizationID != nil && !api.CanManageOrganization(c, *request.OrganizationID) {
			return
		}
		if (user.OrganizationID == nil || request.OrganizationID == nil) && current.Role != models.RoleSuperAdmin {
			c.JSON(http.StatusForbidden, models.NewNotAllowedError("only superadmins can move users between organizations"))
			return
		}
		if !api.canAssignRole(c, request.Role) {
			return
		}
	case user.ID != current.ID:
		if user.OrganizationID == nil || !api.CanManageOrganization(c, *user.OrganizationID) {
			if user.OrganizationID == nil {
				c.JSON(http.StatusForbidden, models.NewNotAllowedError("not an administrator of the organization"))
			}
			return
		}
	}

	user.FullName = request.FullName
	user.Role = request.Role
	user.OrganizationID = request.OrganizationID
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Select("full_name", "role", "organization_id", "updated_at").Updates(&user); res.Error != nil {
			return res.Error
		}
		if err := releaseSeatsOutside(tx, user.ID, user.OrganizationID); err != nil {
			return err
		}
		if request.CourseIDs == nil {
			return nil
		}
		courses := make([]*models.Course, 0, len(request.CourseIDs))
		if len(request.CourseIDs) > 0 {
			if res := tx.Where("id IN ?", request.CourseIDs).Find(&courses); res.Error != nil {
				return res.Error
			}
			if len(courses) != len(request.CourseIDs) {
				return errCourseNotFound
			}
		}
		return tx.Model(&user).Association("Courses").Replace(courses)
	})
	if errors.Is(err, errCourseNotFound) {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("course_ids", err.Error()))
		return
	}
	if err != nil {
		api.sendWriteError(c, err, user.ID)
		return
	}

	if res := db.Preload("Seat").Preload("Courses").First(&user, "id = ?", user.ID); res.Error != nil {
		api.SendInternalServerError(c, res.Error)
		return
	}
	if privileged {
		api.forgetStats()
	}
	c.JSON(http.StatusOK, models.NewResponse(user))
}

// DeleteUser deletes a User and frees its seat
// @Summary      Delete User
// @Id           DeleteUser
// @Tags         Users
// @Param        id  path       string  true  "User ID"
// @Success      204
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [delete]
func (api *API) DeleteUser(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteUser",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	db := api.db.WithContext(ctx)
	var user models.User
	if !findByID(api, c, db.Scopes(api.userScope(c)), "user", &user) {
		return
	}
	if user.OrganizationID != nil {
		if !api.CanManageOrganization(c, *user.OrganizationID) {
			return
		}
	} else if current, _ := api.CurrentUser(c); current.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, models.NewNotAllowedError("not an administrator of the organization"))
		return
	}

	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Model(&models.Seat{}).Where("user_id = ?", user.ID).Update("user_id", nil); res.Error != nil {
			return res.Error
		}
		if res := tx.Exec("DELETE FROM user_courses WHERE user_id = ?", user.ID); res.Error != nil {
			return res.Error
		}
		if res := tx.Exec("DELETE FROM team_coaches WHERE user_id = ?", user.ID); res.Error != nil {
			return res.Error
		}
		// unscoped so the email can be registered again
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		api.SendInternalServerError(c, err)
		return
	}
	api.Logger(ctx).Infow("user deleted", "id", user.ID)
	api.forgetStats()
	c.Status(http.StatusNoContent)
}

func sameOrganization(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
