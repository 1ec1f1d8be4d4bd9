package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/email"
	"github.com/huddle-io/huddle/internal/fflags"
	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/huddle-io/huddle/internal/util/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/huddle-io/huddle/internal/handlers")
}

// key for the authenticated user row in gin.Context
const authUserKey = "_huddle.User"

const adminStatsTTL = 30 * time.Second

var ErrUserNotFound = errors.New("user not found")

type API struct {
	logger      *zap.SugaredLogger
	db          *gorm.DB
	fflags      *fflags.FFlags
	transaction database.TransactionFunc
	dialect     database.Dialect
	stats       *cache.MemoizeCache[string, models.AdminStats]
	now         func() time.Time

	AppName     string
	Version     string
	FrontendURL string
	Mailer      email.Sender
	SmtpFrom    string
}

func NewAPI(
	parent context.Context,
	logger *zap.SugaredLogger,
	db *gorm.DB,
	fflags *fflags.FFlags,
) (*API, error) {
	_, span := tracer.Start(parent, "NewAPI")
	defer span.End()

	transactionFunc, dialect := database.GetTransactionFunc(db)

	api := &API{
		logger:      logger,
		db:          db,
		fflags:      fflags,
		transaction: transactionFunc,
		dialect:     dialect,
		stats:       cache.NewMemoizeCache[string, models.AdminStats](adminStatsTTL),
		now:         time.Now,
		AppName:     "huddle",
	}

	fflags.RegisterEnvFlag("invitations", "HUDDLE_FFLAG_INVITATIONS", true)
	fflags.RegisterEnvFlag("feedback", "HUDDLE_FFLAG_FEEDBACK", true)
	fflags.RegisterEnvFlag("course-overrides", "HUDDLE_FFLAG_COURSE_OVERRIDES", true)
	fflags.RegisterFlag("invitation-emails", func() bool {
		return api.Mailer != nil && api.SmtpFrom != ""
	})

	logger.Infow("api ready", "dialect", dialect.String())
	return api, nil
}

func (api *API) Logger(ctx context.Context) *zap.SugaredLogger {
	return util.WithTrace(ctx, api.logger)
}

func (api *API) SendInternalServerError(c *gin.Context, err error) {
	SendInternalServerError(c, api.logger, err)
}

func SendInternalServerError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	ctx := c.Request.Context()
	util.WithTrace(ctx, logger).Errorw("internal server error", "error", err)
	c.JSON(http.StatusInternalServerError, models.NewInternalServerError(util.TraceID(ctx)))
}

func (api *API) GetCurrentUserID(c *gin.Context) uuid.UUID {
	userId, found := c.Get(gin.AuthUserKey)
	if !found {
		api.SendInternalServerError(c, fmt.Errorf("no current user found"))
		panic("no current user found")
	}
	return userId.(uuid.UUID)
}

// CurrentUser loads the authenticated user once per request.
func (api *API) CurrentUser(c *gin.Context) (models.User, error) {
	if user, found := c.Get(authUserKey); found {
		return user.(models.User), nil
	}
	var user models.User
	res := api.db.WithContext(c.Request.Context()).First(&user, "id = ?", api.GetCurrentUserID(c))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, res.Error
	}
	c.Set(authUserKey, user)
	return user, nil
}

// RequireRole is a middleware rejecting users whose role is not listed.
func (api *API) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := api.CurrentUser(c)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewNotFoundError("user"))
			} else {
				api.SendInternalServerError(c, err)
				c.Abort()
			}
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, models.NewNotAllowedError(fmt.Sprintf("requires role %v", roles)))
	}
}

// OrganizationScope limits a query on an organization owned table to the
// organization of the current user. Superadmins see every organization.
func (api *API) OrganizationScope(c *gin.Context, column string) func(db *gorm.DB) *gorm.DB {
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
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", *user.OrganizationID)
	}
}

// CanManageOrganization reports whether the current user administers orgID,
// writing a 403 response when not.
func (api *API) CanManageOrganization(c *gin.Context, orgID uuid.UUID) bool {
	user, err := api.CurrentUser(c)
	if err != nil {
		api.SendInternalServerError(c, err)
		return false
	}
	switch {
	case user.Role == models.RoleSuperAdmin:
		return true
	case user.Role == models.RoleAdmin && user.OrganizationID != nil && *user.OrganizationID == orgID:
		return true
	}
	c.JSON(http.StatusForbidden, models.NewNotAllowedError("not an administrator of the organization"))
	return false
}

func (api *API) FlagCheck(c *gin.Context, name string) bool {
	enabled, err := api.fflags.GetFlag(name)
	if err != nil {
		api.SendInternalServerError(c, err)
		return false
	}
	if !enabled {
		c.JSON(http.StatusMethodNotAllowed, models.NewNotAllowedError(fmt.Sprintf("%s support is disabled", name)))
		return false
	}
	return enabled
}

// forgetStats drops the memoized admin console counters after a mutation.
func (api *API) forgetStats() {
	api.stats.Forget(adminStatsKey)
}
