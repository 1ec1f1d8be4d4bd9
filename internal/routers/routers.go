package routers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/handlers"
	"github.com/huddle-io/huddle/internal/models"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const name = "github.com/huddle-io/huddle/internal/routers"

const defaultMaxConcurrency = 64

type APIRouterOptions struct {
	Logger         *zap.SugaredLogger
	Api            *handlers.API
	SigningKey     []byte
	AllowedOrigins []string
	MaxConcurrency int
	// Metrics enables the prometheus middleware.
	Metrics bool
}

func NewAPIRouter(ctx context.Context, o APIRouterOptions) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	loggerMiddleware := ginzap.GinzapWithConfig(o.Logger.Desugar(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{
				zap.String("traceID", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
			}
		},
	})

	r.Use(otelgin.Middleware(name, otelgin.WithPropagators(
		propagation.TraceContext{},
	)))
	r.Use(ginzap.RecoveryWithZap(o.Logger.Desugar(), true))

	if len(o.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = o.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders("Authorization")
		corsConfig.AddExposeHeaders(handlers.TotalCountHeader)
		r.Use(cors.New(corsConfig))
	}

	if o.Metrics {
		newPrometheus().Use(r)
	}

	maxConcurrency := o.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	api := o.Api
	superadmin := api.RequireRole(models.RoleSuperAdmin)
	admins := api.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	public := r.Group("/api", loggerMiddleware)
	{
		// the frontend reads its config before login
		public.GET("/config", api.GetPageConfig)
	}

	private := r.Group("/api", loggerMiddleware)
	{
		private.Use(ValidateJWT(o.Logger, o.SigningKey))
		private.Use(RequireUser(api))
		private.Use(LimitConcurrency(NewLimiter(maxConcurrency)))

		// Feature Flags
		private.GET("/fflags", api.ListFeatureFlags)
		private.GET("/fflags/:name", api.GetFeatureFlag)

		// Organizations
		private.GET("/organizations", api.ListOrganizations)
		private.GET("/organizations/:id", api.GetOrganization)
		private.POST("/organizations", superadmin, api.CreateOrganization)
		private.PUT("/organizations/:id", admins, api.UpdateOrganization)
		private.DELETE("/organizations/:id", superadmin, api.DeleteOrganization)

		// Subscriptions
		private.GET("/subscriptions", api.ListSubscriptions)
		private.GET("/subscriptions/:id", api.GetSubscription)
		private.POST("/subscriptions", superadmin, api.CreateSubscription)
		private.PUT("/subscriptions/:id", superadmin, api.UpdateSubscription)
		private.DELETE("/subscriptions/:id", superadmin, api.DeleteSubscription)

		// Profiles
		private.GET("/profiles", api.ListProfiles)
		private.GET("/profiles/:id", api.GetProfile)
		private.POST("/profiles", admins, api.CreateProfile)
		private.PUT("/profiles/:id", admins, api.UpdateProfile)
		private.DELETE("/profiles/:id", admins, api.DeleteProfile)

		// Seats
		private.GET("/seats", api.ListSeats)
		private.GET("/seats/:id", api.GetSeat)
		private.POST("/seats", admins, api.CreateSeat)
		private.PUT("/seats/:id", admins, api.UpdateSeat)
		private.DELETE("/seats/:id", admins, api.DeleteSeat)

		// Users
		private.GET("/users", api.ListUsers)
		private.GET("/users/:id", api.GetUser)
		private.POST("/users", admins, api.CreateUser)
		private.PUT("/users/:id", api.UpdateUser)
		private.DELETE("/users/:id", admins, api.DeleteUser)
		private.GET("/filtered-users", api.ListFilteredUsers)

		// Courses
		private.GET("/courses", api.ListCourses)
		private.GET("/courses/:id", api.GetCourse)
		private.POST("/courses", superadmin, api.CreateCourse)
		private.PUT("/courses/:id", superadmin, api.UpdateCourse)
		private.DELETE("/courses/:id", superadmin, api.DeleteCourse)

		// Courses assigned to organizations
		private.GET("/org-courses", api.ListOrgCourses)
		private.GET("/org-courses/:id", api.GetOrgCourse)
		private.POST("/org-courses", admins, api.CreateOrgCourse)
		private.PUT("/org-courses/:id", admins, api.UpdateOrgCourse)
		private.DELETE("/org-courses/:id", admins, api.DeleteOrgCourse)

		// Teams
		private.GET("/teams", api.ListTeams)
		private.GET("/teams/:id", api.GetTeam)
		private.POST("/teams", admins, api.CreateTeam)
		private.PUT("/teams/:id", admins, api.UpdateTeam)
		private.DELETE("/teams/:id", admins, api.DeleteTeam)

		// Feedback
		private.POST("/feedback", api.CreateFeedback)
		private.GET("/feedback", admins, api.ListFeedback)
		private.GET("/feedback/:id", admins, api.GetFeedback)
		private.DELETE("/feedback/:id", superadmin, api.DeleteFeedback)

		// Invitation Codes
		private.GET("/invitation-codes", admins, api.ListInvitationCodes)
		private.GET("/invitation-codes/:id", admins, api.GetInvitationCode)
		private.POST("/invitation-codes", admins, api.CreateInvitationCode)
		private.DELETE("/invitation-codes/:id", admins, api.DeleteInvitationCode)
		private.POST("/invitation-codes/:id/redeem", api.RedeemInvitationCode)

		// Superadmin console
		private.GET("/admin/stats", superadmin, api.GetAdminStats)
	}

	// Don't log the health/readiness checks.
	r.GET("/ready", api.Ready)
	r.GET("/live", api.Live)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("route"))
	})

	return r, nil
}

func newPrometheus() *ginprometheus.Prometheus {
	p := ginprometheus.NewPrometheus("apiserver")
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := c.Request.URL.Path
		for _, p := range c.Params {
			if p.Key == "id" {
				url = strings.Replace(url, p.Value, ":id", 1)
				break
			}
		}
		return url
	}
	return p
}
