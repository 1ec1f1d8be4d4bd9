package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
	"gorm.io/gorm"
)

const adminStatsKey = "admin-stats"

// GetAdminStats returns the counters of the superadmin console
// @Summary      Get Admin Stats
// @Description  Counts of organizations, users, seats, teams, courses, pending invitations and feedback
// @Id           GetAdminStats
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  models.AdminStats
// @Failure      403  {object}  models.ErrorResponse
// @Router       /api/admin/stats [get]
func (api *API) GetAdminStats(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetAdminStats")
	defer span.End()

	stats, err := api.stats.MemoizeCanErr(adminStatsKey, func() (models.AdminStats, error) {
		return api.countStats(ctx)
	})
	if err != nil {
		api.forgetStats()
		api.SendInternalServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewResponse(stats))
}

func (api *API) countStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	db := api.db.WithContext(ctx)
	counts := []struct {
		model any
		scope func(*gorm.DB) *gorm.DB
		out   *int64
	}{
		{&models.Organization{}, nil, &stats.Organizations},
		{&models.User{}, nil, &stats.Users},
		{&models.Seat{}, nil, &stats.Seats},
		{&models.Seat{}, func(db *gorm.DB) *gorm.DB { return db.Where("user_id IS NOT NULL") }, &stats.OccupiedSeats},
		{&models.Team{}, nil, &stats.Teams},
		{&models.Course{}, nil, &stats.Courses},
		{&models.InvitationCode{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("consumed_by_id IS NULL AND expires_at > ?", api.now())
		}, &stats.PendingInvites},
		{&models.Feedback{}, nil, &stats.FeedbackEntries},
	}
	for _, count := range counts {
		query := db.Model(count.model)
		if count.scope != nil {
			query = count.scope(query)
		}
		if res := query.Count(count.out); res.Error != nil {
			return stats, res.Error
		}
	}
	return stats, nil
}
