package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ready checks if the service is ready to accept requests
// @Summary      Checks if the service is ready to accept requests
// @Description  Checks if the service is ready to accept requests
// @Id           Ready
// @Tags         Private
// @Produce      json
// @Success      200
// @Failure      503  {object}  models.ErrorResponse
// @Router       /ready [get]
func (api *API) Ready(c *gin.Context) {
	sqlDB, err := api.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		api.Logger(c.Request.Context()).Warnw("database not reachable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
		})
		return
	}
	api.Live(c)
}

// Live checks if the service is live
// @Summary      Checks if the service is live
// @Description  Checks if the service is live
// @Id           Live
// @Tags         Private
// @Produce      json
// @Success      200
// @Router       /live [get]
func (api *API) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}
