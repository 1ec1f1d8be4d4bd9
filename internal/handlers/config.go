package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/models"
)

// GetPageConfig returns what the frontend needs before rendering a page
// @Summary      Get Page Config
// @Description  Application name, version and feature flags
// @Id           GetPageConfig
// @Tags         Config
// @Produce      json
// @Success      200  {object}  models.PageConfig
// @Router       /api/config [get]
func (api *API) GetPageConfig(c *gin.Context) {
	_, span := tracer.Start(c.Request.Context(), "GetPageConfig")
	defer span.End()

	c.JSON(http.StatusOK, models.NewResponse(models.PageConfig{
		AppName:  api.AppName,
		Features: api.fflags.ListFlags(),
		Version:  api.Version,
	}))
}
