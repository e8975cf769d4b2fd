package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/app"
	"github.com/charlesng35/hrms/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, health *handlers.HealthHandler) {
	if !cfg.Monitoring.Health.Enabled {
		r.GET("/health", disabledHealthHandler)
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	r.GET("/health", health.Overall)
	r.GET("/health/live", health.Live)
	r.GET("/health/ready", health.Ready)
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
