package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/handlers"
)

func registerTeamRoutes(api *gin.RouterGroup, teamHandler *handlers.TeamHandler, requireAuth gin.HandlerFunc) {
	teams := api.Group("/teams", requireAuth)
	{
		teams.GET("/logs/all", teamHandler.Logs)
		teams.GET("", teamHandler.List)
		teams.GET("/:id", teamHandler.Get)
		teams.POST("", teamHandler.Create)
		teams.PUT("/:id", teamHandler.Update)
		teams.DELETE("/:id", teamHandler.Delete)
		teams.POST("/:id/assign", teamHandler.Assign)
		teams.DELETE("/:id/unassign/:employeeId", teamHandler.Unassign)
	}
}
