package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/handlers"
)

func registerEmployeeRoutes(api *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler, requireAuth gin.HandlerFunc) {
	employees := api.Group("/employees", requireAuth)
	{
		employees.GET("", employeeHandler.List)
		employees.GET("/:id", employeeHandler.Get)
		employees.POST("", employeeHandler.Create)
		employees.PUT("/:id", employeeHandler.Update)
		employees.DELETE("/:id", employeeHandler.Delete)
	}
}
