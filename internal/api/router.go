package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/app"
	iauth "github.com/charlesng35/hrms/internal/auth"
	"github.com/charlesng35/hrms/internal/handlers"
	"github.com/charlesng35/hrms/internal/middleware"
	"github.com/charlesng35/hrms/internal/monitoring"
	"github.com/charlesng35/hrms/internal/monitoring/checks"
	"github.com/charlesng35/hrms/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers every route.
// A nil health manager gets one probing the database.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, health *monitoring.HealthManager) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if health == nil {
		health = monitoring.NewHealthManager(cfg.Monitoring.Health.Timeout)
		health.RegisterReadiness(checks.Database(db, time.Second))
	}

	auditSvc, err := services.NewAuditService(db, cfg.Audit.AuditServiceOptions()...)
	if err != nil {
		return nil, err
	}
	authSvc, err := services.NewAuthService(db, auditSvc, jwt, cfg.Auth.AuthServiceOptions()...)
	if err != nil {
		return nil, err
	}
	employeeSvc, err := services.NewEmployeeService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	teamSvc, err := services.NewTeamService(db, auditSvc)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowedOrigins...))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit.RequestsPerMinute, cfg.Server.RateLimit.Burst))

	r.GET("/", handlers.Root())

	registerHealthRoutes(r, cfg, handlers.NewHealthHandler(health))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.Auth(jwt)
	api := r.Group("/api")

	registerAuthRoutes(api, handlers.NewAuthHandler(authSvc), requireAuth)
	registerEmployeeRoutes(api, handlers.NewEmployeeHandler(employeeSvc), requireAuth)
	registerTeamRoutes(api, handlers.NewTeamHandler(teamSvc, auditSvc), requireAuth)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
