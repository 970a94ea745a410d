package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/handlers"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	CatalogHandler        *handlers.CatalogHandler
	EvidenceHandler       *handlers.EvidenceHandler
	SessionHandler        *handlers.SessionHandler
	FrontierHandler       *handlers.FrontierHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if otelGinEnabled() {
		router.Use(otelgin.Middleware("careermap"))
	}
	router.Use(middleware.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.GET("/skills", cfg.CatalogHandler.ListSkills)
	api.GET("/skills/graph", cfg.CatalogHandler.GetGraph)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/me", cfg.UserHandler.GetMe)
	// Evidence
	protected.POST("/evidence", cfg.EvidenceHandler.Submit)
	protected.GET("/skills/:skillId/evidence", cfg.EvidenceHandler.ListForSkill)
	// Skill states
	protected.GET("/me/skills", cfg.CatalogHandler.ListMyStates)
	// Sessions
	protected.POST("/sessions", cfg.SessionHandler.Propose)
	protected.GET("/sessions/:sessionId", cfg.SessionHandler.Get)
	protected.POST("/sessions/:sessionId/start", cfg.SessionHandler.Start)
	protected.POST("/sessions/:sessionId/complete", cfg.SessionHandler.Complete)
	// Roles
	protected.GET("/roles/:roleId/frontier", cfg.FrontierHandler.Get)
	protected.GET("/roles/:roleId/next-action", cfg.RecommendationHandler.NextAction)

	return router
}

func otelGinEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("OTEL_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
