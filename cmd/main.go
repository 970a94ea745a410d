package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/db"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/handlers"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/middleware"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/modules/mastery"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/observability"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/envutil"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/server"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "careermap"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	if shutdownOTel != nil {
		defer shutdownOTel(ctx)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Catalog seeding
	if catalogPath := envutil.String("CATALOG_PATH", ""); catalogPath != "" {
		if err := db.SeedCatalog(thePG, log, catalogPath); err != nil {
			log.Error("Catalog seeding failed", "error", err)
			os.Exit(1)
		}
	}

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	skillNodeRepo := repos.NewSkillNodeRepo(thePG, log)
	prereqEdgeRepo := repos.NewPrereqEdgeRepo(thePG, log)
	roleRepo := repos.NewRoleRepo(thePG, log)
	roleSkillRepo := repos.NewRoleSkillRepo(thePG, log)
	userSkillStateRepo := repos.NewUserSkillStateRepo(thePG, log)
	evidenceRepo := repos.NewEvidenceRepo(thePG, log)
	sessionRepo := repos.NewSessionRepo(thePG, log)

	// Transition bus
	transitionBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, transitions will not be published", "error", err)
		transitionBus = bus.NewNoopBus()
	}
	defer transitionBus.Close()

	// Mastery engine
	log.Info("Setting up mastery engine from main...")
	uc := mastery.NewUsecases(mastery.UsecasesDeps{
		DB:         thePG,
		Log:        log,
		Bus:        transitionBus,
		Skills:     skillNodeRepo,
		Edges:      prereqEdgeRepo,
		Roles:      roleRepo,
		RoleSkills: roleSkillRepo,
		States:     userSkillStateRepo,
		Evidence:   evidenceRepo,
		Sessions:   sessionRepo,
		SessionTTL: envutil.Duration("SESSION_TTL", 24*time.Hour),
	})
	uc.StartWorker(ctx, envutil.Duration("DECAY_SWEEP_INTERVAL", time.Hour))

	// Handlers
	log.Info("Setting up handlers from main...")
	userHandler := handlers.NewUserHandler(log, userRepo)
	catalogHandler := handlers.NewCatalogHandler(log, skillNodeRepo, prereqEdgeRepo, userSkillStateRepo)
	evidenceHandler := handlers.NewEvidenceHandler(log, uc)
	sessionHandler := handlers.NewSessionHandler(log, uc)
	frontierHandler := handlers.NewFrontierHandler(log, uc)
	recommendationHandler := handlers.NewRecommendationHandler(log, uc)

	// Middleware
	authMiddleware, err := middleware.NewAuthMiddleware(log)
	if err != nil {
		log.Error("Could not init AuthMiddleware", "error", err)
		os.Exit(1)
	}

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:        authMiddleware,
		UserHandler:           userHandler,
		CatalogHandler:        catalogHandler,
		EvidenceHandler:       evidenceHandler,
		SessionHandler:        sessionHandler,
		FrontierHandler:       frontierHandler,
		RecommendationHandler: recommendationHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
