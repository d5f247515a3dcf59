package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carelink-health/carelink/internal/ai"
	"github.com/carelink-health/carelink/internal/config"
	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/facility"
	"github.com/carelink-health/carelink/internal/logger"
	"github.com/carelink-health/carelink/internal/profile"
	"github.com/carelink-health/carelink/internal/repository"
	"github.com/carelink-health/carelink/internal/schedule"
	"github.com/carelink-health/carelink/internal/server"
	"github.com/carelink-health/carelink/internal/symptom"
	"github.com/carelink-health/carelink/internal/tips"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	zlog.Info("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	zlog.Info("Database migrations completed")

	// Initialize AI client (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		zlog.Info("AI client initialized", zap.String("model", cfg.AIModel))
	} else {
		zlog.Warn("AI client not configured, symptom checker and health tips disabled")
	}

	// Repositories
	reminderRepo := repository.NewReminderRepository(db.Pool)
	doseLogRepo := repository.NewDoseLogRepository(db.Pool)
	profileRepo := repository.NewProfileRepository(db.Pool)
	facilityRepo := repository.NewFacilityRepository(db.Pool)
	symptomRepo := repository.NewSymptomCheckRepository(db.Pool)
	tipRepo := repository.NewHealthTipRepository(db.Pool)

	// Services
	deps := server.Deps{
		Medication: schedule.NewService(reminderRepo, doseLogRepo, zlog),
		Facilities: facility.NewService(facilityRepo, zlog),
		Profiles:   profile.NewService(profileRepo),
		DB:         db,
		Logger:     zlog,
	}
	if aiClient != nil {
		deps.Symptoms = symptom.NewService(aiClient, profileRepo, symptomRepo, zlog)
		deps.Tips = tips.NewService(aiClient, profileRepo, tipRepo, zlog)
	}

	srv := server.New(deps)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		zlog.Info("Shutting down...")
		cancel()
	}()

	zlog.Info("Starting server", zap.String("port", cfg.Port))
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		zlog.Fatal("Server error", zap.Error(err))
	}
}
