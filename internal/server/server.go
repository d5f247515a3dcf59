// Package server exposes the application over an HTTP JSON API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink-health/carelink/internal/facility"
	"github.com/carelink-health/carelink/internal/models"
	"github.com/carelink-health/carelink/internal/repository"
	"github.com/carelink-health/carelink/internal/schedule"
	"github.com/carelink-health/carelink/internal/symptom"
	"github.com/carelink-health/carelink/internal/tips"
)

type MedicationService interface {
	BuildDailySchedule(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.ScheduleItem, error)
	RecordDoseStatus(ctx context.Context, params schedule.RecordDoseParams) (*models.MedicineLog, error)
	CreateReminder(ctx context.Context, params schedule.CreateReminderParams) (*models.MedicineReminder, error)
	ListReminders(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.MedicineReminder, error)
	UpdateReminder(ctx context.Context, reminderID, userID uuid.UUID, patch *models.ReminderPatch) (*models.MedicineReminder, error)
	DeleteReminder(ctx context.Context, reminderID, userID uuid.UUID) error
	ListLogs(ctx context.Context, userID uuid.UUID, opts repository.LogListOptions) ([]*models.MedicineLog, error)
}

type SymptomService interface {
	Analyze(ctx context.Context, userID uuid.UUID, symptoms string) (*symptom.Result, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SymptomCheck, error)
}

type TipsService interface {
	Generate(ctx context.Context, userID uuid.UUID, category string) (*tips.Result, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.HealthTipRecord, error)
}

type FacilityService interface {
	Search(ctx context.Context, params facility.SearchParams) ([]*models.Facility, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FacilitySearch, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires the services into the router.
type Deps struct {
	Medication MedicationService
	Symptoms   SymptomService
	Tips       TipsService
	Facilities FacilityService
	Profiles   ProfileService
	DB         Pinger
	Logger     *zap.Logger
}

type Server struct {
	deps   Deps
	router *gin.Engine
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{deps: deps}

	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.handleReadyz)

	api := router.Group("/api/v1")
	{
		api.GET("/reminders", s.handleListReminders)
		api.POST("/reminders", s.handleCreateReminder)
		api.PUT("/reminders/:id", s.handleUpdateReminder)
		api.DELETE("/reminders/:id", s.handleDeleteReminder)

		api.GET("/schedule", s.handleDailySchedule)
		api.POST("/dose-status", s.handleDoseStatus)
		api.GET("/medicine-logs", s.handleListLogs)

		api.POST("/symptom-checker", s.handleSymptomCheck)
		api.GET("/symptom-checker/history", s.handleSymptomHistory)

		api.POST("/health-tips", s.handleHealthTips)
		api.GET("/health-tips/history", s.handleHealthTipsHistory)

		api.GET("/facilities", s.handleFacilitySearch)
		api.GET("/facilities/history", s.handleFacilityHistory)

		api.GET("/profiles/:userId", s.handleGetProfile)
		api.POST("/profiles", s.handleCreateProfile)
		api.PUT("/profiles/:userId", s.handleUpdateProfile)
	}

	s.router = router
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the context is cancelled, then drains with a grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleReadyz(c *gin.Context) {
	if s.deps.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.deps.DB.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// empty enforces "[]" over "null" for empty JSON arrays in responses.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
