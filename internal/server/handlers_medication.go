package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/models"
	"github.com/carelink-health/carelink/internal/repository"
	"github.com/carelink-health/carelink/internal/schedule"
)

const dateLayout = "2006-01-02"

type createReminderRequest struct {
	UserID       uuid.UUID `json:"userId"`
	MedicineName string    `json:"medicineName"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Times        []string  `json:"times"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Notes        string    `json:"notes"`
}

func (s *Server) handleCreateReminder(c *gin.Context) {
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	var startDate time.Time
	if req.StartDate != "" {
		parsed, ok := parseDate(c, req.StartDate, "startDate")
		if !ok {
			return
		}
		startDate = parsed
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, ok := parseDate(c, req.EndDate, "endDate")
		if !ok {
			return
		}
		endDate = &parsed
	}

	reminder, err := s.deps.Medication.CreateReminder(c.Request.Context(), schedule.CreateReminderParams{
		UserID:       req.UserID,
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Times:        req.Times,
		StartDate:    startDate,
		EndDate:      endDate,
		Notes:        req.Notes,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondCreated(c, reminder)
}

func (s *Server) handleListReminders(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}
	activeOnly := c.Query("activeOnly") == "true"

	reminders, err := s.deps.Medication.ListReminders(c.Request.Context(), userID, activeOnly)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(reminders))
}

type updateReminderRequest struct {
	UserID       uuid.UUID `json:"userId"`
	MedicineName *string   `json:"medicineName"`
	Dosage       *string   `json:"dosage"`
	Frequency    *string   `json:"frequency"`
	Times        []string  `json:"times"`
	StartDate    *string   `json:"startDate"`
	EndDate      *string   `json:"endDate"`
	IsActive     *bool     `json:"isActive"`
	Notes        *string   `json:"notes"`
}

func (s *Server) handleUpdateReminder(c *gin.Context) {
	reminderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Reminder ID is malformed")
		return
	}

	var req updateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	patch := &models.ReminderPatch{
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Times:        req.Times,
		IsActive:     req.IsActive,
		Notes:        req.Notes,
	}
	if req.StartDate != nil {
		parsed, ok := parseDate(c, *req.StartDate, "startDate")
		if !ok {
			return
		}
		patch.StartDate = &parsed
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			patch.ClearEndDate = true
		} else {
			parsed, ok := parseDate(c, *req.EndDate, "endDate")
			if !ok {
				return
			}
			patch.EndDate = &parsed
		}
	}

	reminder, err := s.deps.Medication.UpdateReminder(c.Request.Context(), reminderID, req.UserID, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, reminder)
}

func (s *Server) handleDeleteReminder(c *gin.Context) {
	reminderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Reminder ID is malformed")
		return
	}
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	if err := s.deps.Medication.DeleteReminder(c.Request.Context(), reminderID, userID); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Reminder deleted successfully"})
}

func (s *Server) handleDailySchedule(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			badRequest(c, "day must be formatted YYYY-MM-DD")
			return
		}
		day = parsed
	}

	items, err := s.deps.Medication.BuildDailySchedule(c.Request.Context(), userID, day)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(items))
}

type doseStatusRequest struct {
	UserID        uuid.UUID         `json:"userId"`
	ReminderID    uuid.UUID         `json:"reminderId"`
	ScheduledTime time.Time         `json:"scheduledTime"`
	Status        models.DoseStatus `json:"status"`
	TakenTime     *time.Time        `json:"takenTime"`
	Notes         string            `json:"notes"`
}

func (s *Server) handleDoseStatus(c *gin.Context) {
	var req doseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	log, err := s.deps.Medication.RecordDoseStatus(c.Request.Context(), schedule.RecordDoseParams{
		UserID:        req.UserID,
		ReminderID:    req.ReminderID,
		ScheduledTime: req.ScheduledTime,
		Status:        req.Status,
		TakenTime:     req.TakenTime,
		Notes:         req.Notes,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, log)
}

func (s *Server) handleListLogs(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	opts := repository.LogListOptions{}
	if raw := c.Query("reminderId"); raw != "" {
		reminderID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Reminder ID is malformed")
			return
		}
		opts.ReminderID = &reminderID
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			badRequest(c, "date must be formatted YYYY-MM-DD")
			return
		}
		opts.Day = &day
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}

	logs, err := s.deps.Medication.ListLogs(c.Request.Context(), userID, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(logs))
}

func parseDate(c *gin.Context, raw, field string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		badRequest(c, field+" must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}
