// Package schedule derives a user's daily medication schedule from recurring
// reminder rules and reconciles it with their adherence log.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/carelink-health/carelink/internal/apperr"
	"github.com/carelink-health/carelink/internal/models"
	"github.com/carelink-health/carelink/internal/repository"
)

// ReminderStore supplies and persists recurring reminder rules.
type ReminderStore interface {
	Create(ctx context.Context, reminder *models.MedicineReminder) error
	GetByID(ctx context.Context, reminderID, userID uuid.UUID) (*models.MedicineReminder, error)
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.MedicineReminder, error)
	ActiveOnDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.MedicineReminder, error)
	Update(ctx context.Context, reminderID, userID uuid.UUID, patch *models.ReminderPatch) (*models.MedicineReminder, error)
	Delete(ctx context.Context, reminderID, userID uuid.UUID) error
}

// DoseLogStore supplies and persists point-in-time adherence records.
type DoseLogStore interface {
	Upsert(ctx context.Context, log *models.MedicineLog) error
	ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.MedicineLog, error)
	List(ctx context.Context, userID uuid.UUID, opts repository.LogListOptions) ([]*models.MedicineLog, error)
}

type Service struct {
	reminders ReminderStore
	logs      DoseLogStore
	logger    *zap.Logger
}

func NewService(reminders ReminderStore, logs DoseLogStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reminders: reminders, logs: logs, logger: logger}
}

type logKey struct {
	reminderID uuid.UUID
	instant    int64
}

// BuildDailySchedule produces the ordered list of dose events due on the
// given calendar day for one user. Every time entry of every rule active on
// that day becomes one item; items with a matching log row take the log's
// status, the rest default to pending. The result is fully materialized and
// sorted ascending by scheduled time, ties broken by reminder ID.
//
// An empty schedule is a valid result, not an error. Store failures abort
// the whole operation; a partial schedule is never returned.
func (s *Service) BuildDailySchedule(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.ScheduleItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	if day.IsZero() {
		day = time.Now()
	}

	reminders, err := s.reminders.ActiveOnDay(ctx, userID, day)
	if err != nil {
		return nil, storeError("load active reminders", err)
	}

	dayStart := models.DateOnly(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	logs, err := s.logs.ListForRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, storeError("load dose logs", err)
	}

	logIndex := make(map[logKey]*models.MedicineLog, len(logs))
	for _, log := range logs {
		logIndex[logKey{log.ReminderID, log.ScheduledTime.Unix()}] = log
	}

	items := make([]models.ScheduleItem, 0, len(reminders))
	for _, reminder := range reminders {
		for _, tod := range reminder.Times {
			clock, err := time.Parse("15:04", tod)
			if err != nil {
				// A rule with a malformed time entry contributes nothing for
				// that entry; it must not sink the whole schedule.
				s.logger.Warn("skipping malformed reminder time",
					zap.String("reminder_id", reminder.ID.String()),
					zap.String("time", tod))
				continue
			}

			scheduled := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
				clock.Hour(), clock.Minute(), 0, 0, dayStart.Location())

			item := models.ScheduleItem{
				Reminder:      reminder,
				ScheduledTime: scheduled,
				Status:        models.DoseStatusPending,
			}
			if log, ok := logIndex[logKey{reminder.ID, scheduled.Unix()}]; ok {
				item.Status = log.Status
				item.TakenTime = log.TakenTime
				item.Notes = log.Notes
				id := log.ID
				item.LogID = &id
			}
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScheduledTime.Equal(items[j].ScheduledTime) {
			return items[i].ScheduledTime.Before(items[j].ScheduledTime)
		}
		return items[i].Reminder.ID.String() < items[j].Reminder.ID.String()
	})

	return items, nil
}

// RecordDoseParams identifies one scheduled dose instant and the outcome to
// record for it. ScheduledTime must be the exact instant produced by
// BuildDailySchedule; a different instant creates a separate log row.
type RecordDoseParams struct {
	UserID        uuid.UUID
	ReminderID    uuid.UUID
	ScheduledTime time.Time
	Status        models.DoseStatus
	TakenTime     *time.Time
	Notes         string
}

// RecordDoseStatus records or amends the outcome of one scheduled dose.
// The write is an upsert keyed on (reminderID, scheduledTime): acting twice
// on the same instant updates the one row in place. TakenTime defaults to
// the current instant when status is taken and none is supplied, and is
// cleared for missed/skipped.
func (s *Service) RecordDoseStatus(ctx context.Context, params RecordDoseParams) (*models.MedicineLog, error) {
	if params.UserID == uuid.Nil || params.ReminderID == uuid.Nil || params.ScheduledTime.IsZero() || params.Status == "" {
		return nil, fmt.Errorf("%w: userId, reminderId, scheduledTime and status are required", apperr.ErrInvalidRequest)
	}
	if !params.Status.Recordable() {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidStatus, params.Status)
	}

	log := &models.MedicineLog{
		UserID:        params.UserID,
		ReminderID:    params.ReminderID,
		ScheduledTime: params.ScheduledTime,
		Status:        params.Status,
		Notes:         params.Notes,
	}
	if params.Status == models.DoseStatusTaken {
		if params.TakenTime != nil {
			log.TakenTime = params.TakenTime
		} else {
			now := time.Now()
			log.TakenTime = &now
		}
	}

	if err := s.logs.Upsert(ctx, log); err != nil {
		return nil, storeError("upsert dose log", err)
	}
	return log, nil
}

// CreateReminderParams carries the fields of a new reminder rule. When Times
// is empty it is pre-populated from the frequency tag's defaults.
type CreateReminderParams struct {
	UserID       uuid.UUID
	MedicineName string
	Dosage       string
	Frequency    string
	Times        []string
	StartDate    time.Time
	EndDate      *time.Time
	Notes        string
}

func (s *Service) CreateReminder(ctx context.Context, params CreateReminderParams) (*models.MedicineReminder, error) {
	if params.UserID == uuid.Nil || params.MedicineName == "" || params.Dosage == "" ||
		params.Frequency == "" || params.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: userId, medicineName, dosage, frequency and startDate are required", apperr.ErrInvalidRequest)
	}

	times := params.Times
	if len(times) == 0 {
		times = models.DefaultTimes(params.Frequency)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: at least one dose time is required", apperr.ErrInvalidRequest)
	}
	if err := validateTimes(times); err != nil {
		return nil, err
	}

	reminder := &models.MedicineReminder{
		UserID:       params.UserID,
		MedicineName: params.MedicineName,
		Dosage:       params.Dosage,
		Frequency:    params.Frequency,
		Times:        times,
		StartDate:    models.DateOnly(params.StartDate),
		EndDate:      params.EndDate,
		IsActive:     true,
		Notes:        params.Notes,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, storeError("create reminder", err)
	}
	return reminder, nil
}

func (s *Service) ListReminders(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.MedicineReminder, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	reminders, err := s.reminders.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, storeError("list reminders", err)
	}
	return reminders, nil
}

func (s *Service) UpdateReminder(ctx context.Context, reminderID, userID uuid.UUID, patch *models.ReminderPatch) (*models.MedicineReminder, error) {
	if reminderID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("%w: reminder ID and user ID are required", apperr.ErrInvalidRequest)
	}
	if patch.Times != nil {
		if err := validateTimes(patch.Times); err != nil {
			return nil, err
		}
	}

	reminder, err := s.reminders.Update(ctx, reminderID, userID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reminder %s", apperr.ErrNotFound, reminderID)
		}
		return nil, storeError("update reminder", err)
	}
	return reminder, nil
}

func (s *Service) DeleteReminder(ctx context.Context, reminderID, userID uuid.UUID) error {
	if reminderID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("%w: reminder ID and user ID are required", apperr.ErrInvalidRequest)
	}
	if err := s.reminders.Delete(ctx, reminderID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: reminder %s", apperr.ErrNotFound, reminderID)
		}
		return storeError("delete reminder", err)
	}
	return nil
}

func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, opts repository.LogListOptions) ([]*models.MedicineLog, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	logs, err := s.logs.List(ctx, userID, opts)
	if err != nil {
		return nil, storeError("list dose logs", err)
	}
	return logs, nil
}

func validateTimes(times []string) error {
	for _, tod := range times {
		if _, err := time.Parse("15:04", tod); err != nil {
			return fmt.Errorf("%w: malformed dose time %q, expected HH:MM", apperr.ErrInvalidRequest, tod)
		}
	}
	return nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperr.ErrStoreUnavailable, op, err)
}
