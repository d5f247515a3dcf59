package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink-health/carelink/internal/apperr"
	"github.com/carelink-health/carelink/internal/models"
	"github.com/carelink-health/carelink/internal/repository"
)

type fakeReminderStore struct {
	reminders []*models.MedicineReminder
	err       error
	deleted   []uuid.UUID
}

func (f *fakeReminderStore) Create(_ context.Context, reminder *models.MedicineReminder) error {
	if f.err != nil {
		return f.err
	}
	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	f.reminders = append(f.reminders, reminder)
	return nil
}

func (f *fakeReminderStore) GetByID(_ context.Context, reminderID, userID uuid.UUID) (*models.MedicineReminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.reminders {
		if r.ID == reminderID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReminderStore) ListByUser(_ context.Context, userID uuid.UUID, activeOnly bool) ([]*models.MedicineReminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.MedicineReminder
	for _, r := range f.reminders {
		if r.UserID != userID {
			continue
		}
		if activeOnly && !r.IsActive {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReminderStore) ActiveOnDay(_ context.Context, userID uuid.UUID, day time.Time) ([]*models.MedicineReminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.MedicineReminder
	for _, r := range f.reminders {
		if r.UserID == userID && r.ActiveOn(day) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) Update(_ context.Context, reminderID, userID uuid.UUID, patch *models.ReminderPatch) (*models.MedicineReminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.reminders {
		if r.ID != reminderID || r.UserID != userID {
			continue
		}
		if patch.MedicineName != nil {
			r.MedicineName = *patch.MedicineName
		}
		if patch.Times != nil {
			r.Times = patch.Times
		}
		if patch.IsActive != nil {
			r.IsActive = *patch.IsActive
		}
		r.UpdatedAt = time.Now()
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReminderStore) Delete(_ context.Context, reminderID, userID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for i, r := range f.reminders {
		if r.ID == reminderID && r.UserID == userID {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			f.deleted = append(f.deleted, reminderID)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeDoseLogStore struct {
	logs []*models.MedicineLog
	err  error
}

func (f *fakeDoseLogStore) Upsert(_ context.Context, log *models.MedicineLog) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.logs {
		if existing.ReminderID == log.ReminderID && existing.ScheduledTime.Equal(log.ScheduledTime) {
			existing.Status = log.Status
			existing.TakenTime = log.TakenTime
			existing.Notes = log.Notes
			log.ID = existing.ID
			log.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeDoseLogStore) ListForRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*models.MedicineLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.MedicineLog
	for _, log := range f.logs {
		if log.UserID != userID {
			continue
		}
		if log.ScheduledTime.Before(from) || !log.ScheduledTime.Before(to) {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (f *fakeDoseLogStore) List(_ context.Context, userID uuid.UUID, opts repository.LogListOptions) ([]*models.MedicineLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.MedicineLog
	for _, log := range f.logs {
		if log.UserID != userID {
			continue
		}
		if opts.ReminderID != nil && log.ReminderID != *opts.ReminderID {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func newTestService() (*Service, *fakeReminderStore, *fakeDoseLogStore) {
	reminders := &fakeReminderStore{}
	logs := &fakeDoseLogStore{}
	return NewService(reminders, logs, nil), reminders, logs
}

func testReminder(userID uuid.UUID, times []string, start time.Time, end *time.Time) *models.MedicineReminder {
	return &models.MedicineReminder{
		ID:           uuid.New(),
		UserID:       userID,
		MedicineName: "Metformin",
		Dosage:       "500mg",
		Frequency:    models.FrequencyTwiceDaily,
		Times:        times,
		StartDate:    start,
		EndDate:      end,
		IsActive:     true,
	}
}

func TestBuildDailySchedule_ExpandsEveryTimeEntry(t *testing.T) {
	svc, reminders, _ := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	reminders.reminders = []*models.MedicineReminder{
		testReminder(userID, []string{"08:00", "20:00"}, day.AddDate(0, 0, -5), nil),
		testReminder(userID, []string{"12:00"}, day.AddDate(0, 0, -1), nil),
	}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 8, items[0].ScheduledTime.Hour())
	assert.Equal(t, 12, items[1].ScheduledTime.Hour())
	assert.Equal(t, 20, items[2].ScheduledTime.Hour())
	for _, item := range items {
		assert.Equal(t, models.DoseStatusPending, item.Status)
		assert.Nil(t, item.LogID)
		assert.Nil(t, item.TakenTime)
	}
}

func TestBuildDailySchedule_DateRangeBoundaries(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := day

	cases := []struct {
		name     string
		reminder *models.MedicineReminder
		want     int
	}{
		{"starts today", testReminder(userID, []string{"08:00"}, day, nil), 1},
		{"ends today", testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -7), &end), 1},
		{"starts tomorrow", testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, 1), nil), 0},
		{"ended yesterday", testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -7), ptrTime(day.AddDate(0, 0, -1))), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, reminders, _ := newTestService()
			reminders.reminders = []*models.MedicineReminder{tc.reminder}

			items, err := svc.BuildDailySchedule(context.Background(), userID, day)
			require.NoError(t, err)
			assert.Len(t, items, tc.want)
		})
	}
}

func TestBuildDailySchedule_SkipsInactiveReminders(t *testing.T) {
	svc, reminders, _ := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	inactive := testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -5), nil)
	inactive.IsActive = false
	reminders.reminders = []*models.MedicineReminder{inactive}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuildDailySchedule_OverlaysLoggedDoses(t *testing.T) {
	svc, reminders, logs := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	reminder := testReminder(userID, []string{"08:00", "20:00"}, day.AddDate(0, 0, -5), nil)
	reminders.reminders = []*models.MedicineReminder{reminder}

	takenAt := day.Add(8*time.Hour + 12*time.Minute)
	logID := uuid.New()
	logs.logs = []*models.MedicineLog{{
		ID:            logID,
		UserID:        userID,
		ReminderID:    reminder.ID,
		ScheduledTime: day.Add(8 * time.Hour),
		Status:        models.DoseStatusTaken,
		TakenTime:     &takenAt,
		Notes:         "with breakfast",
	}}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, models.DoseStatusTaken, items[0].Status)
	require.NotNil(t, items[0].TakenTime)
	assert.True(t, items[0].TakenTime.Equal(takenAt))
	assert.Equal(t, "with breakfast", items[0].Notes)
	require.NotNil(t, items[0].LogID)
	assert.Equal(t, logID, *items[0].LogID)

	// The 20:00 dose has no log row and stays pending.
	assert.Equal(t, models.DoseStatusPending, items[1].Status)
	assert.Nil(t, items[1].LogID)
}

func TestBuildDailySchedule_IgnoresLogsFromOtherDays(t *testing.T) {
	svc, reminders, logs := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	reminder := testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -5), nil)
	reminders.reminders = []*models.MedicineReminder{reminder}
	logs.logs = []*models.MedicineLog{{
		ID:            uuid.New(),
		UserID:        userID,
		ReminderID:    reminder.ID,
		ScheduledTime: day.AddDate(0, 0, -1).Add(8 * time.Hour),
		Status:        models.DoseStatusTaken,
	}}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.DoseStatusPending, items[0].Status)
}

func TestBuildDailySchedule_TieBreaksOnReminderID(t *testing.T) {
	svc, reminders, _ := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	a := testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -5), nil)
	b := testReminder(userID, []string{"08:00"}, day.AddDate(0, 0, -5), nil)
	reminders.reminders = []*models.MedicineReminder{b, a}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Less(t, items[0].Reminder.ID.String(), items[1].Reminder.ID.String())
}

func TestBuildDailySchedule_SkipsMalformedTimes(t *testing.T) {
	svc, reminders, _ := newTestService()
	userID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	reminders.reminders = []*models.MedicineReminder{
		testReminder(userID, []string{"08:00", "25:99", ""}, day.AddDate(0, 0, -5), nil),
	}

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].ScheduledTime.Hour())
}

func TestBuildDailySchedule_EmptyScheduleIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService()

	items, err := svc.BuildDailySchedule(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuildDailySchedule_RequiresUserID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.BuildDailySchedule(context.Background(), uuid.Nil, time.Now())
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestBuildDailySchedule_StoreFailureAbortsWholeOperation(t *testing.T) {
	svc, reminders, logs := newTestService()
	userID := uuid.New()

	reminders.err = errors.New("connection refused")
	items, err := svc.BuildDailySchedule(context.Background(), userID, time.Now())
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Nil(t, items)

	reminders.err = nil
	logs.err = errors.New("connection refused")
	items, err = svc.BuildDailySchedule(context.Background(), userID, time.Now())
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Nil(t, items)
}

func TestRecordThenRebuildSchedule(t *testing.T) {
	svc, reminders, _ := newTestService()
	userID := uuid.New()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	reminder := testReminder(userID, []string{"08:00", "20:00"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	reminders.reminders = []*models.MedicineReminder{reminder}

	takenAt := day.Add(8*time.Hour + 12*time.Minute)
	_, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		UserID:        userID,
		ReminderID:    reminder.ID,
		ScheduledTime: day.Add(8 * time.Hour),
		Status:        models.DoseStatusTaken,
		TakenTime:     &takenAt,
	})
	require.NoError(t, err)

	items, err := svc.BuildDailySchedule(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, models.DoseStatusTaken, items[0].Status)
	require.NotNil(t, items[0].TakenTime)
	assert.True(t, items[0].TakenTime.Equal(takenAt))

	assert.Equal(t, models.DoseStatusPending, items[1].Status)
	assert.Nil(t, items[1].TakenTime)
}

func TestRecordDoseStatus_TakenDefaultsTakenTime(t *testing.T) {
	svc, _, logs := newTestService()
	before := time.Now()

	log, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		UserID:        uuid.New(),
		ReminderID:    uuid.New(),
		ScheduledTime: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Status:        models.DoseStatusTaken,
	})
	require.NoError(t, err)
	require.NotNil(t, log.TakenTime)
	assert.False(t, log.TakenTime.Before(before))
	assert.Len(t, logs.logs, 1)
}

func TestRecordDoseStatus_KeepsExplicitTakenTime(t *testing.T) {
	svc, _, _ := newTestService()
	takenAt := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	log, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		UserID:        uuid.New(),
		ReminderID:    uuid.New(),
		ScheduledTime: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Status:        models.DoseStatusTaken,
		TakenTime:     &takenAt,
	})
	require.NoError(t, err)
	require.NotNil(t, log.TakenTime)
	assert.True(t, log.TakenTime.Equal(takenAt))
}

func TestRecordDoseStatus_ClearsTakenTimeForMissedAndSkipped(t *testing.T) {
	svc, _, _ := newTestService()
	takenAt := time.Now()

	for _, status := range []models.DoseStatus{models.DoseStatusMissed, models.DoseStatusSkipped} {
		log, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
			UserID:        uuid.New(),
			ReminderID:    uuid.New(),
			ScheduledTime: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			Status:        status,
			TakenTime:     &takenAt,
		})
		require.NoError(t, err)
		assert.Nil(t, log.TakenTime, "status %s", status)
	}
}

func TestRecordDoseStatus_AmendingUpdatesTheSameRow(t *testing.T) {
	svc, _, logs := newTestService()
	userID := uuid.New()
	reminderID := uuid.New()
	scheduled := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	first, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		UserID: userID, ReminderID: reminderID, ScheduledTime: scheduled,
		Status: models.DoseStatusSkipped,
	})
	require.NoError(t, err)

	second, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		UserID: userID, ReminderID: reminderID, ScheduledTime: scheduled,
		Status: models.DoseStatusTaken,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, models.DoseStatusTaken, logs.logs[0].Status)
}

func TestRecordDoseStatus_RejectsNonRecordableStatus(t *testing.T) {
	svc, _, _ := newTestService()
	params := RecordDoseParams{
		UserID:        uuid.New(),
		ReminderID:    uuid.New(),
		ScheduledTime: time.Now(),
	}

	for _, status := range []models.DoseStatus{models.DoseStatusPending, "late", "TAKEN"} {
		params.Status = status
		_, err := svc.RecordDoseStatus(context.Background(), params)
		assert.ErrorIs(t, err, apperr.ErrInvalidStatus, "status %q", status)
	}
}

func TestRecordDoseStatus_RequiresIdentifyingFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RecordDoseStatus(context.Background(), RecordDoseParams{
		Status: models.DoseStatusTaken,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestCreateReminder_FillsDefaultTimesFromFrequency(t *testing.T) {
	svc, _, _ := newTestService()

	reminder, err := svc.CreateReminder(context.Background(), CreateReminderParams{
		UserID:       uuid.New(),
		MedicineName: "Lisinopril",
		Dosage:       "10mg",
		Frequency:    models.FrequencyThreeTimesDaily,
		StartDate:    time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "14:00", "20:00"}, reminder.Times)
	assert.True(t, reminder.IsActive)
}

func TestCreateReminder_RejectsMalformedTimes(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateReminder(context.Background(), CreateReminderParams{
		UserID:       uuid.New(),
		MedicineName: "Lisinopril",
		Dosage:       "10mg",
		Frequency:    models.FrequencyOnceDaily,
		Times:        []string{"8am"},
		StartDate:    time.Now(),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestCreateReminder_RequiresCoreFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateReminder(context.Background(), CreateReminderParams{
		UserID:    uuid.New(),
		Frequency: models.FrequencyOnceDaily,
		StartDate: time.Now(),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestUpdateReminder_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateReminder(context.Background(), uuid.New(), uuid.New(), &models.ReminderPatch{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteReminder_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.DeleteReminder(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteReminder_LeavesLogsIntact(t *testing.T) {
	svc, reminders, logs := newTestService()
	userID := uuid.New()
	reminder := testReminder(userID, []string{"08:00"}, time.Now().AddDate(0, 0, -5), nil)
	reminders.reminders = []*models.MedicineReminder{reminder}
	logs.logs = []*models.MedicineLog{{
		ID:            uuid.New(),
		UserID:        userID,
		ReminderID:    reminder.ID,
		ScheduledTime: time.Now(),
		Status:        models.DoseStatusTaken,
	}}

	require.NoError(t, svc.DeleteReminder(context.Background(), reminder.ID, userID))

	history, err := svc.ListLogs(context.Background(), userID, repository.LogListOptions{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
