package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

const reminderColumns = `id, user_id, medicine_name, dosage, frequency, times, start_date, end_date, is_active, notes, created_at, updated_at`

type ReminderRepository struct {
	q database.Querier
}

func NewReminderRepository(q database.Querier) *ReminderRepository {
	return &ReminderRepository{q: q}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.MedicineReminder) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO medicine_reminders (user_id, medicine_name, dosage, frequency, times, start_date, end_date, is_active, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		reminder.UserID, reminder.MedicineName, reminder.Dosage, reminder.Frequency, reminder.Times,
		reminder.StartDate, reminder.EndDate, reminder.IsActive, reminder.Notes,
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID, userID uuid.UUID) (*models.MedicineReminder, error) {
	reminder := &models.MedicineReminder{}
	err := r.q.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM medicine_reminders WHERE id = $1 AND user_id = $2`,
		reminderID, userID,
	).Scan(&reminder.ID, &reminder.UserID, &reminder.MedicineName, &reminder.Dosage, &reminder.Frequency,
		&reminder.Times, &reminder.StartDate, &reminder.EndDate, &reminder.IsActive, &reminder.Notes,
		&reminder.CreatedAt, &reminder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.MedicineReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM medicine_reminders WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ActiveOnDay returns the reminders whose active date range covers the given
// calendar day. Both range ends are inclusive; a NULL end_date is open-ended.
func (r *ReminderRepository) ActiveOnDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.MedicineReminder, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reminderColumns+` FROM medicine_reminders
		 WHERE user_id = $1 AND is_active = TRUE
		   AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
		 ORDER BY created_at`,
		userID, models.DateOnly(day),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Update applies a partial patch: only non-nil fields change.
// Returns pgx.ErrNoRows when no reminder matches (reminderID, userID).
func (r *ReminderRepository) Update(ctx context.Context, reminderID, userID uuid.UUID, patch *models.ReminderPatch) (*models.MedicineReminder, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{reminderID, userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.MedicineName != nil {
		add("medicine_name", *patch.MedicineName)
	}
	if patch.Dosage != nil {
		add("dosage", *patch.Dosage)
	}
	if patch.Frequency != nil {
		add("frequency", *patch.Frequency)
	}
	if patch.Times != nil {
		add("times", patch.Times)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.ClearEndDate {
		sets = append(sets, "end_date = NULL")
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	query := `UPDATE medicine_reminders SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 RETURNING ` + reminderColumns

	reminder := &models.MedicineReminder{}
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&reminder.ID, &reminder.UserID, &reminder.MedicineName, &reminder.Dosage, &reminder.Frequency,
		&reminder.Times, &reminder.StartDate, &reminder.EndDate, &reminder.IsActive, &reminder.Notes,
		&reminder.CreatedAt, &reminder.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// Delete hard-deletes a reminder. Existing log rows keep their reminder_id
// reference so adherence history survives. Returns pgx.ErrNoRows when nothing
// matched.
func (r *ReminderRepository) Delete(ctx context.Context, reminderID, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM medicine_reminders WHERE id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReminders(rows pgx.Rows) ([]*models.MedicineReminder, error) {
	var reminders []*models.MedicineReminder
	for rows.Next() {
		reminder := &models.MedicineReminder{}
		if err := rows.Scan(&reminder.ID, &reminder.UserID, &reminder.MedicineName, &reminder.Dosage,
			&reminder.Frequency, &reminder.Times, &reminder.StartDate, &reminder.EndDate,
			&reminder.IsActive, &reminder.Notes, &reminder.CreatedAt, &reminder.UpdatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
