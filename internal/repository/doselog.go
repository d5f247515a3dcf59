package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

type DoseLogRepository struct {
	q database.Querier
}

func NewDoseLogRepository(q database.Querier) *DoseLogRepository {
	return &DoseLogRepository{q: q}
}

// Upsert writes the log row for one scheduled dose instant. The write is a
// single atomic insert-or-update keyed on (reminder_id, scheduled_time), so
// concurrent calls for the same instant cannot produce duplicate rows;
// last writer wins. Mutable fields are fully replaced, not merged.
func (r *DoseLogRepository) Upsert(ctx context.Context, log *models.MedicineLog) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO medicine_logs (user_id, reminder_id, scheduled_time, status, taken_time, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (reminder_id, scheduled_time) DO UPDATE
		 SET status = EXCLUDED.status, taken_time = EXCLUDED.taken_time, notes = EXCLUDED.notes
		 RETURNING id, created_at`,
		log.UserID, log.ReminderID, log.ScheduledTime, log.Status, log.TakenTime, log.Notes,
	).Scan(&log.ID, &log.CreatedAt)
}

// ListForRange returns all of a user's log rows with scheduled_time in
// [from, to). Used by the schedule reconciler to overlay one day's logs in a
// single read.
func (r *DoseLogRepository) ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.MedicineLog, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, reminder_id, scheduled_time, status, taken_time, notes, created_at
		 FROM medicine_logs
		 WHERE user_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.MedicineLog
	for rows.Next() {
		log := &models.MedicineLog{}
		if err := rows.Scan(&log.ID, &log.UserID, &log.ReminderID, &log.ScheduledTime,
			&log.Status, &log.TakenTime, &log.Notes, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// LogListOptions filters the adherence history listing.
type LogListOptions struct {
	ReminderID *uuid.UUID
	Day        *time.Time
	Limit      int
}

// List returns a user's adherence history, newest first, joined with the
// owning reminder's display fields. The join is a left join: rows whose
// reminder was deleted still appear.
func (r *DoseLogRepository) List(ctx context.Context, userID uuid.UUID, opts LogListOptions) ([]*models.MedicineLog, error) {
	query := `SELECT l.id, l.user_id, l.reminder_id, l.scheduled_time, l.status, l.taken_time, l.notes, l.created_at,
	                 COALESCE(m.medicine_name, ''), COALESCE(m.dosage, '')
	          FROM medicine_logs l
	          LEFT JOIN medicine_reminders m ON m.id = l.reminder_id
	          WHERE l.user_id = $1`
	args := []any{userID}

	if opts.ReminderID != nil {
		args = append(args, *opts.ReminderID)
		query += ` AND l.reminder_id = $2`
	}
	if opts.Day != nil {
		dayStart := models.DateOnly(*opts.Day)
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
		query += ` AND l.scheduled_time >= $` + strconv.Itoa(len(args)-1) + ` AND l.scheduled_time < $` + strconv.Itoa(len(args))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` ORDER BY l.scheduled_time DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.MedicineLog
	for rows.Next() {
		log := &models.MedicineLog{}
		if err := rows.Scan(&log.ID, &log.UserID, &log.ReminderID, &log.ScheduledTime,
			&log.Status, &log.TakenTime, &log.Notes, &log.CreatedAt,
			&log.MedicineName, &log.Dosage); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
