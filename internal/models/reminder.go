package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is a descriptive label only. The schedule is always derived from
// the Times list, never from this tag.
const (
	FrequencyOnceDaily       = "once_daily"
	FrequencyTwiceDaily      = "twice_daily"
	FrequencyThreeTimesDaily = "three_times_daily"
	FrequencyFourTimesDaily  = "four_times_daily"
	FrequencyWeekly          = "weekly"
	FrequencyAsNeeded        = "as_needed"
)

type MedicineReminder struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	MedicineName string     `json:"medicine_name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Times        []string   `json:"times"` // "HH:MM", one per dose per day
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	IsActive     bool       `json:"is_active"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ActiveOn reports whether the reminder applies on the given calendar day.
// The date range is inclusive on both ends; a nil EndDate means open-ended.
func (r *MedicineReminder) ActiveOn(day time.Time) bool {
	if !r.IsActive {
		return false
	}
	d := DateOnly(day)
	if DateOnly(r.StartDate).After(d) {
		return false
	}
	if r.EndDate != nil && DateOnly(*r.EndDate).Before(d) {
		return false
	}
	return true
}

// DefaultTimes returns the pre-populated dose times for a frequency tag.
// Used only when creating a reminder without explicit times.
func DefaultTimes(frequency string) []string {
	switch frequency {
	case FrequencyTwiceDaily:
		return []string{"08:00", "20:00"}
	case FrequencyThreeTimesDaily:
		return []string{"08:00", "14:00", "20:00"}
	case FrequencyFourTimesDaily:
		return []string{"08:00", "12:00", "16:00", "20:00"}
	case FrequencyOnceDaily, FrequencyWeekly, FrequencyAsNeeded:
		return []string{"08:00"}
	default:
		return nil
	}
}

// ReminderPatch carries a partial update: nil fields are left unchanged.
// ClearEndDate sets end_date back to open-ended.
type ReminderPatch struct {
	MedicineName *string
	Dosage       *string
	Frequency    *string
	Times        []string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	IsActive     *bool
	Notes        *string
}

// DateOnly truncates a timestamp to its calendar date, preserving location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
