package models

import (
	"time"

	"github.com/google/uuid"
)

type DoseStatus string

const (
	DoseStatusPending DoseStatus = "pending" // derived only, never persisted
	DoseStatusTaken   DoseStatus = "taken"
	DoseStatusMissed  DoseStatus = "missed"
	DoseStatusSkipped DoseStatus = "skipped"
)

// Recordable reports whether the status may be written to a log row.
func (s DoseStatus) Recordable() bool {
	switch s {
	case DoseStatusTaken, DoseStatusMissed, DoseStatusSkipped:
		return true
	}
	return false
}

// MedicineLog records what actually happened at one scheduled dose instant.
// At most one row exists per (ReminderID, ScheduledTime).
type MedicineLog struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ReminderID    uuid.UUID  `json:"reminder_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        DoseStatus `json:"status"`
	TakenTime     *time.Time `json:"taken_time"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`

	// Populated on listing joins, not stored on the row itself.
	MedicineName string `json:"medicine_name,omitempty"`
	Dosage       string `json:"dosage,omitempty"`
}
