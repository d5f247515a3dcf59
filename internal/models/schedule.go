package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleItem is one dose instant of a day's schedule, overlaid with the
// matching log entry when one exists. Derived, never persisted.
type ScheduleItem struct {
	Reminder      *MedicineReminder `json:"reminder"`
	ScheduledTime time.Time         `json:"scheduled_time"`
	Status        DoseStatus        `json:"status"`
	TakenTime     *time.Time        `json:"taken_time"`
	Notes         string            `json:"notes"`
	LogID         *uuid.UUID        `json:"log_id"`
}
