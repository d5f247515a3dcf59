package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveOn(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := day.AddDate(0, 0, 5)

	cases := []struct {
		name     string
		reminder MedicineReminder
		want     bool
	}{
		{"open ended", MedicineReminder{IsActive: true, StartDate: day.AddDate(0, 0, -1)}, true},
		{"starts today", MedicineReminder{IsActive: true, StartDate: day}, true},
		{"ends today", MedicineReminder{IsActive: true, StartDate: day.AddDate(0, 0, -10), EndDate: &day}, true},
		{"within range", MedicineReminder{IsActive: true, StartDate: day.AddDate(0, 0, -1), EndDate: &end}, true},
		{"starts tomorrow", MedicineReminder{IsActive: true, StartDate: day.AddDate(0, 0, 1)}, false},
		{"already ended", MedicineReminder{IsActive: true, StartDate: day.AddDate(0, 0, -10), EndDate: ptr(day.AddDate(0, 0, -1))}, false},
		{"deactivated", MedicineReminder{IsActive: false, StartDate: day.AddDate(0, 0, -1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.reminder.ActiveOn(day))
		})
	}
}

func TestActiveOn_IgnoresTimeOfDay(t *testing.T) {
	// A rule starting at 23:59 today is still active for a query at 00:01.
	start := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	reminder := MedicineReminder{IsActive: true, StartDate: start}
	assert.True(t, reminder.ActiveOn(time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)))
}

func TestDefaultTimes(t *testing.T) {
	assert.Equal(t, []string{"08:00"}, DefaultTimes(FrequencyOnceDaily))
	assert.Equal(t, []string{"08:00", "20:00"}, DefaultTimes(FrequencyTwiceDaily))
	assert.Equal(t, []string{"08:00", "14:00", "20:00"}, DefaultTimes(FrequencyThreeTimesDaily))
	assert.Equal(t, []string{"08:00", "12:00", "16:00", "20:00"}, DefaultTimes(FrequencyFourTimesDaily))
	assert.Equal(t, []string{"08:00"}, DefaultTimes(FrequencyWeekly))
	assert.Equal(t, []string{"08:00"}, DefaultTimes(FrequencyAsNeeded))
	assert.Nil(t, DefaultTimes("hourly"))
}

func TestRecordable(t *testing.T) {
	assert.True(t, DoseStatusTaken.Recordable())
	assert.True(t, DoseStatusMissed.Recordable())
	assert.True(t, DoseStatusSkipped.Recordable())
	assert.False(t, DoseStatusPending.Recordable())
	assert.False(t, DoseStatus("late").Recordable())
}

func ptr(t time.Time) *time.Time {
	return &t
}
