package models

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"full_name"`
	Age                *int      `json:"age"`
	Gender             string    `json:"gender"`
	Location           string    `json:"location"`
	PreferredLanguage  string    `json:"preferred_language"`
	ExistingConditions []string  `json:"existing_conditions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
