package models

import (
	"time"

	"github.com/google/uuid"
)

type Facility struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Services  []string  `json:"services"`
	Hours     string    `json:"hours"`
	CreatedAt time.Time `json:"created_at"`

	// Distance from the search point in kilometers. Nil when the facility
	// has no coordinates or the search had none.
	Distance *float64 `json:"distance,omitempty"`
}

type FacilitySearch struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	SearchLocation string    `json:"search_location"`
	FacilityType   string    `json:"facility_type"`
	SearchRadius   int       `json:"search_radius"`
	ResultsCount   int       `json:"results_count"`
	CreatedAt      time.Time `json:"created_at"`
}
