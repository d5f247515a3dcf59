package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TipCategoryGeneral    = "general"
	TipCategoryDiet       = "diet"
	TipCategoryExercise   = "exercise"
	TipCategoryMental     = "mental"
	TipCategoryPreventive = "preventive"
)

// ValidTipCategory reports whether the category is one the tips prompt knows.
func ValidTipCategory(category string) bool {
	switch category {
	case TipCategoryGeneral, TipCategoryDiet, TipCategoryExercise,
		TipCategoryMental, TipCategoryPreventive:
		return true
	}
	return false
}

type HealthTipRecord struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Category  string          `json:"category"`
	TipsData  json.RawMessage `json:"tips_data"`
	CreatedAt time.Time       `json:"created_at"`
}
