package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SymptomAnalysis is the structured verdict returned by the AI model.
type SymptomAnalysis struct {
	IsValidSymptom     bool                   `json:"isValidSymptom"`
	PossibleConditions []string               `json:"possibleConditions"`
	Severity           string                 `json:"severity"` // low|medium|high|emergency
	Recommendations    SymptomRecommendations `json:"recommendations"`
	WarningSigns       []string               `json:"warningSigns"`
	Disclaimer         string                 `json:"disclaimer"`
}

type SymptomRecommendations struct {
	Immediate      []string `json:"immediate"`
	General        []string `json:"general"`
	WhenToSeekHelp string   `json:"whenToSeekHelp"`
}

type SymptomCheck struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	SymptomsDescription string          `json:"symptoms_description"`
	AIResponse          json.RawMessage `json:"ai_response"`
	SeverityLevel       string          `json:"severity_level"`
	CreatedAt           time.Time       `json:"created_at"`
}
