package symptom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink-health/carelink/internal/ai"
	"github.com/carelink-health/carelink/internal/apperr"
	"github.com/carelink-health/carelink/internal/models"
)

// InputExamples is returned alongside validation failures so the caller can
// show the user what a usable description looks like.
var InputExamples = []string{
	"I have a headache and feel nauseous",
	"Experiencing chest pain and shortness of breath",
	"Running a fever with body aches",
	"Having stomach pain and diarrhea",
}

type Analyzer interface {
	AnalyzeSymptoms(ctx context.Context, prompt string) (*models.SymptomAnalysis, string, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

type CheckStore interface {
	Create(ctx context.Context, check *models.SymptomCheck) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SymptomCheck, error)
}

type Service struct {
	analyzer Analyzer
	profiles ProfileStore
	checks   CheckStore
	logger   *zap.Logger
}

func NewService(analyzer Analyzer, profiles ProfileStore, checks CheckStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{analyzer: analyzer, profiles: profiles, checks: checks, logger: logger}
}

// Result is one completed symptom analysis. CheckID is nil when the history
// write failed; the analysis itself is still returned.
type Result struct {
	Analysis *models.SymptomAnalysis `json:"analysis"`
	CheckID  *uuid.UUID              `json:"check_id"`
}

// Analyze validates the symptom text, asks the model for a personalized
// assessment, and records the check. History persistence is best-effort:
// a failed write degrades to a log warning, never to a failed analysis.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, symptoms string) (*Result, error) {
	if userID == uuid.Nil || strings.TrimSpace(symptoms) == "" {
		return nil, fmt.Errorf("%w: symptoms description and user ID are required", apperr.ErrInvalidRequest)
	}

	if verdict := Validate(symptoms); !verdict.Valid {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidSymptom, verdict.Message)
	}

	// Profile context is optional; analysis proceeds without one.
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		profile = nil
	}

	analysis, raw, err := s.analyzer.AnalyzeSymptoms(ctx, buildPrompt(profile, symptoms))
	if err != nil {
		if errors.Is(err, ai.ErrBadModelOutput) {
			s.logger.Warn("model reply unparseable, using fallback analysis", zap.Error(err))
			analysis = fallbackAnalysis()
			if raw == "" {
				raw = "{}"
			}
		} else {
			return nil, fmt.Errorf("symptom analysis failed: %w", err)
		}
	}

	if !analysis.IsValidSymptom {
		return nil, fmt.Errorf("%w: the input provided does not appear to describe medical symptoms", apperr.ErrInvalidSymptom)
	}

	result := &Result{Analysis: analysis}

	payload, err := json.Marshal(analysis)
	if err != nil {
		payload = json.RawMessage(raw)
	}
	check := &models.SymptomCheck{
		UserID:              userID,
		SymptomsDescription: symptoms,
		AIResponse:          payload,
		SeverityLevel:       analysis.Severity,
	}
	if err := s.checks.Create(ctx, check); err != nil {
		s.logger.Warn("failed to save symptom check", zap.Error(err))
	} else {
		id := check.ID
		result.CheckID = &id
	}

	return result, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SymptomCheck, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	checks, err := s.checks.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list symptom checks: %w", apperr.ErrStoreUnavailable, err)
	}
	return checks, nil
}

func buildPrompt(profile *models.UserProfile, symptoms string) string {
	age := "Not specified"
	gender := "Not specified"
	conditions := "None specified"
	language := "English"
	if profile != nil {
		if profile.Age != nil {
			age = fmt.Sprintf("%d", *profile.Age)
		}
		if profile.Gender != "" {
			gender = profile.Gender
		}
		if len(profile.ExistingConditions) > 0 {
			conditions = strings.Join(profile.ExistingConditions, ", ")
		}
		if profile.PreferredLanguage != "" {
			language = profile.PreferredLanguage
		}
	}

	return fmt.Sprintf(`As a healthcare AI assistant, analyze these symptoms and provide helpful guidance. Remember this is for informational purposes only and not a replacement for professional medical advice.

Patient Context:
- Age: %s
- Gender: %s
- Existing Conditions: %s
- Language: %s

Symptoms Described: %q

IMPORTANT: First validate if the input describes genuine medical symptoms. If the input appears to be random text, greetings, test input, or non-medical content, respond with "isValidSymptom": false.

Guidelines:
1. Analyze symptoms comprehensively considering the patient context
2. Provide specific possible conditions and reasoning for the severity level
3. Give practical, actionable advice suitable for underserved communities with limited healthcare access
4. Include clear warning signs that require immediate medical attention
5. Be specific about when to seek immediate versus routine care
6. Account for age, gender, and existing conditions in your analysis`,
		age, gender, conditions, language, symptoms)
}

func fallbackAnalysis() *models.SymptomAnalysis {
	return &models.SymptomAnalysis{
		IsValidSymptom:     true,
		PossibleConditions: []string{"Unable to determine specific conditions"},
		Severity:           "medium",
		Recommendations: models.SymptomRecommendations{
			Immediate:      []string{"Monitor symptoms closely"},
			General:        []string{"Rest and stay hydrated", "Get adequate rest"},
			WhenToSeekHelp: "If symptoms worsen, persist beyond 48 hours, or you feel concerned",
		},
		WarningSigns: []string{"Difficulty breathing", "Severe chest pain", "High fever", "Loss of consciousness"},
		Disclaimer:   "This AI analysis encountered technical difficulties. Please consult a healthcare professional for proper evaluation.",
	}
}
