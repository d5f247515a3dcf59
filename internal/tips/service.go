package tips

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

type Generator interface {
	GenerateHealthTips(ctx context.Context, prompt string) (json.RawMessage, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

type TipStore interface {
	Create(ctx context.Context, record *models.HealthTipRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.HealthTipRecord, error)
}

type Service struct {
	generator Generator
	profiles  ProfileStore
	store     TipStore
	logger    *zap.Logger
}

func NewService(generator Generator, profiles ProfileStore, store TipStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, profiles: profiles, store: store, logger: logger}
}

// Result carries the generated tips. TipID is nil when the history write
// failed; generation itself still succeeds.
type Result struct {
	Category string          `json:"category"`
	Tips     json.RawMessage `json:"tips"`
	TipID    *uuid.UUID      `json:"tip_id"`
}

// Generate produces personalized tips for one category. A profile is
// required for personalization; a missing profile is NotFound, matching the
// onboarding-first flow of the application.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, category string) (*Result, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	if category == "" {
		category = models.TipCategoryGeneral
	}
	if !models.ValidTipCategory(category) {
		return nil, fmt.Errorf("%w: unknown tip category %q", apperr.ErrInvalidRequest, category)
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil || profile == nil {
		return nil, fmt.Errorf("%w: user profile not found", apperr.ErrNotFound)
	}

	tipsData, err := s.generator.GenerateHealthTips(ctx, buildPrompt(profile, category))
	if err != nil {
		if errors.Is(err, ai.ErrBadModelOutput) {
			s.logger.Warn("model reply unparseable, using fallback tips", zap.Error(err))
			tipsData = fallbackTips(category)
		} else {
			return nil, fmt.Errorf("health tips generation failed: %w", err)
		}
	}

	result := &Result{Category: category, Tips: tipsData}

	record := &models.HealthTipRecord{
		UserID:   userID,
		Category: category,
		TipsData: tipsData,
	}
	if err := s.store.Create(ctx, record); err != nil {
		s.logger.Warn("failed to save health tips", zap.Error(err))
	} else {
		id := record.ID
		result.TipID = &id
	}

	return result, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.HealthTipRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	records, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list health tips: %w", apperr.ErrStoreUnavailable, err)
	}
	return records, nil
}

// categoryShapes describes the expected reply JSON per category. The model
// is told to answer in exactly one of these shapes.
var categoryShapes = map[string]string{
	models.TipCategoryGeneral: `{
  "generalTips": [
    {"title": "tip title", "description": "detailed tip description", "category": "diet|exercise|lifestyle|medication|monitoring", "priority": "high|medium|low"}
  ],
  "warningSignsToWatch": ["warning sign 1", "warning sign 2"],
  "disclaimer": "medical disclaimer"
}`,
	models.TipCategoryDiet: `{
  "dietaryRecommendations": {
    "recommended": ["food 1", "food 2"],
    "avoid": ["food 1", "food 2"],
    "mealPlan": {"breakfast": "suggestion", "lunch": "suggestion", "dinner": "suggestion", "snacks": "suggestion"}
  },
  "disclaimer": "medical disclaimer"
}`,
	models.TipCategoryExercise: `{
  "exerciseGuidelines": {
    "recommended": ["exercise 1", "exercise 2"],
    "avoid": ["exercise 1", "exercise 2"],
    "duration": "recommended duration",
    "frequency": "recommended frequency"
  },
  "disclaimer": "medical disclaimer"
}`,
	models.TipCategoryMental: `{
  "lifestyleModifications": [
    {"category": "stress|mindfulness|habits", "recommendation": "specific advice", "implementation": "how to implement"}
  ],
  "disclaimer": "medical disclaimer"
}`,
	models.TipCategoryPreventive: `{
  "conditionSpecificTips": [
    {"condition": "condition name", "tips": [{"title": "preventive measure", "description": "detailed description"}]}
  ],
  "monitoringAdvice": [
    {"parameter": "what to monitor", "frequency": "how often", "normalRange": "normal values", "whenToAlert": "when to seek help"}
  ],
  "disclaimer": "medical disclaimer"
}`,
}

func buildPrompt(profile *models.UserProfile, category string) string {
	age := "Not specified"
	if profile.Age != nil {
		age = fmt.Sprintf("%d", *profile.Age)
	}
	gender := profile.Gender
	if gender == "" {
		gender = "Not specified"
	}
	conditions := "None specified"
	if len(profile.ExistingConditions) > 0 {
		conditions = strings.Join(profile.ExistingConditions, ", ")
	}
	location := profile.Location
	if location == "" {
		location = "Not specified"
	}

	return fmt.Sprintf(`As a healthcare AI assistant, provide personalized health tips ONLY for the %s category for a patient with the following profile:

Patient Context:
- Age: %s
- Gender: %s
- Existing Conditions: %s
- Location: %s

Please provide health tips in JSON format EXCLUSIVELY for the %s category with the following structure:

%s

Focus on:
1. Practical, actionable tips specifically for %s
2. Cultural and regional considerations for %s
3. Age and gender-appropriate recommendations
4. Integration of existing conditions if relevant to %s

Be specific and practical.`,
		category, age, gender, conditions, location, category,
		categoryShapes[category], category, location, category)
}

func fallbackTips(category string) json.RawMessage {
	fallback := map[string]any{
		"generalTips": []map[string]string{
			{
				"title":       "Stay Hydrated",
				"description": "Drink at least 8 glasses of water daily to maintain good health",
				"category":    "lifestyle",
				"priority":    "high",
			},
			{
				"title":       "Regular Exercise",
				"description": "Engage in moderate physical activity for at least 30 minutes daily",
				"category":    "exercise",
				"priority":    "high",
			},
		},
		"warningSignsToWatch": []string{"Unusual fatigue", "Persistent symptoms"},
		"disclaimer":          "This is AI-generated information for educational purposes only and should not replace professional medical advice.",
		"category":            category,
	}
	data, _ := json.Marshal(fallback)
	return data
}
