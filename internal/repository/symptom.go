package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

type SymptomCheckRepository struct {
	q database.Querier
}

func NewSymptomCheckRepository(q database.Querier) *SymptomCheckRepository {
	return &SymptomCheckRepository{q: q}
}

func (r *SymptomCheckRepository) Create(ctx context.Context, check *models.SymptomCheck) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO symptom_checks (user_id, symptoms_description, ai_response, severity_level)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		check.UserID, check.SymptomsDescription, check.AIResponse, check.SeverityLevel,
	).Scan(&check.ID, &check.CreatedAt)
}

func (r *SymptomCheckRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.SymptomCheck, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, symptoms_description, ai_response, severity_level, created_at
		 FROM symptom_checks WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []*models.SymptomCheck
	for rows.Next() {
		check := &models.SymptomCheck{}
		if err := rows.Scan(&check.ID, &check.UserID, &check.SymptomsDescription,
			&check.AIResponse, &check.SeverityLevel, &check.CreatedAt); err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}
