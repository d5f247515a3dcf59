package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

type HealthTipRepository struct {
	q database.Querier
}

func NewHealthTipRepository(q database.Querier) *HealthTipRepository {
	return &HealthTipRepository{q: q}
}

func (r *HealthTipRepository) Create(ctx context.Context, record *models.HealthTipRecord) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO health_tips_history (user_id, category, tips_data)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		record.UserID, record.Category, record.TipsData,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *HealthTipRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.HealthTipRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, category, tips_data, created_at
		 FROM health_tips_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.HealthTipRecord
	for rows.Next() {
		record := &models.HealthTipRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.Category,
			&record.TipsData, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
