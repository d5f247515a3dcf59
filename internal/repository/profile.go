package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

type ProfileRepository struct {
	q database.Querier
}

func NewProfileRepository(q database.Querier) *ProfileRepository {
	return &ProfileRepository{q: q}
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := r.q.QueryRow(ctx,
		`SELECT id, full_name, age, gender, location, preferred_language, existing_conditions, created_at, updated_at
		 FROM user_profiles WHERE id = $1`,
		userID,
	).Scan(&profile.ID, &profile.FullName, &profile.Age, &profile.Gender, &profile.Location,
		&profile.PreferredLanguage, &profile.ExistingConditions, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO user_profiles (id, full_name, age, gender, location, preferred_language, existing_conditions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		profile.ID, profile.FullName, profile.Age, profile.Gender, profile.Location,
		profile.PreferredLanguage, profile.ExistingConditions,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	return r.q.QueryRow(ctx,
		`UPDATE user_profiles
		 SET full_name = $2, age = $3, gender = $4, location = $5, preferred_language = $6,
		     existing_conditions = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		profile.ID, profile.FullName, profile.Age, profile.Gender, profile.Location,
		profile.PreferredLanguage, profile.ExistingConditions,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}
