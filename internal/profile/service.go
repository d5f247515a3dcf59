package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carelink-health/carelink/internal/apperr"
	"github.com/carelink-health/carelink/internal/models"
)

type Store interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	Update(ctx context.Context, profile *models.UserProfile) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	profile, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", apperr.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: get profile: %w", apperr.ErrStoreUnavailable, err)
	}
	return profile, nil
}

func (s *Service) Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if profile.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	if profile.PreferredLanguage == "" {
		profile.PreferredLanguage = "English"
	}
	if profile.ExistingConditions == nil {
		profile.ExistingConditions = []string{}
	}
	if err := s.store.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: create profile: %w", apperr.ErrStoreUnavailable, err)
	}
	return profile, nil
}

func (s *Service) Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if profile.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	if profile.ExistingConditions == nil {
		profile.ExistingConditions = []string{}
	}
	if err := s.store.Update(ctx, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", apperr.ErrNotFound, profile.ID)
		}
		return nil, fmt.Errorf("%w: update profile: %w", apperr.ErrStoreUnavailable, err)
	}
	return profile, nil
}
