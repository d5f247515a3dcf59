package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/database"
	"github.com/carelink-health/carelink/internal/models"
)

type FacilityRepository struct {
	q database.Querier
}

func NewFacilityRepository(q database.Querier) *FacilityRepository {
	return &FacilityRepository{q: q}
}

// List returns facilities optionally filtered by type and city substring,
// ordered by name. Distance filtering happens in the facility service, not
// here.
func (r *FacilityRepository) List(ctx context.Context, facilityType, city string) ([]*models.Facility, error) {
	query := `SELECT id, name, type, address, city, phone, latitude, longitude, services, hours, created_at
	          FROM healthcare_facilities WHERE 1=1`
	args := []any{}

	if facilityType != "" && facilityType != "all" {
		args = append(args, facilityType)
		query += ` AND type = $1`
	}
	if city != "" {
		args = append(args, "%"+city+"%")
		if len(args) == 1 {
			query += ` AND city ILIKE $1`
		} else {
			query += ` AND city ILIKE $2`
		}
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facilities []*models.Facility
	for rows.Next() {
		f := &models.Facility{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Address, &f.City, &f.Phone,
			&f.Latitude, &f.Longitude, &f.Services, &f.Hours, &f.CreatedAt); err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

func (r *FacilityRepository) RecordSearch(ctx context.Context, search *models.FacilitySearch) error {
	return r.q.QueryRow(ctx,
		`INSERT INTO user_facility_searches (user_id, search_location, facility_type, search_radius, results_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		search.UserID, search.SearchLocation, search.FacilityType, search.SearchRadius, search.ResultsCount,
	).Scan(&search.ID, &search.CreatedAt)
}

func (r *FacilityRepository) SearchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FacilitySearch, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, search_location, facility_type, search_radius, results_count, created_at
		 FROM user_facility_searches WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []*models.FacilitySearch
	for rows.Next() {
		s := &models.FacilitySearch{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.SearchLocation, &s.FacilityType,
			&s.SearchRadius, &s.ResultsCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}
