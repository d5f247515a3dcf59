// Package facility implements the healthcare facility finder: type and city
// filtering at the store, distance ranking in memory.
package facility

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carelink-health/carelink/internal/apperr"
	"github.com/carelink-health/carelink/internal/models"
)

const earthRadiusKm = 6371

type FacilityStore interface {
	List(ctx context.Context, facilityType, city string) ([]*models.Facility, error)
	RecordSearch(ctx context.Context, search *models.FacilitySearch) error
	SearchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FacilitySearch, error)
}

type Service struct {
	store  FacilityStore
	logger *zap.Logger
}

func NewService(store FacilityStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// SearchParams describes one facility search. When Lat/Lng are set the
// results are distance-filtered and sorted nearest first; otherwise Location
// is used as a city substring match.
type SearchParams struct {
	UserID   uuid.UUID
	Location string
	Type     string
	RadiusKm int
	Lat      *float64
	Lng      *float64
}

func (s *Service) Search(ctx context.Context, params SearchParams) ([]*models.Facility, error) {
	if params.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	if params.RadiusKm <= 0 {
		params.RadiusKm = 10
	}

	city := ""
	if params.Location != "" && (params.Lat == nil || params.Lng == nil) {
		city = params.Location
	}

	facilities, err := s.store.List(ctx, params.Type, city)
	if err != nil {
		return nil, fmt.Errorf("%w: list facilities: %w", apperr.ErrStoreUnavailable, err)
	}

	if params.Lat != nil && params.Lng != nil {
		facilities = rankByDistance(facilities, *params.Lat, *params.Lng, float64(params.RadiusKm))
	}
	if facilities == nil {
		facilities = []*models.Facility{}
	}

	if params.Location != "" || (params.Lat != nil && params.Lng != nil) {
		location := params.Location
		if location == "" {
			location = fmt.Sprintf("%g, %g", *params.Lat, *params.Lng)
		}
		search := &models.FacilitySearch{
			UserID:         params.UserID,
			SearchLocation: location,
			FacilityType:   orAll(params.Type),
			SearchRadius:   params.RadiusKm,
			ResultsCount:   len(facilities),
		}
		// History is informational; a failed write never fails the search.
		if err := s.store.RecordSearch(ctx, search); err != nil {
			s.logger.Warn("failed to record facility search", zap.Error(err))
		}
	}

	return facilities, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FacilitySearch, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", apperr.ErrInvalidRequest)
	}
	searches, err := s.store.SearchHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search history: %w", apperr.ErrStoreUnavailable, err)
	}
	return searches, nil
}

// rankByDistance annotates each facility with its distance from the search
// point, drops the ones beyond the radius, and sorts nearest first.
// Facilities without coordinates keep a nil distance and sort last.
func rankByDistance(facilities []*models.Facility, lat, lng, radiusKm float64) []*models.Facility {
	ranked := make([]*models.Facility, 0, len(facilities))
	for _, f := range facilities {
		if f.Latitude != nil && f.Longitude != nil {
			d := haversineKm(lat, lng, *f.Latitude, *f.Longitude)
			d = math.Round(d*10) / 10
			if d > radiusKm {
				continue
			}
			f.Distance = &d
		}
		ranked = append(ranked, f)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Distance == nil {
			return false
		}
		if ranked[j].Distance == nil {
			return true
		}
		return *ranked[i].Distance < *ranked[j].Distance
	})

	return ranked
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func orAll(facilityType string) string {
	if facilityType == "" {
		return "all"
	}
	return facilityType
}
