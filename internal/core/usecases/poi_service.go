package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
)

// POIService handles point-of-interest business logic.
type POIService struct {
	pois  ports.POIRepository
	cache ports.CacheService
}

// NewPOIService creates a new POIService.
func NewPOIService(pois ports.POIRepository, cache ports.CacheService) *POIService {
	return &POIService{pois: pois, cache: cache}
}

// Create validates and persists a new POI.
func (s *POIService) Create(ctx context.Context, poi *domain.POI) (*domain.POI, error) {
	if err := validatePOI(poi); err != nil {
		return nil, err
	}
	if err := s.pois.Create(ctx, poi); err != nil {
		return nil, err
	}
	s.invalidateTrail(ctx, poi.TrailID)
	return poi, nil
}

// Update validates and persists POI changes.
func (s *POIService) Update(ctx context.Context, poi *domain.POI) (*domain.POI, error) {
	if err := validatePOI(poi); err != nil {
		return nil, err
	}
	if err := s.pois.Update(ctx, poi); err != nil {
		return nil, err
	}
	s.invalidateTrail(ctx, poi.TrailID)
	return poi, nil
}

// Delete removes a POI.
func (s *POIService) Delete(ctx context.Context, id string) error {
	return s.pois.Delete(ctx, id)
}

// GetByID returns a single POI.
func (s *POIService) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	return s.pois.GetByID(ctx, id)
}

// ListByTrail returns a trail's POIs ordered by position.
func (s *POIService) ListByTrail(ctx context.Context, trailID string) ([]domain.POI, error) {
	cacheKey := "pois:trail:" + trailID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pois []domain.POI
			if err := json.Unmarshal(data, &pois); err == nil {
				return pois, nil
			}
		}
	}

	pois, err := s.pois.ListByTrail(ctx, trailID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(pois); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return pois, nil
}

// FindNearby returns POIs within radiusMeters of the given point.
func (s *POIService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("pois:nearby:%.4f:%.4f:%.0f:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pois []domain.POI
			if err := json.Unmarshal(data, &pois); err == nil {
				return pois, nil
			}
		}
	}

	pois, err := s.pois.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// POIs are admin-curated and change slowly.
	if s.cache != nil {
		if data, err := json.Marshal(pois); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return pois, nil
}

func (s *POIService) invalidateTrail(ctx context.Context, trailID string) {
	if s.cache != nil && trailID != "" {
		_ = s.cache.Delete(ctx, "pois:trail:"+trailID)
	}
}

func validatePOI(poi *domain.POI) error {
	if poi.Name == "" {
		return fmt.Errorf("poi name is required")
	}
	if poi.TrailID == "" {
		return fmt.Errorf("poi trail_id is required")
	}
	if poi.Location.Lat < -90 || poi.Location.Lat > 90 ||
		poi.Location.Lon < -180 || poi.Location.Lon > 180 {
		return fmt.Errorf("poi location out of range: %.4f, %.4f", poi.Location.Lat, poi.Location.Lon)
	}
	return nil
}
