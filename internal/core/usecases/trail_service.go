package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// TrailService handles trail business logic: geometry validation,
// distance computation, cached reads, and change events.
type TrailService struct {
	trails    ports.TrailRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewTrailService creates a new TrailService.
func NewTrailService(trails ports.TrailRepository, cache ports.CacheService, publisher ports.EventPublisher) *TrailService {
	return &TrailService{trails: trails, cache: cache, publisher: publisher}
}

// validate checks the trail's mandatory fields and, when a path is
// present, decodes it and recomputes the stored distance from the actual
// geometry. Client-supplied distances are never trusted.
func (s *TrailService) validate(trail *domain.Trail) error {
	if strings.TrimSpace(trail.Name) == "" {
		return fmt.Errorf("trail name is required")
	}
	if trail.Start.Lat < -90 || trail.Start.Lat > 90 ||
		trail.Start.Lon < -180 || trail.Start.Lon > 180 {
		return fmt.Errorf("start point out of range: %.4f, %.4f", trail.Start.Lat, trail.Start.Lon)
	}

	trail.DistanceKm = 0
	if trail.Path != nil {
		points, err := trail.Path.Points()
		if err != nil {
			return fmt.Errorf("trail path: %w", err)
		}
		trail.DistanceKm = geo.PathDistanceKm(points)
	}
	return nil
}

// Create validates and persists a new trail.
func (s *TrailService) Create(ctx context.Context, trail *domain.Trail) (*domain.Trail, error) {
	if err := s.validate(trail); err != nil {
		return nil, err
	}
	if trail.Slug == "" {
		trail.Slug = slugify(trail.Name)
	}
	if err := s.trails.Create(ctx, trail); err != nil {
		return nil, err
	}
	s.invalidate(ctx, trail)
	s.notifyUpdated(ctx, trail)
	return trail, nil
}

// Update validates and persists trail changes.
func (s *TrailService) Update(ctx context.Context, trail *domain.Trail) (*domain.Trail, error) {
	if err := s.validate(trail); err != nil {
		return nil, err
	}
	if err := s.trails.Update(ctx, trail); err != nil {
		return nil, err
	}
	s.invalidate(ctx, trail)
	s.notifyUpdated(ctx, trail)
	return trail, nil
}

// Delete removes a trail.
func (s *TrailService) Delete(ctx context.Context, id string) error {
	if err := s.trails.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trails:id:"+id)
		_ = s.cache.Delete(ctx, "trails:list")
	}
	return nil
}

// GetByID returns a single trail, read through the cache.
func (s *TrailService) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	cacheKey := "trails:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trail domain.Trail
			if err := json.Unmarshal(data, &trail); err == nil {
				return &trail, nil
			}
		}
	}

	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(trail); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return trail, nil
}

// GetBySlug returns a trail by its URL slug.
func (s *TrailService) GetBySlug(ctx context.Context, slug string) (*domain.Trail, error) {
	return s.trails.GetBySlug(ctx, slug)
}

// List returns all trails, read through the cache.
func (s *TrailService) List(ctx context.Context) ([]domain.Trail, error) {
	cacheKey := "trails:list"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var trails []domain.Trail
			if err := json.Unmarshal(data, &trails); err == nil {
				return trails, nil
			}
		}
	}

	trails, err := s.trails.List(ctx)
	if err != nil {
		return nil, err
	}

	// Trails change rarely outside editing sessions.
	if s.cache != nil {
		if data, err := json.Marshal(trails); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return trails, nil
}

// Bounds computes the enclosing box over a trail's start, end, POIs, and
// path vertices. The start point guarantees a non-empty input.
func (s *TrailService) Bounds(ctx context.Context, trail *domain.Trail, pois []domain.POI) (geo.Bounds, error) {
	points := []geo.GeoPoint{trail.Start}
	if trail.End != nil {
		points = append(points, *trail.End)
	}
	for _, p := range pois {
		points = append(points, p.Location)
	}
	points = append(points, trail.PathPoints()...)
	return geo.ComputeBounds(points)
}

// SavePath replaces a trail's path with the committed editor geometry and
// stores the recomputed distance.
func (s *TrailService) SavePath(ctx context.Context, id string, path geo.LineString) (*domain.Trail, error) {
	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	trail.Path = &path
	return s.Update(ctx, trail)
}

// Publish validates a trail's geometry and flips it live. The Temporal
// workflow decomposes these same steps; this is the inline fallback.
func (s *TrailService) Publish(ctx context.Context, id string) (*domain.Trail, error) {
	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(trail); err != nil {
		return nil, fmt.Errorf("publish %s: %w", id, err)
	}
	if err := s.trails.Update(ctx, trail); err != nil {
		return nil, err
	}
	if err := s.trails.SetPublished(ctx, id, true); err != nil {
		return nil, err
	}
	trail.Published = true
	s.invalidate(ctx, trail)

	if s.publisher != nil {
		if err := s.publisher.PublishTrailPublished(ctx, id); err != nil {
			slog.Warn("trail published event failed", "trail_id", id, "error", err)
		}
	}
	return trail, nil
}

// MarkPublished flips the published flag without broadcasting. The
// publish workflow broadcasts as its own step so it can roll back.
func (s *TrailService) MarkPublished(ctx context.Context, id string) error {
	if err := s.trails.SetPublished(ctx, id, true); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trails:id:"+id)
		_ = s.cache.Delete(ctx, "trails:list")
	}
	return nil
}

// Unpublish takes a trail offline again (also the workflow's rollback).
func (s *TrailService) Unpublish(ctx context.Context, id string) error {
	if err := s.trails.SetPublished(ctx, id, false); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "trails:id:"+id)
		_ = s.cache.Delete(ctx, "trails:list")
	}
	return nil
}

func (s *TrailService) invalidate(ctx context.Context, trail *domain.Trail) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "trails:id:"+trail.ID)
	_ = s.cache.Delete(ctx, "trails:list")
}

func (s *TrailService) notifyUpdated(ctx context.Context, trail *domain.Trail) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTrailUpdated(ctx, trail); err != nil {
		slog.Warn("trail updated event failed", "trail_id", trail.ID, "error", err)
	}
}

// slugify turns "Passages Couverts de Paris" into
// "passages-couverts-de-paris".
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
