package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/adelinebrd/chasse/internal/core/ports"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// PublishActivities holds the activity implementations for the trail
// publish workflow.
type PublishActivities struct {
	Trails    *usecases.TrailService
	Publisher ports.EventPublisher
}

// ValidateTrailGeometry checks the trail's stored path decodes cleanly,
// recomputes the distance from the geometry, and persists it. Returns
// the distance in kilometers.
func (a *PublishActivities) ValidateTrailGeometry(ctx context.Context, trailID string) (float64, error) {
	trail, err := a.Trails.GetByID(ctx, trailID)
	if err != nil {
		return 0, fmt.Errorf("get trail %s: %w", trailID, err)
	}

	if trail.Path != nil {
		points, err := trail.Path.Points()
		if err != nil {
			return 0, fmt.Errorf("trail %s geometry: %w", trailID, err)
		}
		trail.DistanceKm = geo.PathDistanceKm(points)
	}

	updated, err := a.Trails.Update(ctx, trail)
	if err != nil {
		return 0, fmt.Errorf("persist trail %s: %w", trailID, err)
	}
	return updated.DistanceKm, nil
}

// MarkTrailPublished flips the published flag without broadcasting.
func (a *PublishActivities) MarkTrailPublished(ctx context.Context, trailID string) error {
	if err := a.Trails.MarkPublished(ctx, trailID); err != nil {
		return fmt.Errorf("mark published %s: %w", trailID, err)
	}
	return nil
}

// BroadcastTrailPublished announces the publish to the mobile apps.
func (a *PublishActivities) BroadcastTrailPublished(ctx context.Context, trailID string) error {
	if a.Publisher == nil {
		log.Printf("PUBLISH (no broker) → trail=%s", trailID)
		return nil
	}
	return a.Publisher.PublishTrailPublished(ctx, trailID)
}

// UnpublishTrail takes the trail offline (saga compensation / rollback).
func (a *PublishActivities) UnpublishTrail(ctx context.Context, trailID string) error {
	if err := a.Trails.Unpublish(ctx, trailID); err != nil {
		return fmt.Errorf("unpublish %s: %w", trailID, err)
	}
	log.Printf("Trail %s unpublished (saga compensation)", trailID)
	return nil
}
