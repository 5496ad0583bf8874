package ports

import (
	"context"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTrailUpdated(ctx context.Context, trail *domain.Trail) error
	PublishTrailPublished(ctx context.Context, trailID string) error
	PublishScoreRecorded(ctx context.Context, entry *domain.ScoreEntry) error
	PublishEditorEvent(ctx context.Context, sessionID string, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeTrailEvents(ctx context.Context, handler func(ctx context.Context, trail *domain.Trail) error) error
	SubscribeScoreEvents(ctx context.Context, handler func(ctx context.Context, entry *domain.ScoreEntry) error) error
}

// WorkflowEngine starts durable workflows on an external orchestrator.
type WorkflowEngine interface {
	StartTrailPublish(ctx context.Context, trailID string) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
