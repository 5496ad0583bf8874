package ports

import (
	"context"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// TrailRepository persists trails.
type TrailRepository interface {
	Create(ctx context.Context, trail *domain.Trail) error
	Update(ctx context.Context, trail *domain.Trail) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Trail, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Trail, error)
	List(ctx context.Context) ([]domain.Trail, error)
	SetPublished(ctx context.Context, id string, published bool) error
}

// POIRepository persists points of interest.
type POIRepository interface {
	Create(ctx context.Context, poi *domain.POI) error
	Update(ctx context.Context, poi *domain.POI) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.POI, error)
	ListByTrail(ctx context.Context, trailID string) ([]domain.POI, error)
	UpsertBatch(ctx context.Context, pois []domain.POI) error
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error)
}

// QuizRepository persists POI quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	Update(ctx context.Context, quiz *domain.Quiz) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Quiz, error)
	ListByPOI(ctx context.Context, poiID string) ([]domain.Quiz, error)
}

// HuntRepository persists treasure hunts.
type HuntRepository interface {
	Create(ctx context.Context, hunt *domain.Hunt) error
	Update(ctx context.Context, hunt *domain.Hunt) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Hunt, error)
	ListByTrail(ctx context.Context, trailID string) ([]domain.Hunt, error)
	ListActive(ctx context.Context) ([]domain.Hunt, error)
}

// BadgeRepository persists badges.
type BadgeRepository interface {
	Create(ctx context.Context, badge *domain.Badge) error
	Delete(ctx context.Context, id string) error
	GetBySlug(ctx context.Context, slug string) (*domain.Badge, error)
	List(ctx context.Context) ([]domain.Badge, error)
}

// ScoreRepository persists leaderboard entries.
type ScoreRepository interface {
	UpsertScore(ctx context.Context, entry *domain.ScoreEntry) error
	Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}
