package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
)

// LeaderboardService handles player-ranking business logic.
type LeaderboardService struct {
	scores    ports.ScoreRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(scores ports.ScoreRepository, cache ports.CacheService, publisher ports.EventPublisher) *LeaderboardService {
	return &LeaderboardService{scores: scores, cache: cache, publisher: publisher}
}

// Top returns the highest-ranked players, read through the cache.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var entries []domain.ScoreEntry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.scores.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Short TTL: rankings move while hunts are running.
	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}
	return entries, nil
}

// RecordScore upserts a player's score and broadcasts the change.
func (s *LeaderboardService) RecordScore(ctx context.Context, entry *domain.ScoreEntry) error {
	if entry.UserID == "" {
		return fmt.Errorf("score user_id is required")
	}
	if entry.Points < 0 {
		return fmt.Errorf("score points must be non-negative, got %d", entry.Points)
	}
	entry.UpdatedAt = time.Now()

	if err := s.scores.UpsertScore(ctx, entry); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishScoreRecorded(ctx, entry); err != nil {
			slog.Warn("score event failed", "user_id", entry.UserID, "error", err)
		}
	}
	return nil
}
