package postgres

import (
	"context"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// ScoreRepo implements ports.ScoreRepository.
type ScoreRepo struct {
	db *DB
}

func NewScoreRepo(db *DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// UpsertScore adds the entry's points to the player's running total.
func (r *ScoreRepo) UpsertScore(ctx context.Context, e *domain.ScoreEntry) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO scores (user_id, username, points, trails_completed, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    points = scores.points + EXCLUDED.points,
		    trails_completed = scores.trails_completed + EXCLUDED.trails_completed,
		    updated_at = now()
	`, e.UserID, e.Username, e.Points, e.TrailsCompleted)
	return err
}

// Top returns the highest-scoring players.
func (r *ScoreRepo) Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT user_id, username, points, trails_completed, updated_at
		FROM scores
		ORDER BY points DESC, updated_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ScoreEntry
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Points, &e.TrailsCompleted, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
