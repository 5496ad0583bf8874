package postgres

import (
	"context"
	"fmt"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// HuntRepo implements ports.HuntRepository.
type HuntRepo struct {
	db *DB
}

func NewHuntRepo(db *DB) *HuntRepo {
	return &HuntRepo{db: db}
}

const huntColumns = `
	id, trail_id, name, COALESCE(clue, ''), COALESCE(prize, ''),
	active, starts_at, ends_at, created_at`

func (r *HuntRepo) Create(ctx context.Context, h *domain.Hunt) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO hunts (trail_id, name, clue, prize, active, starts_at, ends_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		RETURNING id, created_at
	`, h.TrailID, h.Name, h.Clue, h.Prize, h.Active, h.StartsAt, h.EndsAt).
		Scan(&h.ID, &h.CreatedAt)
}

func (r *HuntRepo) Update(ctx context.Context, h *domain.Hunt) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE hunts
		SET name = $2, clue = NULLIF($3, ''), prize = NULLIF($4, ''),
		    active = $5, starts_at = $6, ends_at = $7
		WHERE id = $1
	`, h.ID, h.Name, h.Clue, h.Prize, h.Active, h.StartsAt, h.EndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hunt %s not found", h.ID)
	}
	return nil
}

func (r *HuntRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM hunts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hunt %s not found", id)
	}
	return nil
}

func (r *HuntRepo) GetByID(ctx context.Context, id string) (*domain.Hunt, error) {
	var h domain.Hunt
	err := r.db.Pool.QueryRow(ctx, `SELECT `+huntColumns+` FROM hunts WHERE id = $1`, id).
		Scan(&h.ID, &h.TrailID, &h.Name, &h.Clue, &h.Prize, &h.Active, &h.StartsAt, &h.EndsAt, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HuntRepo) ListByTrail(ctx context.Context, trailID string) ([]domain.Hunt, error) {
	return r.list(ctx, `SELECT `+huntColumns+` FROM hunts WHERE trail_id = $1 ORDER BY created_at DESC`, trailID)
}

// ListActive returns hunts that are switched on and inside their time
// window, if one is set.
func (r *HuntRepo) ListActive(ctx context.Context) ([]domain.Hunt, error) {
	return r.list(ctx, `
		SELECT `+huntColumns+` FROM hunts
		WHERE active
		  AND (starts_at IS NULL OR starts_at <= now())
		  AND (ends_at IS NULL OR ends_at >= now())
		ORDER BY created_at DESC`)
}

func (r *HuntRepo) list(ctx context.Context, query string, args ...any) ([]domain.Hunt, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hunts []domain.Hunt
	for rows.Next() {
		var h domain.Hunt
		if err := rows.Scan(&h.ID, &h.TrailID, &h.Name, &h.Clue, &h.Prize, &h.Active, &h.StartsAt, &h.EndsAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		hunts = append(hunts, h)
	}
	return hunts, rows.Err()
}
