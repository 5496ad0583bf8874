package postgres

import (
	"context"
	"fmt"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// BadgeRepo implements ports.BadgeRepository.
type BadgeRepo struct {
	db *DB
}

func NewBadgeRepo(db *DB) *BadgeRepo {
	return &BadgeRepo{db: db}
}

func (r *BadgeRepo) Create(ctx context.Context, b *domain.Badge) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO badges (slug, name, description, icon_url, criteria)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description,
		    icon_url = EXCLUDED.icon_url, criteria = EXCLUDED.criteria
		RETURNING id, created_at
	`, b.Slug, b.Name, b.Description, b.IconURL, b.Criteria).Scan(&b.ID, &b.CreatedAt)
}

func (r *BadgeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM badges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("badge %s not found", id)
	}
	return nil
}

func (r *BadgeRepo) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	var b domain.Badge
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), COALESCE(icon_url, ''),
		       COALESCE(criteria, '{}'), created_at
		FROM badges WHERE slug = $1
	`, slug).Scan(&b.ID, &b.Slug, &b.Name, &b.Description, &b.IconURL, &b.Criteria, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BadgeRepo) List(ctx context.Context) ([]domain.Badge, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), COALESCE(icon_url, ''),
		       COALESCE(criteria, '{}'), created_at
		FROM badges ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.Slug, &b.Name, &b.Description, &b.IconURL, &b.Criteria, &b.CreatedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
