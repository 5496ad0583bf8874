package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// POIRepo implements ports.POIRepository with pgx.
type POIRepo struct {
	db *DB
}

// NewPOIRepo creates a new POIRepo.
func NewPOIRepo(db *DB) *POIRepo {
	return &POIRepo{db: db}
}

// Create inserts a POI and fills in the generated id.
func (r *POIRepo) Create(ctx context.Context, p *domain.POI) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO pois (trail_id, name, kind, description, location, media_url, position, metadata)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''),
		        ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		        NULLIF($7, ''), $8, $9)
		RETURNING id, created_at
	`, p.TrailID, p.Name, p.Kind, p.Description,
		p.Location.Lon, p.Location.Lat, p.MediaURL, p.Position, p.Metadata,
	).Scan(&p.ID, &p.CreatedAt)
}

// Update rewrites a POI.
func (r *POIRepo) Update(ctx context.Context, p *domain.POI) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE pois
		SET name = $2, kind = NULLIF($3, ''), description = NULLIF($4, ''),
		    location = ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		    media_url = NULLIF($7, ''), position = $8, metadata = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Kind, p.Description,
		p.Location.Lon, p.Location.Lat, p.MediaURL, p.Position, p.Metadata)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("poi %s not found", p.ID)
	}
	return nil
}

// Delete removes a POI; its quizzes cascade.
func (r *POIRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("poi %s not found", id)
	}
	return nil
}

// GetByID returns a POI by UUID.
func (r *POIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	var p domain.POI
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trail_id, name, COALESCE(kind, ''), COALESCE(description, ''),
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(media_url, ''), position, COALESCE(metadata, '{}'), created_at
		FROM pois WHERE id = $1
	`, id).Scan(
		&p.ID, &p.TrailID, &p.Name, &p.Kind, &p.Description,
		&p.Location.Lat, &p.Location.Lon,
		&p.MediaURL, &p.Position, &p.Metadata, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByTrail returns a trail's POIs in walking order.
func (r *POIRepo) ListByTrail(ctx context.Context, trailID string) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trail_id, name, COALESCE(kind, ''), COALESCE(description, ''),
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(media_url, ''), position, COALESCE(metadata, '{}'), created_at
		FROM pois WHERE trail_id = $1
		ORDER BY position, name
	`, trailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []domain.POI
	for rows.Next() {
		var p domain.POI
		if err := rows.Scan(
			&p.ID, &p.TrailID, &p.Name, &p.Kind, &p.Description,
			&p.Location.Lat, &p.Location.Lon,
			&p.MediaURL, &p.Position, &p.Metadata, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		pois = append(pois, p)
	}
	return pois, rows.Err()
}

// UpsertBatch inserts many POIs using pgx.Batch (seed tooling).
func (r *POIRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error {
	batch := &pgx.Batch{}
	for _, p := range pois {
		batch.Queue(`
			INSERT INTO pois (trail_id, name, kind, description, location, media_url, position, metadata)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''),
			        ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
			        NULLIF($7, ''), $8, $9)
			ON CONFLICT (trail_id, name) DO UPDATE
			SET kind = EXCLUDED.kind, description = EXCLUDED.description,
			    location = EXCLUDED.location, media_url = EXCLUDED.media_url,
			    position = EXCLUDED.position, metadata = EXCLUDED.metadata
		`, p.TrailID, p.Name, p.Kind, p.Description,
			p.Location.Lon, p.Location.Lat, p.MediaURL, p.Position, p.Metadata)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range pois {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// FindNearby returns POIs within radiusMeters using PostGIS ST_DWithin.
func (r *POIRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trail_id, name, COALESCE(kind, ''), COALESCE(description, ''),
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(media_url, ''), position,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance,
		       created_at
		FROM pois
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []domain.POI
	for rows.Next() {
		var p domain.POI
		var dist float64
		if err := rows.Scan(
			&p.ID, &p.TrailID, &p.Name, &p.Kind, &p.Description,
			&p.Location.Lat, &p.Location.Lon,
			&p.MediaURL, &p.Position,
			&dist, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.Distance = &dist
		pois = append(pois, p)
	}
	return pois, rows.Err()
}
