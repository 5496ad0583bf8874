package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
)

// TrailRepo implements ports.TrailRepository with pgx. Start and end
// points live in geography columns; the path is a geography LineString
// round-tripped through GeoJSON.
type TrailRepo struct {
	db *DB
}

// NewTrailRepo creates a new TrailRepo.
func NewTrailRepo(db *DB) *TrailRepo {
	return &TrailRepo{db: db}
}

const trailColumns = `
	id, slug, name, COALESCE(description, ''), COALESCE(theme, ''),
	ST_Y(start_point::geometry), ST_X(start_point::geometry),
	ST_Y(end_point::geometry), ST_X(end_point::geometry),
	ST_AsGeoJSON(path::geometry),
	distance_km, published, created_at, updated_at`

// Create inserts a trail and fills in the generated id and timestamps.
func (r *TrailRepo) Create(ctx context.Context, t *domain.Trail) error {
	endLon, endLat := endCoords(t)
	pathJSON, err := pathParam(t)
	if err != nil {
		return err
	}

	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO trails (slug, name, description, theme, start_point, end_point, path, distance_km, published)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''),
		        ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		        CASE WHEN $7::float8 IS NULL THEN NULL
		             ELSE ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography END,
		        CASE WHEN $9::text IS NULL THEN NULL
		             ELSE ST_SetSRID(ST_GeomFromGeoJSON($9), 4326)::geography END,
		        $10, $11)
		RETURNING id, created_at, updated_at
	`, t.Slug, t.Name, t.Description, t.Theme,
		t.Start.Lon, t.Start.Lat, endLon, endLat, pathJSON,
		t.DistanceKm, t.Published,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return mapSlugConflict(err)
}

// Update rewrites every mutable column of an existing trail.
func (r *TrailRepo) Update(ctx context.Context, t *domain.Trail) error {
	endLon, endLat := endCoords(t)
	pathJSON, err := pathParam(t)
	if err != nil {
		return err
	}

	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trails
		SET slug = $2, name = $3, description = NULLIF($4, ''), theme = NULLIF($5, ''),
		    start_point = ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography,
		    end_point = CASE WHEN $8::float8 IS NULL THEN NULL
		                     ELSE ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography END,
		    path = CASE WHEN $10::text IS NULL THEN NULL
		                ELSE ST_SetSRID(ST_GeomFromGeoJSON($10), 4326)::geography END,
		    distance_km = $11, updated_at = now()
		WHERE id = $1
	`, t.ID, t.Slug, t.Name, t.Description, t.Theme,
		t.Start.Lon, t.Start.Lat, endLon, endLat, pathJSON, t.DistanceKm)
	if err != nil {
		return mapSlugConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trail %s not found", t.ID)
	}
	return nil
}

// Delete removes a trail; POIs and hunts cascade.
func (r *TrailRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM trails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trail %s not found", id)
	}
	return nil
}

// GetByID returns a trail by UUID.
func (r *TrailRepo) GetByID(ctx context.Context, id string) (*domain.Trail, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+trailColumns+` FROM trails WHERE id = $1`, id)
	return scanTrail(row)
}

// GetBySlug returns a trail by its URL slug.
func (r *TrailRepo) GetBySlug(ctx context.Context, slug string) (*domain.Trail, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+trailColumns+` FROM trails WHERE slug = $1`, slug)
	return scanTrail(row)
}

// List returns all trails ordered by name.
func (r *TrailRepo) List(ctx context.Context) ([]domain.Trail, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+trailColumns+` FROM trails ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trails []domain.Trail
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		trails = append(trails, *t)
	}
	return trails, rows.Err()
}

// SetPublished flips a trail's published flag.
func (r *TrailRepo) SetPublished(ctx context.Context, id string, published bool) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trails SET published = $2, updated_at = now() WHERE id = $1
	`, id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trail %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrail(row rowScanner) (*domain.Trail, error) {
	var t domain.Trail
	var endLat, endLon sql.NullFloat64
	var pathJSON sql.NullString

	err := row.Scan(
		&t.ID, &t.Slug, &t.Name, &t.Description, &t.Theme,
		&t.Start.Lat, &t.Start.Lon,
		&endLat, &endLon,
		&pathJSON,
		&t.DistanceKm, &t.Published, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endLat.Valid && endLon.Valid {
		t.End = &geo.GeoPoint{Lat: endLat.Float64, Lon: endLon.Float64}
	}
	if pathJSON.Valid {
		points, err := geo.DecodeLineString([]byte(pathJSON.String))
		if err != nil {
			// Unreadable stored geometry degrades to a pathless trail
			// instead of making the whole row unreadable.
			slog.Warn("dropping unreadable trail path", "trail", t.ID, "error", err)
		} else {
			ls := geo.EncodeLineString(points)
			t.Path = &ls
		}
	}
	return &t, nil
}

// mapSlugConflict translates a unique-violation on the slug column into
// the domain error the HTTP layer turns into a 409.
func mapSlugConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSlug, pgErr.ConstraintName)
	}
	return err
}

func endCoords(t *domain.Trail) (lon, lat any) {
	if t.End == nil {
		return nil, nil
	}
	return t.End.Lon, t.End.Lat
}

func pathParam(t *domain.Trail) (any, error) {
	if t.Path == nil {
		return nil, nil
	}
	data, err := json.Marshal(t.Path)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}
	return string(data), nil
}
