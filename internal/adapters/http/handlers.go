package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/pkg/geo"
	"github.com/adelinebrd/chasse/internal/pkg/metrics"
	"github.com/adelinebrd/chasse/internal/pkg/staticmap"
)

// pointPayload accepts a coordinate pair from clients. Older mobile
// builds send "lng" instead of "lon"; both are accepted here and
// normalized to lon everywhere past the HTTP boundary.
type pointPayload struct {
	Lat float64  `json:"lat"`
	Lon *float64 `json:"lon"`
	Lng *float64 `json:"lng"`
}

func (p *pointPayload) toGeo() (geo.GeoPoint, bool) {
	switch {
	case p.Lon != nil:
		return geo.GeoPoint{Lat: p.Lat, Lon: *p.Lon}, true
	case p.Lng != nil:
		return geo.GeoPoint{Lat: p.Lat, Lon: *p.Lng}, true
	default:
		return geo.GeoPoint{}, false
	}
}

// trailPayload is the create/update request body.
type trailPayload struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	Start       *pointPayload   `json:"start"`
	End         *pointPayload   `json:"end"`
	Path        *geo.LineString `json:"path"`
}

func (p *trailPayload) toDomain() (*domain.Trail, error) {
	if p.Start == nil {
		return nil, fiber.NewError(400, "start point is required")
	}
	start, ok := p.Start.toGeo()
	if !ok {
		return nil, fiber.NewError(400, "start point needs lat and lon")
	}

	t := &domain.Trail{
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Theme:       p.Theme,
		Start:       start,
		Path:        p.Path,
	}
	if p.End != nil {
		end, ok := p.End.toGeo()
		if !ok {
			return nil, fiber.NewError(400, "end point needs lat and lon")
		}
		t.End = &end
	}
	return t, nil
}

// ListTrailsHandler returns all trails with offset/limit pagination.
func ListTrailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trails, err := deps.Trails.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		total := len(trails)
		if offset >= total {
			trails = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			trails = trails[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trails, Pagination: pg})
	}
}

// CreateTrailHandler creates a trail from a JSON payload.
func CreateTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload trailPayload
		if err := c.BodyParser(&payload); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		trail, err := payload.toDomain()
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		created, err := deps.Trails.Create(c.Context(), trail)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateSlug) {
				return errConflict(c, "trail slug already in use")
			}
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// GetTrailHandler returns a single trail by ID.
func GetTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		trail, err := deps.Trails.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "trail not found")
		}
		return c.JSON(trail)
	}
}

// GetTrailBySlugHandler returns a single trail by URL slug.
func GetTrailBySlugHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "trail slug is required")
		}
		trail, err := deps.Trails.GetBySlug(c.Context(), slug)
		if err != nil {
			return errNotFound(c, "trail not found")
		}
		return c.JSON(trail)
	}
}

// UpdateTrailHandler rewrites a trail.
func UpdateTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}

		var payload trailPayload
		if err := c.BodyParser(&payload); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		trail, err := payload.toDomain()
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		trail.ID = id

		updated, err := deps.Trails.Update(c.Context(), trail)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateSlug) {
				return errConflict(c, "trail slug already in use")
			}
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

// DeleteTrailHandler removes a trail and its attached content.
func DeleteTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		if err := deps.Trails.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "trail not found")
		}
		return c.SendStatus(204)
	}
}

// TrailBoundsHandler returns the box enclosing a trail's start, end,
// POIs, and path, for map viewport fitting.
func TrailBoundsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}

		trail, err := deps.Trails.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "trail not found")
		}
		pois, err := deps.POIs.ListByTrail(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}

		bounds, err := deps.Trails.Bounds(c.Context(), trail, pois)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{
			"bounds": bounds,
			"center": bounds.Center(),
		})
	}
}

// TrailPreviewHandler renders a trail as a standalone SVG map.
func TrailPreviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}

		trail, err := deps.Trails.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "trail not found")
		}
		pois, err := deps.POIs.ListByTrail(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}

		width := c.QueryInt("width", 800)
		height := c.QueryInt("height", 600)
		if width < 100 || width > 2000 || height < 100 || height > 2000 {
			return errBadRequest(c, "width and height must be between 100 and 2000")
		}

		start := time.Now()
		svg := staticmap.Render(trail.MapPoints(pois), trail.PathPoints(), width, height, staticmap.DefaultStyle())
		metrics.PreviewsRendered.Observe(time.Since(start).Seconds())

		c.Set("Content-Type", "image/svg+xml")
		c.Set("Cache-Control", "public, max-age=300")
		return c.SendString(svg)
	}
}

// PublishTrailHandler flips a trail live after geometry validation. With
// a workflow engine configured the publication runs asynchronously and
// the handler answers 202.
func PublishTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		trail, async, err := deps.Publish.Publish(c.Context(), id)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.TrailsPublished.Inc()
		if async {
			return c.Status(202).JSON(fiber.Map{"trail_id": id, "status": "publishing"})
		}
		return c.JSON(trail)
	}
}

// UnpublishTrailHandler takes a trail offline.
func UnpublishTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		if err := deps.Trails.Unpublish(c.Context(), id); err != nil {
			return errNotFound(c, "trail not found")
		}
		return c.SendStatus(204)
	}
}
