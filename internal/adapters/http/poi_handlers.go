package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// poiPayload is the POI create/update request body.
type poiPayload struct {
	TrailID     string         `json:"trail_id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Location    *pointPayload  `json:"location"`
	MediaURL    string         `json:"media_url"`
	Position    int            `json:"position"`
	Metadata    map[string]any `json:"metadata"`
}

func (p *poiPayload) toDomain() (*domain.POI, error) {
	if p.Location == nil {
		return nil, fiber.NewError(400, "location is required")
	}
	loc, ok := p.Location.toGeo()
	if !ok {
		return nil, fiber.NewError(400, "location needs lat and lon")
	}
	return &domain.POI{
		TrailID:     p.TrailID,
		Name:        p.Name,
		Kind:        p.Kind,
		Description: p.Description,
		Location:    loc,
		MediaURL:    p.MediaURL,
		Position:    p.Position,
		Metadata:    p.Metadata,
	}, nil
}

// NearbyPOIsHandler returns POIs within a radius of a point.
func NearbyPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Presence is checked on the raw strings: (0, 0) is a real
		// position, not a missing parameter.
		latStr := c.Query("lat")
		lonStr := c.Query("lon")
		if lonStr == "" {
			lonStr = c.Query("lng")
		}
		if latStr == "" || lonStr == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			return errBadRequest(c, "lat and lon must be numbers")
		}

		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 20)
		if radius <= 0 || radius > 10000 {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}
		if limit <= 0 || limit > 50 {
			limit = 20
		}

		pois, err := deps.POIs.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(pois)
	}
}

// TrailPOIsHandler returns a trail's POIs in walking order.
func TrailPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		pois, err := deps.POIs.ListByTrail(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(pois)
	}
}

// CreatePOIHandler creates a POI on a trail.
func CreatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload poiPayload
		if err := c.BodyParser(&payload); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		poi, err := payload.toDomain()
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		created, err := deps.POIs.Create(c.Context(), poi)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// GetPOIHandler returns a single POI.
func GetPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "poi id is required")
		}
		poi, err := deps.POIs.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "poi not found")
		}
		return c.JSON(poi)
	}
}

// UpdatePOIHandler rewrites a POI.
func UpdatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "poi id is required")
		}

		var payload poiPayload
		if err := c.BodyParser(&payload); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		poi, err := payload.toDomain()
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		poi.ID = id

		updated, err := deps.POIs.Update(c.Context(), poi)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

// DeletePOIHandler removes a POI.
func DeletePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "poi id is required")
		}
		if err := deps.POIs.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "poi not found")
		}
		return c.SendStatus(204)
	}
}
