package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/metrics"
)

// CreateEditorSessionHandler opens a route-editing session, seeded from
// the trail's current path when trail_id is given.
func CreateEditorSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			TrailID string `json:"trail_id"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}

		sess, err := deps.Editor.Create(c.Context(), body.TrailID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.EditorSessionsActive.Set(float64(deps.Editor.Count()))
		return c.Status(201).JSON(sess)
	}
}

// GetEditorSessionHandler returns a session's current waypoints.
func GetEditorSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Editor.Get(c.Context(), c.Params("id"))
		if err != nil {
			return editorErr(c, err)
		}
		return c.JSON(sess)
	}
}

// EditorClickHandler applies a map click: add a waypoint, or remove the
// first waypoint within the click tolerance.
func EditorClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var click pointPayload
		if err := c.BodyParser(&click); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		point, ok := click.toGeo()
		if !ok {
			return errBadRequest(c, "click needs lat and lon")
		}
		if point.Lat < -90 || point.Lat > 90 || point.Lon < -180 || point.Lon > 180 {
			return errBadRequest(c, "click out of range")
		}

		sess, err := deps.Editor.Click(c.Context(), c.Params("id"), point.Lat, point.Lon)
		if err != nil {
			return editorErr(c, err)
		}

		// An add appends the clicked point verbatim, so the last waypoint
		// tells the two outcomes apart.
		result := "removed"
		if n := len(sess.Waypoints); n > 0 && sess.Waypoints[n-1] == point {
			result = "added"
		}
		metrics.EditorClicks.WithLabelValues(result).Inc()

		return c.JSON(sess)
	}
}

// EditorUndoHandler removes the most recently added waypoint.
func EditorUndoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Editor.Undo(c.Context(), c.Params("id"))
		if err != nil {
			return editorErr(c, err)
		}
		return c.JSON(sess)
	}
}

// EditorClearHandler empties the session's waypoint list.
func EditorClearHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Editor.Clear(c.Context(), c.Params("id"))
		if err != nil {
			return editorErr(c, err)
		}
		return c.JSON(sess)
	}
}

// EditorCommitHandler persists the session's geometry onto its trail and
// closes the session.
func EditorCommitHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trail, line, err := deps.Editor.Commit(c.Context(), c.Params("id"))
		if err != nil {
			return editorErr(c, err)
		}
		metrics.EditorSessionsActive.Set(float64(deps.Editor.Count()))
		resp := fiber.Map{"path": line}
		if trail != nil {
			metrics.TrailPathsSaved.Inc()
			resp["trail"] = trail
		}
		return c.JSON(resp)
	}
}

// CloseEditorSessionHandler discards a session without saving.
func CloseEditorSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Editor.Close(c.Context(), c.Params("id")); err != nil {
			return editorErr(c, err)
		}
		metrics.EditorSessionsActive.Set(float64(deps.Editor.Count()))
		return c.SendStatus(204)
	}
}

func editorErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecases.ErrSessionNotFound) {
		return errNotFound(c, "editor session not found")
	}
	return errInternal(c, err.Error())
}
