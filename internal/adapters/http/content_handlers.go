package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adelinebrd/chasse/internal/core/domain"
)

// --- Quizzes ---

// CreateQuizHandler attaches a multiple-choice quiz to a POI.
func CreateQuizHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var quiz domain.Quiz
		if err := c.BodyParser(&quiz); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		created, err := deps.Quizzes.Create(c.Context(), &quiz)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// UpdateQuizHandler rewrites a quiz.
func UpdateQuizHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "quiz id is required")
		}
		var quiz domain.Quiz
		if err := c.BodyParser(&quiz); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		quiz.ID = id
		updated, err := deps.Quizzes.Update(c.Context(), &quiz)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

// DeleteQuizHandler removes a quiz.
func DeleteQuizHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "quiz id is required")
		}
		if err := deps.Quizzes.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "quiz not found")
		}
		return c.SendStatus(204)
	}
}

// POIQuizzesHandler returns the quizzes attached to a POI.
func POIQuizzesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "poi id is required")
		}
		quizzes, err := deps.Quizzes.ListByPOI(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(quizzes)
	}
}

// --- Hunts ---

// CreateHuntHandler layers a treasure hunt on a trail.
func CreateHuntHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var hunt domain.Hunt
		if err := c.BodyParser(&hunt); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		created, err := deps.Hunts.Create(c.Context(), &hunt)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// UpdateHuntHandler rewrites a hunt.
func UpdateHuntHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "hunt id is required")
		}
		var hunt domain.Hunt
		if err := c.BodyParser(&hunt); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		hunt.ID = id
		updated, err := deps.Hunts.Update(c.Context(), &hunt)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

// DeleteHuntHandler removes a hunt.
func DeleteHuntHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "hunt id is required")
		}
		if err := deps.Hunts.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "hunt not found")
		}
		return c.SendStatus(204)
	}
}

// ActiveHuntsHandler returns hunts currently open to players.
func ActiveHuntsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hunts, err := deps.Hunts.ListActive(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(hunts)
	}
}

// TrailHuntsHandler returns the hunts layered on a trail.
func TrailHuntsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		hunts, err := deps.Hunts.ListByTrail(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(hunts)
	}
}

// --- Badges ---

// CreateBadgeHandler creates or updates a badge definition.
func CreateBadgeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var badge domain.Badge
		if err := c.BodyParser(&badge); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		created, err := deps.Badges.Create(c.Context(), &badge)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(created)
	}
}

// ListBadgesHandler returns all badge definitions.
func ListBadgesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		badges, err := deps.Badges.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(badges)
	}
}

// DeleteBadgeHandler removes a badge definition.
func DeleteBadgeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "badge id is required")
		}
		if err := deps.Badges.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "badge not found")
		}
		return c.SendStatus(204)
	}
}

// --- Leaderboard ---

// LeaderboardHandler returns the top-ranked players.
func LeaderboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 25)
		entries, err := deps.Leaderboard.Top(c.Context(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(entries)
	}
}

// RecordScoreHandler adds points to a player's running total.
func RecordScoreHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entry domain.ScoreEntry
		if err := c.BodyParser(&entry); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Leaderboard.RecordScore(c.Context(), &entry); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(202).JSON(entry)
	}
}
