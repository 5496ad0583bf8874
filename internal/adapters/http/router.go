package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/adelinebrd/chasse/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	v1.Get("/trails", timeout.NewWithContext(ListTrailsHandler(deps), 15*time.Second))
	v1.Post("/trails", timeout.NewWithContext(CreateTrailHandler(deps), 15*time.Second))
	v1.Get("/trails/by-slug/:slug", timeout.NewWithContext(GetTrailBySlugHandler(deps), 15*time.Second))
	v1.Get("/trails/:id", timeout.NewWithContext(GetTrailHandler(deps), 15*time.Second))
	v1.Put("/trails/:id", timeout.NewWithContext(UpdateTrailHandler(deps), 15*time.Second))
	v1.Delete("/trails/:id", timeout.NewWithContext(DeleteTrailHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/bounds", timeout.NewWithContext(TrailBoundsHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/preview.svg", timeout.NewWithContext(TrailPreviewHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/pois", timeout.NewWithContext(TrailPOIsHandler(deps), 15*time.Second))
	v1.Get("/trails/:id/hunts", timeout.NewWithContext(TrailHuntsHandler(deps), 15*time.Second))
	v1.Post("/trails/:id/publish", timeout.NewWithContext(PublishTrailHandler(deps), 15*time.Second))
	v1.Post("/trails/:id/unpublish", timeout.NewWithContext(UnpublishTrailHandler(deps), 15*time.Second))

	v1.Get("/pois/nearby", timeout.NewWithContext(NearbyPOIsHandler(deps), 15*time.Second))
	v1.Post("/pois", timeout.NewWithContext(CreatePOIHandler(deps), 15*time.Second))
	v1.Get("/pois/:id", timeout.NewWithContext(GetPOIHandler(deps), 15*time.Second))
	v1.Put("/pois/:id", timeout.NewWithContext(UpdatePOIHandler(deps), 15*time.Second))
	v1.Delete("/pois/:id", timeout.NewWithContext(DeletePOIHandler(deps), 15*time.Second))
	v1.Get("/pois/:id/quizzes", timeout.NewWithContext(POIQuizzesHandler(deps), 15*time.Second))

	v1.Post("/quizzes", timeout.NewWithContext(CreateQuizHandler(deps), 15*time.Second))
	v1.Put("/quizzes/:id", timeout.NewWithContext(UpdateQuizHandler(deps), 15*time.Second))
	v1.Delete("/quizzes/:id", timeout.NewWithContext(DeleteQuizHandler(deps), 15*time.Second))

	v1.Get("/hunts/active", timeout.NewWithContext(ActiveHuntsHandler(deps), 15*time.Second))
	v1.Post("/hunts", timeout.NewWithContext(CreateHuntHandler(deps), 15*time.Second))
	v1.Put("/hunts/:id", timeout.NewWithContext(UpdateHuntHandler(deps), 15*time.Second))
	v1.Delete("/hunts/:id", timeout.NewWithContext(DeleteHuntHandler(deps), 15*time.Second))

	v1.Get("/badges", timeout.NewWithContext(ListBadgesHandler(deps), 15*time.Second))
	v1.Post("/badges", timeout.NewWithContext(CreateBadgeHandler(deps), 15*time.Second))
	v1.Delete("/badges/:id", timeout.NewWithContext(DeleteBadgeHandler(deps), 15*time.Second))

	v1.Get("/leaderboard", timeout.NewWithContext(LeaderboardHandler(deps), 15*time.Second))
	v1.Post("/scores", timeout.NewWithContext(RecordScoreHandler(deps), 15*time.Second))

	// Route editor sessions (no timeout wrapper — in-memory, sub-ms)
	v1.Post("/editor/sessions", CreateEditorSessionHandler(deps))
	v1.Get("/editor/sessions/:id", GetEditorSessionHandler(deps))
	v1.Post("/editor/sessions/:id/click", EditorClickHandler(deps))
	v1.Post("/editor/sessions/:id/undo", EditorUndoHandler(deps))
	v1.Post("/editor/sessions/:id/clear", EditorClearHandler(deps))
	v1.Post("/editor/sessions/:id/commit", EditorCommitHandler(deps))
	v1.Delete("/editor/sessions/:id", CloseEditorSessionHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket. Without a NATS connection there is nothing to relay, so
	// the route answers 503 instead of upgrading and panicking on the
	// first subscribe.
	if deps.NATS == nil {
		app.Get("/ws", func(c *fiber.Ctx) error {
			return c.Status(503).JSON(fiber.Map{"error": "live updates unavailable"})
		})
		return
	}
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
