package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/adelinebrd/chasse/internal/adapters/http"
	natsadapter "github.com/adelinebrd/chasse/internal/adapters/nats"
	"github.com/adelinebrd/chasse/internal/adapters/postgres"
	"github.com/adelinebrd/chasse/internal/adapters/valkey"
	"github.com/adelinebrd/chasse/internal/core/ports"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/config"
	"github.com/adelinebrd/chasse/internal/pkg/logging"
	"github.com/adelinebrd/chasse/internal/pkg/metrics"
	"github.com/adelinebrd/chasse/internal/pkg/telemetry"
	"github.com/adelinebrd/chasse/internal/workflows"
)

func main() {
	cfg, err := config.Load("chasse-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Pool gauges for Prometheus
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Cache. The interface variable stays nil unless the adapter actually
	// came up; handing a nil *valkey.Cache to the services would defeat
	// their nil guards.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, running uncached", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS, same rule.
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer nc.Close()
		events = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Temporal (optional) — publication falls back to inline when absent
	var engine ports.WorkflowEngine
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, publishing inline", "error", err)
		} else {
			defer tc.Close()
			engine = workflows.NewStarter(tc)
		}
	}

	// Repos
	trailRepo := postgres.NewTrailRepo(db)
	poiRepo := postgres.NewPOIRepo(db)
	quizRepo := postgres.NewQuizRepo(db)
	huntRepo := postgres.NewHuntRepo(db)
	badgeRepo := postgres.NewBadgeRepo(db)
	scoreRepo := postgres.NewScoreRepo(db)

	// Use cases
	trailSvc := usecases.NewTrailService(trailRepo, cacheSvc, events)
	poiSvc := usecases.NewPOIService(poiRepo, cacheSvc)
	quizSvc := usecases.NewQuizService(quizRepo)
	huntSvc := usecases.NewHuntService(huntRepo)
	badgeSvc := usecases.NewBadgeService(badgeRepo)
	leaderboardSvc := usecases.NewLeaderboardService(scoreRepo, cacheSvc, events)
	editorSvc := usecases.NewEditorService(ctx, trailSvc, events)
	publishSvc := usecases.NewPublishService(trailSvc, engine)

	deps := &http.Dependencies{
		Trails:      trailSvc,
		POIs:        poiSvc,
		Quizzes:     quizSvc,
		Hunts:       huntSvc,
		Badges:      badgeSvc,
		Leaderboard: leaderboardSvc,
		Editor:      editorSvc,
		Publish:     publishSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Chasse Admin API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.chasse-aux-tresors.fr",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
