package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/adelinebrd/chasse/internal/adapters/nats"
	"github.com/adelinebrd/chasse/internal/adapters/postgres"
	"github.com/adelinebrd/chasse/internal/adapters/valkey"
	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/usecases"
	"github.com/adelinebrd/chasse/internal/pkg/config"
	"github.com/adelinebrd/chasse/internal/pkg/logging"
	"github.com/adelinebrd/chasse/internal/workflows"
)

func main() {
	cfg, err := config.Load("chasse-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	trailSvc := usecases.NewTrailService(postgres.NewTrailRepo(db), cache, publisher)

	// Cross-instance cache invalidation: writes on any API replica land
	// here and evict the shared Valkey entries.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	if err := sub.SubscribeTrailEvents(ctx, func(ctx context.Context, trail *domain.Trail) error {
		_ = cache.Delete(ctx, "trails:id:"+trail.ID)
		return cache.Delete(ctx, "trails:list")
	}); err != nil {
		log.Fatalf("subscribe trail events: %v", err)
	}

	if err := sub.SubscribeScoreEvents(ctx, func(ctx context.Context, entry *domain.ScoreEntry) error {
		return cache.Delete(ctx, "leaderboard:top:25")
	}); err != nil {
		log.Fatalf("subscribe score events: %v", err)
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PublishTrailWorkflow)
	w.RegisterActivity(&workflows.PublishActivities{
		Trails:    trailSvc,
		Publisher: publisher,
	})

	log.Println("publish worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
