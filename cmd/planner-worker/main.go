package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/rienbien8/Bloomix-backend/internal/adapters/nats"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/postgres"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/valkey"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/config"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/logging"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/telemetry"
	"github.com/rienbien8/Bloomix-backend/internal/workflows"
)

func main() {
	cfg, err := config.Load("bloomix-planner-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, "bloomix-planner-worker")

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cacheSvc ports.CacheService
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	users := postgres.NewUserRepo(db)
	contents := postgres.NewContentRepo(db)
	follows := usecases.NewFollowService(users, postgres.NewArtistRepo(db), postgres.NewFollowRepo(db), cacheSvc, publisher)
	spots := usecases.NewSpotService(postgres.NewSpotRepo(db), contents, cacheSvc)
	planner := usecases.NewPlannerService(users, follows, contents, publisher)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.TripPlanWorkflow)
	w.RegisterActivity(&workflows.TripActivities{
		Trips:   usecases.NewTripService(spots, planner),
		Planner: planner,
	})

	slog.Info("planner worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
