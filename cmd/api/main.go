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

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/rienbien8/Bloomix-backend/internal/adapters/http"
	natsadapter "github.com/rienbien8/Bloomix-backend/internal/adapters/nats"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/places"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/postgres"
	"github.com/rienbien8/Bloomix-backend/internal/adapters/valkey"
	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/ports"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/config"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/logging"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/telemetry"
	"github.com/rienbien8/Bloomix-backend/internal/workflows"
)

func main() {
	cfg, err := config.Load("bloomix-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, "bloomix-api")

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
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolMetrics(ctx, 15*time.Second)

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		publisher = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Places proxy, only with a key
	var placesClient ports.PlacesClient
	if cfg.Places.APIKey != "" {
		placesClient = places.New(places.Config{
			APIKey:   cfg.Places.APIKey,
			BaseURL:  cfg.Places.BaseURL,
			Timeout:  time.Duration(cfg.Places.TimeoutMS) * time.Millisecond,
			RatePerS: cfg.Places.RatePerS,
			Burst:    cfg.Places.Burst,
		})
	} else {
		slog.Warn("places api key not set, maps endpoints disabled")
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	artistRepo := postgres.NewArtistRepo(db)
	spotRepo := postgres.NewSpotRepo(db)
	contentRepo := postgres.NewContentRepo(db)
	followRepo := postgres.NewFollowRepo(db)

	// Use cases
	followSvc := usecases.NewFollowService(userRepo, artistRepo, followRepo, cacheSvc, publisher)
	spotSvc := usecases.NewSpotService(spotRepo, contentRepo, cacheSvc)
	plannerSvc := usecases.NewPlannerService(userRepo, followSvc, contentRepo, publisher)

	deps := &http.Dependencies{
		Artists:         usecases.NewArtistService(artistRepo),
		Spots:           spotSvc,
		Contents:        usecases.NewContentService(contentRepo, userRepo),
		Follows:         followSvc,
		Planner:         plannerSvc,
		Trips:           usecases.NewTripService(spotSvc, plannerSvc),
		Maps:            usecases.NewMapsService(placesClient, cacheSvc),
		PlannerDefaults: cfg.Planner,
		NATS:            natsConn,
		DB:              db,
		Cache:           cache,
	}

	// Background trip plans
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    tlog.NewStructuredLogger(slog.Default()),
		})
		if err != nil {
			slog.Warn("temporal unavailable, async trip plans disabled", "error", err)
		} else {
			defer tc.Close()
			deps.TripRuns = workflows.NewRunner(tc, cfg.Temporal.TaskQueue)
		}
	}

	// Follow changes made by other instances drop our cached follow sets
	if cacheSvc != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "bloomix-api-follows")
		if err != nil {
			slog.Warn("follow subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			err := sub.SubscribeFollowChanged(ctx, func(ctx context.Context, event *domain.FollowEvent) error {
				return followSvc.InvalidateFollowSet(ctx, event.UserID)
			})
			if err != nil {
				slog.Warn("follow subscription failed", "error", err)
			}
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Bloomix API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", http.Version)
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
