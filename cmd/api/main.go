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

	"github.com/flaira/flaira/internal/adapters/http"
	"github.com/flaira/flaira/internal/adapters/mapbox"
	natsadapter "github.com/flaira/flaira/internal/adapters/nats"
	"github.com/flaira/flaira/internal/adapters/postgres"
	"github.com/flaira/flaira/internal/adapters/s3"
	"github.com/flaira/flaira/internal/adapters/valkey"
	"github.com/flaira/flaira/internal/core/ports"
	"github.com/flaira/flaira/internal/core/usecases"
	"github.com/flaira/flaira/internal/pkg/config"
	"github.com/flaira/flaira/internal/pkg/logging"
	"github.com/flaira/flaira/internal/pkg/metrics"
	"github.com/flaira/flaira/internal/pkg/telemetry"
	"github.com/flaira/flaira/internal/workflows"
)

func main() {
	cfg, err := config.Load("flaira-api")
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
			defer shutdown(context.Background())
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Periodically export pool stats.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Object store
	store, err := s3.New(ctx, s3.Options{
		Bucket:       cfg.S3.Bucket,
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	// Temporal: invite email delivery
	var delivery ports.InviteDelivery
	tc, err := client.Dial(client.Options{HostPort: cfg.Temporal.HostPort})
	if err != nil {
		slog.Warn("temporal unavailable, invite emails will not be delivered", "error", err)
	} else {
		defer tc.Close()
		delivery = workflows.NewDelivery(tc)
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	tripStore := postgres.NewTripStore(db)
	inviteRepo := postgres.NewInviteRepo(db)
	mediaRepo := postgres.NewMediaRepo(db)

	// Use cases
	var events ports.EventPublisher
	if publisher != nil {
		events = publisher
	}
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}

	authSvc := usecases.NewAuthService(userRepo, sessionRepo)
	tripSvc := usecases.NewTripService(tripStore, events, delivery)
	inviteSvc := usecases.NewInviteService(inviteRepo, tripStore, events)
	mediaSvc := usecases.NewMediaService(mediaRepo, tripStore, store)
	routeSvc := usecases.NewRouteService(mapbox.New(cfg.Mapbox.BaseURL, cfg.Mapbox.Token), cacheSvc)

	deps := &http.Dependencies{
		Auth:    authSvc,
		Trips:   tripSvc,
		Invites: inviteSvc,
		Media:   mediaSvc,
		Routes:  routeSvc,
		NATS:    natsConn,
		DB:      db,
		Cache:   cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Flaira API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.flaira.app",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
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
