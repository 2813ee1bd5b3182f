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

	"github.com/kanahhealth/kanah/internal/adapters/http"
	"github.com/kanahhealth/kanah/internal/adapters/mpesa"
	natsadapter "github.com/kanahhealth/kanah/internal/adapters/nats"
	"github.com/kanahhealth/kanah/internal/adapters/nominatim"
	"github.com/kanahhealth/kanah/internal/adapters/postgres"
	"github.com/kanahhealth/kanah/internal/adapters/valkey"
	"github.com/kanahhealth/kanah/internal/core/ports"
	"github.com/kanahhealth/kanah/internal/core/usecases"
	"github.com/kanahhealth/kanah/internal/pkg/config"
	"github.com/kanahhealth/kanah/internal/pkg/logging"
	"github.com/kanahhealth/kanah/internal/pkg/metrics"
	"github.com/kanahhealth/kanah/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("kanah-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("kanah-api", logLevel, "json")

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

	// Cache. The API degrades without it: payment sessions fall back to
	// NoBooking and directory responses skip the cache layer.
	var sessionCache ports.CacheService
	cache, err := valkey.New(ctx, cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		sessionCache = cache
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Outbound adapters
	geocoder := nominatim.New(cfg.Geocoder.BaseURL)
	gateway := mpesa.New()
	gateway.SettleDelay = time.Duration(cfg.Payments.SettleDelaySeconds) * time.Second

	// Repos
	workerRepo := postgres.NewWorkerRepo(db)
	motherRepo := postgres.NewMotherRepo(db)
	apptRepo := postgres.NewAppointmentRepo(db)
	tipRepo := postgres.NewTipRepo(db)
	reminderRepo := postgres.NewReminderRepo(db)
	symptomRepo := postgres.NewSymptomRepo(db)

	// Use cases
	places := usecases.NewPlaceResolver(geocoder)
	directorySvc := usecases.NewDirectoryService(workerRepo, places, sessionCache)
	bookingSvc := usecases.NewBookingService(apptRepo, workerRepo, gateway, events, sessionCache)
	tipSvc := usecases.NewTipService(tipRepo, motherRepo, sessionCache)
	triageSvc := usecases.NewTriageService(symptomRepo)
	reminderSvc := usecases.NewReminderService(reminderRepo, events)
	motherSvc := usecases.NewMotherService(motherRepo)

	deps := &http.Dependencies{
		RequireAuth: cfg.Server.RequireAuth,
		Directory:   directorySvc,
		Bookings:  bookingSvc,
		Tips:      tipSvc,
		Triage:    triageSvc,
		Reminders: reminderSvc,
		Mothers:   motherSvc,
		Places:    places,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Connection pool gauges for Grafana
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Kanah Health API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.kanah.health",
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
