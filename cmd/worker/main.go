package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/kanahhealth/kanah/internal/adapters/mpesa"
	natsadapter "github.com/kanahhealth/kanah/internal/adapters/nats"
	"github.com/kanahhealth/kanah/internal/adapters/postgres"
	"github.com/kanahhealth/kanah/internal/adapters/valkey"
	"github.com/kanahhealth/kanah/internal/core/ports"
	"github.com/kanahhealth/kanah/internal/core/usecases"
	"github.com/kanahhealth/kanah/internal/pkg/config"
	"github.com/kanahhealth/kanah/internal/pkg/logging"
	"github.com/kanahhealth/kanah/internal/workflows"
)

func main() {
	cfg, err := config.Load("kanah-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("kanah-worker", logLevel, "json")

	ctx := context.Background()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Payment sessions live in valkey so the API and the saga share them
	var sessions ports.CacheService
	cache, err := valkey.New(ctx, cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		sessions = cache
	}

	// NATS for the notification step
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	apptRepo := postgres.NewAppointmentRepo(db)
	workerRepo := postgres.NewWorkerRepo(db)

	gateway := mpesa.New()
	gateway.SettleDelay = time.Duration(cfg.Payments.SettleDelaySeconds) * time.Second

	// The saga publishes the booked event itself, so the service gets no
	// publisher here.
	bookings := usecases.NewBookingService(apptRepo, workerRepo, gateway, nil, sessions)

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
	w.RegisterWorkflow(workflows.BookingWorkflow)
	w.RegisterActivity(&workflows.BookingActivities{
		Bookings:     bookings,
		Appointments: apptRepo,
		Events:       events,
	})

	log.Println("booking worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
