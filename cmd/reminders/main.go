package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/kanahhealth/kanah/internal/adapters/nats"
	"github.com/kanahhealth/kanah/internal/adapters/postgres"
	"github.com/kanahhealth/kanah/internal/core/usecases"
	"github.com/kanahhealth/kanah/internal/pkg/config"
	"github.com/kanahhealth/kanah/internal/pkg/logging"
	"github.com/kanahhealth/kanah/internal/pkg/metrics"
)

const (
	pollInterval  = 30 * time.Second
	dispatchLimit = 200
)

func main() {
	cfg, err := config.Load("kanah-reminders")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("kanah-reminders", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// NATS
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	reminders := usecases.NewReminderService(postgres.NewReminderRepo(db), pub)

	slog.Info("reminder dispatcher started", "interval", pollInterval.String())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately
	dispatch(ctx, reminders)

	for {
		select {
		case <-ticker.C:
			dispatch(ctx, reminders)
		case <-ctx.Done():
			return
		case sig := <-quit:
			slog.Info("shutting down reminder dispatcher", "signal", sig.String())
			cancel()
			// Give an in-flight pass time to finish
			time.Sleep(2 * time.Second)
			return
		}
	}
}

func dispatch(ctx context.Context, reminders *usecases.ReminderService) {
	passCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	sent, err := reminders.DispatchDue(passCtx, time.Now(), dispatchLimit)
	if err != nil {
		slog.Error("dispatch pass failed", "error", err)
		return
	}
	if sent > 0 {
		metrics.RemindersDispatched.Add(float64(sent))
		slog.Info("reminders dispatched", "count", sent)
	}
}
