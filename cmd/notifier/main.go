package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/kanahhealth/kanah/internal/adapters/nats"
	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/pkg/config"
	"github.com/kanahhealth/kanah/internal/pkg/logging"
)

// logNotifier stands in for the SMS/push provider. Swap in an Africa's
// Talking client behind ports.NotificationService for production.
type logNotifier struct{}

func (logNotifier) SendPush(ctx context.Context, userID, title, body string) error {
	slog.Info("PUSH", "user_id", userID, "title", title, "body", body)
	return nil
}

func main() {
	cfg, err := config.Load("kanah-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("kanah-notifier", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	notifier := logNotifier{}

	err = sub.SubscribeAppointmentBooked(ctx, func(ctx context.Context, appt *domain.Appointment) error {
		body := fmt.Sprintf("New %s booked for %s (%d min).",
			appt.Type, appt.ScheduledTime.Format("Mon 2 Jan 15:04"), appt.DurationMinutes)
		return notifier.SendPush(ctx, appt.HealthWorkerID, "New appointment", body)
	})
	if err != nil {
		log.Fatalf("subscribe appointments: %v", err)
	}

	err = sub.SubscribeReminders(ctx, func(ctx context.Context, r *domain.Reminder) error {
		return notifier.SendPush(ctx, r.MotherID, r.Title, r.Message)
	})
	if err != nil {
		log.Fatalf("subscribe reminders: %v", err)
	}

	slog.Info("notifier started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down notifier", "signal", sig.String())
}
